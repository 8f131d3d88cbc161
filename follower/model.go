/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package follower

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/sabouaram/logship/filter"
	"github.com/sabouaram/logship/internal/errclass"
	"github.com/sabouaram/logship/internal/xlog"
	"github.com/sabouaram/logship/logdesc"
)

// heartbeatFrame is the literal IAA token (spec §6), sent raw - it bypasses
// Filter and Formatter entirely since it carries no log content.
const heartbeatFrame = "###LE-IAA###\n"

// Follower tails one glob-matched file for the lifetime of its Run call.
type Follower struct {
	cfg Config
	log *logrus.Entry

	filterLimiter *xlog.Limiter
	formatLimiter *xlog.Limiter

	file     *os.File
	realPath string
	tailBuf  []byte
	readBuf  []byte

	firstOpen  bool
	idle       int
	failing    bool
	failLogged bool

	watcher *fsnotify.Watcher
}

// New builds a Follower ready for Run. Construction opens no log file;
// the glob is resolved lazily on the first Run iteration. With
// Config.Watch set, New does start an fsnotify watch on the pattern's
// directory.
func New(cfg Config) *Follower {
	if cfg.Filter == nil {
		panic("follower: Config.Filter is required")
	}
	if cfg.Formatter == nil {
		panic("follower: Config.Formatter is required")
	}
	if cfg.Transport == nil {
		panic("follower: Config.Transport is required")
	}

	f := &Follower{
		cfg:           cfg,
		log:           xlog.For("follower." + cfg.Name),
		filterLimiter: xlog.NewLimiter(time.Minute),
		formatLimiter: xlog.NewLimiter(time.Minute),
		readBuf:       make([]byte, cfg.Tunables.MaxLine),
		firstOpen:     true,
	}
	if cfg.Watch {
		f.watcher = newBestEffortWatcher(filepath.Dir(cfg.PathPattern))
	}
	return f
}

// Run tails the file until Config.Shutdown closes. It returns within
// roughly TailRecheck+ReopenTryInterval of being signaled (spec §4.4
// Termination).
func (f *Follower) Run() {
	defer f.closeFile()
	defer f.closeWatcher()

	for {
		if f.shuttingDown() {
			return
		}
		if f.file == nil {
			if !f.openOrWait() {
				return
			}
		}

		readable := f.cfg.Tunables.MaxLine - len(f.tailBuf)
		if readable <= 0 {
			// LineTooLong (spec §7): emit the buffered bytes as a truncated
			// line with no terminator, and start fresh.
			f.emit(logdesc.Line(f.tailBuf))
			f.tailBuf = f.tailBuf[:0]
			readable = f.cfg.Tunables.MaxLine
		}

		n, err := f.file.Read(f.readBuf[:readable])
		if err != nil && err != io.EOF {
			f.log.WithError(err).WithField("class", errclass.FileRead).Warn("read failed, reopening")
			f.closeFile()
			continue
		}

		if n == 0 {
			if f.idleWait() {
				return
			}
			continue
		}

		f.idle = 0
		f.consume(f.readBuf[:n])
	}
}

// consume appends newly read bytes to the tail buffer, splits on '\n', and
// dispatches every complete line; the final (possibly empty) piece becomes
// the new tail buffer.
func (f *Follower) consume(chunk []byte) {
	combined := append(f.tailBuf, chunk...)
	parts := bytes.Split(combined, []byte{'\n'})
	for _, line := range parts[:len(parts)-1] {
		f.emit(logdesc.Line(line))
	}
	tail := parts[len(parts)-1]
	f.tailBuf = append(f.tailBuf[:0], tail...)
}

// emit runs one complete line through Filter then Formatter and forwards
// every resulting Frame to the Transport.
func (f *Follower) emit(line logdesc.Line) {
	out, ok := filter.SafeApply(f.cfg.Filter, line, f.filterLimiter, "follower."+f.cfg.Name)
	if !ok {
		return
	}
	frames, ok := f.safeFormat(out)
	if !ok {
		return
	}
	for _, fr := range frames {
		f.cfg.Transport.Send(fr)
	}
}

// safeFormat calls Formatter.Format and recovers a panic, treating it as a
// dropped line (spec §7 FormatterError: same handling as FilterError).
func (f *Follower) safeFormat(line logdesc.Line) (frames []logdesc.Frame, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
			if f.formatLimiter.Allow() {
				f.log.WithField("panic", r).Warn("formatter panicked, line dropped")
			}
		}
	}()
	return f.cfg.Formatter.Format(line, f.cfg.Meta), true
}

// idleWait runs the no-data path (spec §4.4): sleep TAIL_RECHECK, count the
// idle cycle, and every NAME_CHECK cycles run the rotation/truncation
// check, and every IAA_INTERVAL cycles emit a heartbeat. It returns true
// if shutdown was observed while waiting.
func (f *Follower) idleWait() bool {
	f.idle++

	shutdown, dirty := f.sleepOrShutdown(f.cfg.Tunables.TailRecheck)
	if shutdown {
		return true
	}

	// A filesystem event forces the rotation/truncation check immediately
	// instead of waiting for the NAME_CHECK-th idle cycle; it never skips
	// or replaces the timer-driven check itself (SPEC_FULL §6 4.4).
	if dirty || (f.cfg.Tunables.NameCheck > 0 && f.idle%f.cfg.Tunables.NameCheck == 0) {
		f.checkRotationOrTruncation()
	}
	if f.cfg.Tunables.IAAInterval > 0 && f.idle%f.cfg.Tunables.IAAInterval == 0 {
		f.cfg.Transport.Send(logdesc.Frame(heartbeatFrame))
	}
	return false
}

// sleepOrShutdown sleeps for d, waking early on Config.Shutdown or (when
// configured) a filesystem event for the glob's directory. It reports
// whether shutdown was observed and whether a filesystem event fired.
func (f *Follower) sleepOrShutdown(d time.Duration) (shutdown, dirty bool) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	var events <-chan fsnotify.Event
	if f.watcher != nil {
		events = f.watcher.Events
	}

	select {
	case <-f.cfg.Shutdown:
		return true, false
	case <-timer.C:
		return false, false
	case <-events:
		return false, true
	}
}

func (f *Follower) shuttingDown() bool {
	select {
	case <-f.cfg.Shutdown:
		return true
	default:
		return false
	}
}

// checkRotationOrTruncation implements both halves of spec §4.4's
// rename/truncate check. Truncation is checked first since it requires
// only the open handle; rotation needs the pricier glob rescan.
func (f *Follower) checkRotationOrTruncation() {
	before, err := f.file.Stat()
	if err != nil {
		return
	}

	if pos, err := f.file.Seek(0, io.SeekCurrent); err == nil && pos > before.Size() {
		if _, err := f.file.Seek(before.Size(), io.SeekStart); err == nil {
			f.tailBuf = f.tailBuf[:0]
			f.log.Info("file truncated, resumed at new end of file")
		}
		return
	}

	candidate, candidateInfo, err := newestMatch(f.cfg.PathPattern)
	if err != nil || candidate == "" {
		return
	}

	after, err := f.file.Stat()
	if err != nil || !after.ModTime().Equal(before.ModTime()) {
		// the open handle itself changed underneath us (e.g. appended to
		// between stats); not conclusive, wait for the next idle cycle.
		return
	}
	if candidateInfo.ModTime().Equal(before.ModTime()) {
		return
	}

	f.log.WithField("candidate", candidate).Info("rotation detected, reopening")
	f.closeFile()
}

// openOrWait runs the open/reopen protocol (spec §4.4) until a file is
// open or shutdown is observed. It returns false only on shutdown.
func (f *Follower) openOrWait() bool {
	for {
		if f.shuttingDown() {
			return false
		}

		path, _, err := newestMatch(f.cfg.PathPattern)
		if err != nil || path == "" {
			f.logOpenFailure(errclass.FileOpen, nil, "no file matches pattern, waiting")
			if shutdown, _ := f.sleepOrShutdown(f.cfg.Tunables.ReopenTryInterval); shutdown {
				return false
			}
			continue
		}

		file, err := os.Open(path)
		if err != nil {
			f.logOpenFailure(errclass.FileOpen, err, "open failed, waiting")
			if shutdown, _ := f.sleepOrShutdown(f.cfg.Tunables.ReopenTryInterval); shutdown {
				return false
			}
			continue
		}

		if f.firstOpen {
			_, _ = file.Seek(0, io.SeekEnd)
			f.firstOpen = false
		}
		if f.failing {
			f.log.WithField("path", path).Info("recovered, file open again")
			f.failing = false
			f.failLogged = false
		}

		f.file = file
		f.realPath = path
		f.tailBuf = f.tailBuf[:0]
		f.idle = 0
		return true
	}
}

// logOpenFailure logs the first occurrence of an open/no-match failure at
// info level and suppresses the rest until a successful open recovers
// (spec §7 FileOpenError).
func (f *Follower) logOpenFailure(class errclass.Class, err error, msg string) {
	f.failing = true
	if f.failLogged {
		return
	}
	f.failLogged = true
	entry := f.log.WithField("class", class)
	if err != nil {
		entry = entry.WithError(err)
	}
	entry.Info(msg)
}

func (f *Follower) closeFile() {
	if f.file != nil {
		_ = f.file.Close()
		f.file = nil
	}
}

func (f *Follower) closeWatcher() {
	if f.watcher != nil {
		_ = f.watcher.Close()
	}
}

// newestMatch returns the glob match with the newest mtime, ties broken by
// lexicographic path (spec §4.4 step 1).
func newestMatch(pattern string) (string, os.FileInfo, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return "", nil, err
	}
	if len(matches) == 0 {
		return "", nil, nil
	}
	sort.Strings(matches)

	var best string
	var bestInfo os.FileInfo
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil {
			continue
		}
		if bestInfo == nil || info.ModTime().After(bestInfo.ModTime()) {
			best, bestInfo = m, info
		}
	}
	if bestInfo == nil {
		return "", nil, nil
	}
	return best, bestInfo, nil
}

// newBestEffortWatcher starts an fsnotify watch on dir, returning nil on
// any failure: the accelerator is optional, never load-bearing.
func newBestEffortWatcher(dir string) *fsnotify.Watcher {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil
	}
	return w
}
