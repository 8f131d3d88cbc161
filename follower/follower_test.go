package follower

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sabouaram/logship/config"
	"github.com/sabouaram/logship/filter"
	"github.com/sabouaram/logship/frame"
	"github.com/sabouaram/logship/logdesc"
	"github.com/sabouaram/logship/transport"
)

type fakeTransport struct {
	mu     sync.Mutex
	frames []logdesc.Frame
}

func (f *fakeTransport) Send(frame logdesc.Frame) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := make(logdesc.Frame, len(frame))
	copy(cp, frame)
	f.frames = append(f.frames, cp)
}

func (f *fakeTransport) State() transport.State { return transport.StateConnected }
func (f *fakeTransport) Close()                 {}

func (f *fakeTransport) snapshot() []logdesc.Frame {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]logdesc.Frame, len(f.frames))
	copy(out, f.frames)
	return out
}

func fastTunables() config.Tunables {
	t := config.Default()
	t.TailRecheck = 5 * time.Millisecond
	t.ReopenTryInterval = 5 * time.Millisecond
	t.NameCheck = 1
	t.IAAInterval = 1000000
	t.MaxLine = 65536
	return t
}

func waitForFrames(t *testing.T, tr *fakeTransport, n int, timeout time.Duration) []logdesc.Frame {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if got := tr.snapshot(); len(got) >= n {
			return got
		}
		time.Sleep(2 * time.Millisecond)
	}
	require.FailNow(t, fmt.Sprintf("timed out waiting for %d frames, got %d", n, len(tr.snapshot())))
	return nil
}

func TestFollower_SingleLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	tr := &fakeTransport{}
	shutdown := make(chan struct{})
	fl := New(Config{
		Name:        "t1",
		PathPattern: path,
		Filter:      filter.Identity,
		Formatter:   frame.NewPlain(),
		Meta:        frame.Meta{Token: "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"},
		Transport:   tr,
		Tunables:    fastTunables(),
		Shutdown:    shutdown,
	})

	done := make(chan struct{})
	go func() { fl.Run(); close(done) }()

	time.Sleep(20 * time.Millisecond) // let it open and seek to EOF
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("hello\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	frames := waitForFrames(t, tr, 1, time.Second)
	assert.Equal(t, "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaahello\n", string(frames[0]))

	close(shutdown)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("follower did not shut down")
	}
}

func TestFollower_RotationDeliversOnlyPostRotationLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	require.NoError(t, os.WriteFile(path, []byte("a\nb\n"), 0o644))

	tr := &fakeTransport{}
	shutdown := make(chan struct{})
	fl := New(Config{
		Name:        "t2",
		PathPattern: path,
		Filter:      filter.Identity,
		Formatter:   frame.NewPlain(),
		Meta:        frame.Meta{Token: "T"},
		Transport:   tr,
		Tunables:    fastTunables(),
		Shutdown:    shutdown,
	})

	done := make(chan struct{})
	go func() { fl.Run(); close(done) }()
	defer func() { close(shutdown); <-done }()

	time.Sleep(20 * time.Millisecond)

	appendLine(t, path, "c\n")
	waitForFrames(t, tr, 1, time.Second)

	require.NoError(t, os.Rename(path, path+".1"))
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	appendLine(t, path, "d\n")

	frames := waitForFrames(t, tr, 2, time.Second)
	assert.Equal(t, "Tc\n", string(frames[0]))
	assert.Equal(t, "Td\n", string(frames[1]))
}

func TestFollower_TruncationResumesAtNewEOF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	require.NoError(t, os.WriteFile(path, []byte("0123456789\n"), 0o644))

	tr := &fakeTransport{}
	shutdown := make(chan struct{})
	fl := New(Config{
		Name:        "t3",
		PathPattern: path,
		Filter:      filter.Identity,
		Formatter:   frame.NewPlain(),
		Meta:        frame.Meta{Token: "T"},
		Transport:   tr,
		Tunables:    fastTunables(),
		Shutdown:    shutdown,
	})

	done := make(chan struct{})
	go func() { fl.Run(); close(done) }()
	defer func() { close(shutdown); <-done }()

	time.Sleep(20 * time.Millisecond)

	require.NoError(t, os.Truncate(path, 0))
	appendLine(t, path, "hello\n")

	frames := waitForFrames(t, tr, 1, time.Second)
	assert.Equal(t, "Thello\n", string(frames[0]))
}

func TestFollower_HeartbeatAfterIdleCycles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.log")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	tr := &fakeTransport{}
	shutdown := make(chan struct{})
	tunables := fastTunables()
	tunables.IAAInterval = 3
	fl := New(Config{
		Name:        "t4",
		PathPattern: path,
		Filter:      filter.Identity,
		Formatter:   frame.NewPlain(),
		Meta:        frame.Meta{Token: "T"},
		Transport:   tr,
		Tunables:    tunables,
		Shutdown:    shutdown,
	})

	done := make(chan struct{})
	go func() { fl.Run(); close(done) }()
	defer func() { close(shutdown); <-done }()

	frames := waitForFrames(t, tr, 1, time.Second)
	assert.Equal(t, heartbeatFrame, string(frames[0]))
}

func TestFollower_ShutdownWhileWaitingForFileReturnsPromptly(t *testing.T) {
	dir := t.TempDir()
	tr := &fakeTransport{}
	shutdown := make(chan struct{})
	tunables := fastTunables()
	fl := New(Config{
		Name:        "t5",
		PathPattern: filepath.Join(dir, "never-exists-*.log"),
		Filter:      filter.Identity,
		Formatter:   frame.NewPlain(),
		Meta:        frame.Meta{Token: "T"},
		Transport:   tr,
		Tunables:    tunables,
		Shutdown:    shutdown,
	})

	done := make(chan struct{})
	go func() { fl.Run(); close(done) }()

	time.Sleep(10 * time.Millisecond)
	close(shutdown)

	select {
	case <-done:
	case <-time.After(200 * time.Millisecond):
		t.Fatal("follower did not honor shutdown while waiting for a file")
	}
}

func appendLine(t *testing.T, path, line string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString(line)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}
