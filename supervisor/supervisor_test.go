package supervisor_test

import (
	"bufio"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sabouaram/logship/config"
	"github.com/sabouaram/logship/logdesc"
	"github.com/sabouaram/logship/supervisor"
)

func listen(t *testing.T) (*net.TCPListener, uint16) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })
	return ln.(*net.TCPListener), uint16(ln.Addr().(*net.TCPAddr).Port)
}

func fastTunables() config.Tunables {
	t := config.Default()
	t.TailRecheck = 5 * time.Millisecond
	t.ReopenTryInterval = 5 * time.Millisecond
	t.NameCheck = 1
	t.IAAInterval = 1000000
	t.SendQueueSize = 64
	return t
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSupervisor_SingleDescriptorEndToEnd(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "app.log", "")

	ln, port := listen(t)

	desc := logdesc.LogDescriptor{
		Name:        "app",
		PathPattern: filepath.Join(dir, "app.log"),
		Mode:        logdesc.ModeToken,
		Token:       "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa",
		Destinations: []logdesc.Destination{
			{Endpoint: "127.0.0.1", Port: port},
		},
	}

	sup, err := supervisor.New(supervisor.Config{
		Descriptors: []logdesc.LogDescriptor{desc},
		Tunables:    fastTunables(),
	})
	require.NoError(t, err)

	go sup.Run()
	defer sup.Shutdown()

	conn, err := ln.Accept()
	require.NoError(t, err)
	defer conn.Close()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("hello\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	r := bufio.NewReader(conn)
	line, err := r.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaahello\n", line)
}

func TestSupervisor_SharesTransportAcrossIdenticalDestinations(t *testing.T) {
	dir := t.TempDir()
	path1 := writeFile(t, dir, "one.log", "")
	path2 := writeFile(t, dir, "two.log", "")

	ln, port := listen(t)

	dest := logdesc.Destination{Endpoint: "127.0.0.1", Port: port}
	descs := []logdesc.LogDescriptor{
		{
			Name: "one", PathPattern: path1, Mode: logdesc.ModeToken,
			Token:        "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa",
			Destinations: []logdesc.Destination{dest},
		},
		{
			Name: "two", PathPattern: path2, Mode: logdesc.ModeToken,
			Token:        "bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb",
			Destinations: []logdesc.Destination{dest},
		},
	}

	sup, err := supervisor.New(supervisor.Config{
		Descriptors: descs,
		Tunables:    fastTunables(),
	})
	require.NoError(t, err)

	go sup.Run()
	defer sup.Shutdown()

	// Exactly one Transport was built for the shared destination: only one
	// inbound connection is ever offered.
	conn, err := ln.Accept()
	require.NoError(t, err)
	defer conn.Close()

	acceptedSecond := make(chan struct{})
	go func() {
		_ = ln.SetDeadline(time.Now().Add(150 * time.Millisecond))
		if c, err := ln.Accept(); err == nil {
			c.Close()
			close(acceptedSecond)
		}
	}()

	select {
	case <-acceptedSecond:
		t.Fatal("a second connection was opened for a structurally identical destination")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestSupervisor_FilenameFilterExcludesDescriptor(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "excluded.log", "")

	ln, port := listen(t)

	desc := logdesc.LogDescriptor{
		Name:        "excluded",
		PathPattern: path,
		Mode:        logdesc.ModeToken,
		Token:       "cccccccc-cccc-cccc-cccc-cccccccccccc",
		Destinations: []logdesc.Destination{
			{Endpoint: "127.0.0.1", Port: port},
		},
	}

	sup, err := supervisor.New(supervisor.Config{
		Descriptors:    []logdesc.LogDescriptor{desc},
		FilenameFilter: func(string) bool { return false },
		Tunables:       fastTunables(),
	})
	require.NoError(t, err)

	go sup.Run()

	// An excluded descriptor gets no Transport, so nothing ever dials in.
	_ = ln.SetDeadline(time.Now().Add(150 * time.Millisecond))
	_, err = ln.Accept()
	assert.Error(t, err, "an excluded descriptor must not open a connection")

	sup.Shutdown()
}

func TestSupervisor_RejectsInvalidDescriptor(t *testing.T) {
	_, err := supervisor.New(supervisor.Config{
		Descriptors: []logdesc.LogDescriptor{{Name: ""}},
	})
	assert.Error(t, err)
}
