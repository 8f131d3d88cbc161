package transport

import (
	"bufio"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sabouaram/logship/logdesc"
)

func listen(t *testing.T) (*net.TCPListener, uint16) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })
	return ln.(*net.TCPListener), uint16(ln.Addr().(*net.TCPAddr).Port)
}

func baseConfig(port uint16) Config {
	return Config{
		Endpoint:     "127.0.0.1",
		Port:         port,
		QueueSize:    8,
		DialTimeout:  time.Second,
		ReconnectMin: 10 * time.Millisecond,
		ReconnectMax: 40 * time.Millisecond,
		Name:         "test",
	}
}

func TestWorker_SendsFramesInOrder(t *testing.T) {
	ln, port := listen(t)
	cfg := baseConfig(port)
	tr := New(cfg)
	defer tr.Close()

	conn, err := ln.Accept()
	require.NoError(t, err)
	defer conn.Close()

	tr.Send(logdesc.Frame("one\n"))
	tr.Send(logdesc.Frame("two\n"))

	r := bufio.NewReader(conn)
	line1, err := r.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "one\n", line1)

	line2, err := r.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "two\n", line2)
}

func TestWorker_PreambleWrittenBeforeFrames(t *testing.T) {
	ln, port := listen(t)
	cfg := baseConfig(port)
	cfg.PreambleFunc = func() []byte { return []byte("HELLO\n") }
	tr := New(cfg)
	defer tr.Close()

	conn, err := ln.Accept()
	require.NoError(t, err)
	defer conn.Close()

	tr.Send(logdesc.Frame("body\n"))

	r := bufio.NewReader(conn)
	preamble, err := r.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "HELLO\n", preamble)

	body, err := r.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "body\n", body)
}

// TestWorker_RetriesPendingFrameAfterReconnect mirrors spec scenario S6: a
// frame is handed to a connection that dies before the write is
// acknowledged, so it must reappear intact on the next connection.
func TestWorker_RetriesPendingFrameAfterReconnect(t *testing.T) {
	ln, port := listen(t)
	cfg := baseConfig(port)
	tr := New(cfg)
	defer tr.Close()

	first, err := ln.Accept()
	require.NoError(t, err)
	_ = first.Close() // die before the worker's write lands

	tr.Send(logdesc.Frame("retry-me\n"))

	second, err := ln.Accept()
	require.NoError(t, err)
	defer second.Close()

	r := bufio.NewReader(second)
	line, err := r.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "retry-me\n", line)
}

// TestWorker_OverflowDoesNotBlockOrPanic exercises Send against a small
// queue with nobody accepting the connection yet; drop-head behavior itself
// is covered at the queue level (queue_test.go).
func TestWorker_OverflowDoesNotBlockOrPanic(t *testing.T) {
	_, port := listen(t)
	cfg := baseConfig(port)
	cfg.QueueSize = 2
	tr := New(cfg)
	defer tr.Close()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			tr.Send(logdesc.Frame("x"))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Send blocked under sustained overflow")
	}
}

func TestWorker_CloseIsIdempotentAndReachesClosedState(t *testing.T) {
	ln, port := listen(t)
	cfg := baseConfig(port)
	tr := New(cfg)

	conn, err := ln.Accept()
	require.NoError(t, err)
	defer conn.Close()

	tr.Close()
	tr.Close() // idempotent
	assert.Equal(t, StateClosed, tr.State())
}
