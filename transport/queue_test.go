package transport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sabouaram/logship/logdesc"
)

func frameN(n int) logdesc.Frame {
	return logdesc.Frame([]byte{byte(n)})
}

func TestDropHeadQueue_FIFOUnderCapacity(t *testing.T) {
	q := newDropHeadQueue(4)
	for i := 1; i <= 3; i++ {
		q.push(frameN(i))
	}
	require.Equal(t, 3, q.len())
	for i := 1; i <= 3; i++ {
		f, ok := q.pop(time.Millisecond)
		require.True(t, ok)
		assert.Equal(t, frameN(i), f)
	}
}

func TestDropHeadQueue_OverflowDropsHead(t *testing.T) {
	// spec §8 invariant 4 / S5: capacity 4, 10 frames enqueued before any
	// drain -> frames 7,8,9,10 survive in order, 1-6 dropped.
	q := newDropHeadQueue(4)
	for i := 1; i <= 10; i++ {
		q.push(frameN(i))
	}
	require.Equal(t, 4, q.len())

	for i := 7; i <= 10; i++ {
		f, ok := q.pop(time.Millisecond)
		require.True(t, ok)
		assert.Equal(t, frameN(i), f)
	}
	_, ok := q.pop(5 * time.Millisecond)
	assert.False(t, ok)
}

func TestDropHeadQueue_PopTimesOutWhenEmpty(t *testing.T) {
	q := newDropHeadQueue(2)
	start := time.Now()
	_, ok := q.pop(20 * time.Millisecond)
	assert.False(t, ok)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestDropHeadQueue_PopWakesOnPush(t *testing.T) {
	q := newDropHeadQueue(2)
	done := make(chan logdesc.Frame, 1)
	go func() {
		f, ok := q.pop(time.Second)
		if ok {
			done <- f
		}
	}()
	time.Sleep(10 * time.Millisecond)
	q.push(frameN(42))

	select {
	case f := <-done:
		assert.Equal(t, frameN(42), f)
	case <-time.After(time.Second):
		t.Fatal("pop did not wake on push")
	}
}
