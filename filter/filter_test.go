package filter_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sabouaram/logship/filter"
	"github.com/sabouaram/logship/internal/xlog"
	"github.com/sabouaram/logship/logdesc"
)

func TestRegistry_ResolutionOrder(t *testing.T) {
	r := filter.NewRegistry()
	tag := func(s string) filter.Func {
		return func(logdesc.Line) (logdesc.Line, bool) { return logdesc.Line(s), true }
	}
	r.RegisterByToken("tok", tag("by-token"))
	r.RegisterByID("id", tag("by-id"))
	r.RegisterByName("name", tag("by-name"))

	// name wins over id and token when all three match.
	fn := r.Resolve("name", "id", "tok")
	out, ok := fn(logdesc.Line("x"))
	assert.True(t, ok)
	assert.Equal(t, logdesc.Line("by-name"), out)
}

func TestRegistry_FallsBackToIdentity(t *testing.T) {
	r := filter.NewRegistry()
	fn := r.Resolve("nope", "nope", "nope")
	out, ok := fn(logdesc.Line("x"))
	assert.True(t, ok)
	assert.Equal(t, logdesc.Line("x"), out)
}

func TestSafeApply_DropsOnPanic(t *testing.T) {
	panicky := func(logdesc.Line) (logdesc.Line, bool) { panic("boom") }
	lim := xlog.NewLimiter(time.Minute)
	_, ok := filter.SafeApply(panicky, logdesc.Line("x"), lim, "test")
	assert.False(t, ok)
}

func TestSafeApply_PassesThroughNormalResult(t *testing.T) {
	drop := func(logdesc.Line) (logdesc.Line, bool) { return nil, false }
	lim := xlog.NewLimiter(time.Minute)
	_, ok := filter.SafeApply(drop, logdesc.Line("x"), lim, "test")
	assert.False(t, ok)
}

func TestAcceptAll(t *testing.T) {
	assert.True(t, filter.AcceptAll("/var/log/anything.log"))
}
