package frame_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sabouaram/logship/frame"
)

func TestRegistry_ResolvesByNameThenIDThenTokenThenDefault(t *testing.T) {
	r := frame.NewRegistry(frame.Plain{})
	r.RegisterByName("app", frame.Syslog{})
	r.RegisterByID("id-1", frame.Syslog{})
	r.RegisterByToken("tok-1", frame.Syslog{})

	assert.Equal(t, frame.Syslog{}, r.Resolve("app", "", ""))
	assert.Equal(t, frame.Syslog{}, r.Resolve("", "id-1", ""))
	assert.Equal(t, frame.Syslog{}, r.Resolve("", "", "tok-1"))
	assert.Equal(t, frame.Plain{}, r.Resolve("unknown", "unknown", "unknown"))
}

func TestRegistry_NilDefaultFallsBackToPlain(t *testing.T) {
	r := frame.NewRegistry(nil)
	assert.Equal(t, frame.Plain{}, r.Resolve("x", "y", "z"))
}
