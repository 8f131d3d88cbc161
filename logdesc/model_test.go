package logdesc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sabouaram/logship/logdesc"
)

const validToken = "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa"

func TestLogDescriptor_Validate_TokenMode(t *testing.T) {
	d := logdesc.LogDescriptor{
		Name:        "app.log",
		PathPattern: "/var/log/app*.log",
		Mode:        logdesc.ModeToken,
		Token:       validToken,
		Destinations: []logdesc.Destination{
			{Endpoint: "ingest.example.com", Port: 10000},
		},
	}
	assert.NoError(t, d.Validate())
}

func TestLogDescriptor_Validate_RejectsShortToken(t *testing.T) {
	d := logdesc.LogDescriptor{
		Name:        "app.log",
		PathPattern: "/var/log/app*.log",
		Mode:        logdesc.ModeToken,
		Token:       "not-a-uuid",
		Destinations: []logdesc.Destination{
			{Endpoint: "ingest.example.com", Port: 10000},
		},
	}
	assert.Error(t, d.Validate())
}

func TestLogDescriptor_Validate_RequiresDestination(t *testing.T) {
	d := logdesc.LogDescriptor{
		Name:        "app.log",
		PathPattern: "/var/log/app*.log",
		Mode:        logdesc.ModeToken,
		Token:       validToken,
	}
	assert.Error(t, d.Validate())
}

func TestLogDescriptor_ID(t *testing.T) {
	tok := logdesc.LogDescriptor{Mode: logdesc.ModeToken, Token: validToken}
	assert.Equal(t, validToken, tok.ID())

	api := logdesc.LogDescriptor{Mode: logdesc.ModeAPI, HostKey: "h", LogKey: "l"}
	assert.Equal(t, "h/l", api.ID())
}

func TestDestination_Key_StableAcrossCalls(t *testing.T) {
	d := logdesc.Destination{
		Endpoint: "ingest.example.com",
		Port:     20000,
		TLS:      true,
		PreambleFunc: func() []byte {
			return []byte("PUT /u/hosts/h/l/?realtime=1 HTTP/1.0\r\n\r\n")
		},
	}
	assert.Equal(t, d.Key(), d.Key())

	other := d
	other.TLS = false
	assert.NotEqual(t, d.Key(), other.Key())
}
