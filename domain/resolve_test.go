package domain_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/require"

	"github.com/sabouaram/logship/domain"
)

// startFakeDNS runs an in-process DNS-over-UDP server answering every A
// query for "multi.test." with three addresses, to exercise Resolver.Resolve
// against a real wire round trip without reaching the network.
func startFakeDNS(t *testing.T) string {
	t.Helper()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	require.NoError(t, err)

	mux := dns.NewServeMux()
	mux.HandleFunc("multi.test.", func(w dns.ResponseWriter, r *dns.Msg) {
		m := new(dns.Msg)
		m.SetReply(r)
		if r.Question[0].Qtype == dns.TypeA {
			for _, ip := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"} {
				rr, _ := dns.NewRR("multi.test. 60 IN A " + ip)
				m.Answer = append(m.Answer, rr)
			}
		}
		_ = w.WriteMsg(m)
	})

	srv := &dns.Server{PacketConn: pc, Handler: mux}
	go func() { _ = srv.ActivateAndServe() }()
	t.Cleanup(func() { _ = srv.Shutdown() })

	return pc.LocalAddr().String()
}

func TestResolver_LiteralIP(t *testing.T) {
	r := domain.NewResolver()
	ips, err := r.Resolve(context.Background(), "203.0.113.5")
	require.NoError(t, err)
	require.Len(t, ips, 1)
	require.Equal(t, "203.0.113.5", ips[0].String())
}

func TestPickRandom_Deterministic_SingleAddr(t *testing.T) {
	ip := net.ParseIP("10.0.0.1")
	require.Equal(t, ip, domain.PickRandom([]net.IP{ip}))
}

func TestPickRandom_EmptyReturnsNil(t *testing.T) {
	require.Nil(t, domain.PickRandom(nil))
}

func TestPickRandom_ChoosesAmongAll(t *testing.T) {
	addrs := []net.IP{
		net.ParseIP("10.0.0.1"),
		net.ParseIP("10.0.0.2"),
		net.ParseIP("10.0.0.3"),
	}
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		seen[domain.PickRandom(addrs).String()] = true
	}
	require.Len(t, seen, 3, "expected all three addresses to be chosen over 200 draws")
}

func TestResolver_AgainstFakeServer(t *testing.T) {
	addr := startFakeDNS(t)
	r := domain.NewResolverWithServers([]string{addr})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	ips, err := r.Resolve(ctx, "multi.test")
	require.NoError(t, err)
	require.Len(t, ips, 3)
}
