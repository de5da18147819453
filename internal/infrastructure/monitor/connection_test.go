package monitor

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
)

func TestRefreshProbesBothUpstreams(t *testing.T) {
	ln := fasthttputil.NewInmemoryListener()
	srv := &fasthttp.Server{Handler: func(ctx *fasthttp.RequestCtx) {
		require.Equal(t, "/health", string(ctx.Path()))
		if string(ctx.Host()) == "iot.local" {
			ctx.SetStatusCode(fasthttp.StatusInternalServerError)
			return
		}
		ctx.SetStatusCode(fasthttp.StatusOK)
	}}
	go func() { _ = srv.Serve(ln) }()
	t.Cleanup(func() { _ = ln.Close() })

	m := New("http://crm.local", "http://iot.local", time.Minute, nil)
	m.client.Dial = func(addr string) (net.Conn, error) {
		return ln.Dial()
	}

	m.refresh()

	status := m.GetStatus()
	assert.True(t, status.CRM)
	assert.False(t, status.IoT)
	assert.False(t, status.LastCheck.IsZero())
	assert.False(t, m.IsOnline())
}

func TestProbeWithoutURLIsOffline(t *testing.T) {
	m := New("", "", time.Minute, nil)
	m.refresh()

	status := m.GetStatus()
	assert.False(t, status.CRM)
	assert.False(t, status.IoT)
}
