package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"

	"github.com/integraiot/plataforma/domain"
)

// serve runs a fasthttp server on an in-memory listener and points the
// client's dialer at it, so no real socket is opened.
func serve(t *testing.T, c *httpClient, handler fasthttp.RequestHandler) {
	t.Helper()
	ln := fasthttputil.NewInmemoryListener()
	srv := &fasthttp.Server{Handler: handler}
	go func() { _ = srv.Serve(ln) }()
	t.Cleanup(func() { _ = ln.Close() })

	c.client.Dial = func(addr string) (net.Conn, error) {
		return ln.Dial()
	}
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v interface{}) {
	body, _ := json.Marshal(v)
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	ctx.SetBody(body)
}

func TestSensorClientListSensores(t *testing.T) {
	c := NewSensorClient(Config{BaseURL: "http://iot.local", Timeout: time.Second}, nil, nil)
	serve(t, c.http, func(ctx *fasthttp.RequestCtx) {
		require.Equal(t, "/sensores", string(ctx.Path()))
		writeJSON(ctx, fasthttp.StatusOK, map[string]interface{}{
			"sensores": []domain.Sensor{{ID: "s1", Tipo: "temperatura", Ubicacion: "norte"}},
		})
	})

	sensores, err := c.ListSensores(context.Background())
	require.NoError(t, err)
	require.Len(t, sensores, 1)
	assert.Equal(t, "s1", sensores[0].ID)
}

func TestSensorClientListLecturasForwardsFilters(t *testing.T) {
	c := NewSensorClient(Config{BaseURL: "http://iot.local", Timeout: time.Second}, nil, nil)
	serve(t, c.http, func(ctx *fasthttp.RequestCtx) {
		assert.Equal(t, "s1", string(ctx.QueryArgs().Peek("sensorId")))
		assert.Equal(t, "1000", string(ctx.QueryArgs().Peek("limit")))
		writeJSON(ctx, fasthttp.StatusOK, map[string]interface{}{
			"lecturas": []domain.Lectura{{IDLectura: "l1", IDSensor: "s1", Timestamp: "2026-08-20T08:00:00Z", Valor: 1}},
		})
	})

	lecturas, err := c.ListLecturas(context.Background(), "s1", 1000)
	require.NoError(t, err)
	require.Len(t, lecturas, 1)
	assert.Equal(t, "l1", lecturas[0].IDLectura)
}

func TestRegistryClientDrainsAllPages(t *testing.T) {
	total := 150
	clientes := make([]domain.Cliente, total)
	for i := range clientes {
		clientes[i] = domain.Cliente{
			ID:                strconv.Itoa(i + 1),
			Nombre:            fmt.Sprintf("Cliente %d", i+1),
			CorreoElectronico: fmt.Sprintf("c%d@example.com", i+1),
			Tipo:              "cliente",
			Direccion:         "norte",
		}
	}

	var requests int
	c := NewRegistryClient(Config{BaseURL: "http://crm.local", Timeout: time.Second}, nil, nil)
	serve(t, c.http, func(ctx *fasthttp.RequestCtx) {
		requests++
		assert.Equal(t, "maría", string(ctx.QueryArgs().Peek("q")))
		page, _ := strconv.Atoi(string(ctx.QueryArgs().Peek("page")))
		size, _ := strconv.Atoi(string(ctx.QueryArgs().Peek("pageSize")))
		require.Equal(t, registryPageSize, size)

		start := (page - 1) * size
		if start > total {
			start = total
		}
		end := start + size
		if end > total {
			end = total
		}
		writeJSON(ctx, fasthttp.StatusOK, clientesPage{
			Total: total, Page: page, PageSize: size, Data: clientes[start:end],
		})
	})

	all, err := c.ListClientes(context.Background(), "maría")
	require.NoError(t, err)
	assert.Len(t, all, total)
	assert.Equal(t, 2, requests)
	assert.Equal(t, "1", all[0].ID)
	assert.Equal(t, "150", all[total-1].ID)
}

func TestStatusMapping(t *testing.T) {
	cases := []struct {
		status int
		code   domain.ErrorCode
	}{
		{fasthttp.StatusNotFound, domain.ErrCodeNotFound},
		{fasthttp.StatusGatewayTimeout, domain.ErrCodeTimeout},
		{fasthttp.StatusInternalServerError, domain.ErrCodeUnavailable},
		{fasthttp.StatusBadGateway, domain.ErrCodeUnavailable},
		{fasthttp.StatusBadRequest, domain.ErrCodeInvalid},
	}
	for _, tc := range cases {
		t.Run(strconv.Itoa(tc.status), func(t *testing.T) {
			c := NewSensorClient(Config{BaseURL: "http://iot.local", Timeout: time.Second}, nil, nil)
			serve(t, c.http, func(ctx *fasthttp.RequestCtx) {
				writeJSON(ctx, tc.status, map[string]string{"detail": "detalle upstream"})
			})

			_, err := c.ListSensores(context.Background())
			require.Error(t, err)
			assert.True(t, domain.IsDomainError(err, tc.code))
			assert.Contains(t, err.Error(), "detalle upstream")
		})
	}
}

func TestStatusErrorWithoutDetailBody(t *testing.T) {
	c := NewSensorClient(Config{BaseURL: "http://iot.local", Timeout: time.Second}, nil, nil)
	serve(t, c.http, func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusServiceUnavailable)
		ctx.SetBodyString("no json")
	})

	_, err := c.ListSensores(context.Background())
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnavailable))
	assert.Contains(t, err.Error(), "estado 503")
}

func TestMalformedBodyIsUnavailable(t *testing.T) {
	c := NewSensorClient(Config{BaseURL: "http://iot.local", Timeout: time.Second}, nil, nil)
	serve(t, c.http, func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusOK)
		ctx.SetBodyString(`{"sensores":`)
	})

	_, err := c.ListSensores(context.Background())
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeUnavailable))
}

func TestSlowUpstreamIsTimeout(t *testing.T) {
	c := NewSensorClient(Config{BaseURL: "http://iot.local", Timeout: 50 * time.Millisecond}, nil, nil)
	serve(t, c.http, func(ctx *fasthttp.RequestCtx) {
		time.Sleep(300 * time.Millisecond)
		writeJSON(ctx, fasthttp.StatusOK, map[string]interface{}{"sensores": []domain.Sensor{}})
	})

	_, err := c.ListSensores(context.Background())
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeTimeout))
}

func TestCancelledContextShortCircuits(t *testing.T) {
	c := NewSensorClient(Config{BaseURL: "http://iot.local", Timeout: time.Second}, nil, nil)
	var dialed bool
	c.http.client.Dial = func(addr string) (net.Conn, error) {
		dialed = true
		return nil, net.ErrClosed
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.ListSensores(ctx)
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeTimeout))
	assert.False(t, dialed, "a cancelled context must not dial")
}
