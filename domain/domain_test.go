package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseISOTime(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2026-08-20T08:00:00Z", time.Date(2026, 8, 20, 8, 0, 0, 0, time.UTC)},
		{"2026-08-20T08:00:00.123Z", time.Date(2026, 8, 20, 8, 0, 0, 123000000, time.UTC)},
		{"2026-08-20T08:00:00+02:00", time.Date(2026, 8, 20, 8, 0, 0, 0, time.FixedZone("", 2*3600))},
		{"2026-08-20T08:00:00", time.Date(2026, 8, 20, 8, 0, 0, 0, time.UTC)},
		{"2026-08-20", time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		ts, err := ParseISOTime(tc.in)
		require.NoError(t, err, tc.in)
		assert.True(t, ts.Equal(tc.want), "%s parsed to %v", tc.in, ts)
	}

	for _, in := range []string{"", "ayer", "20/08/2026", "2026-13-40"} {
		_, err := ParseISOTime(in)
		assert.Error(t, err, in)
	}
}

func TestSensorKeyPrefersCanonicalID(t *testing.T) {
	assert.Equal(t, "s1", Sensor{ID: "s1"}.Key())
	assert.Equal(t, "s4", Sensor{IDSensor: "s4"}.Key())
	assert.Equal(t, "s1", Sensor{ID: "s1", IDSensor: "s4"}.Key())
	assert.Empty(t, Sensor{}.Key())
}

func TestClienteMatching(t *testing.T) {
	c := Cliente{Nombre: "Acme Agro", Tipo: "Proveedor"}
	assert.True(t, c.EsTipo(TipoProveedor))
	assert.False(t, c.EsTipo(TipoCliente))
	assert.True(t, c.MatchesNombre("ACME AGRO"))
	assert.False(t, c.MatchesNombre("Acme"))
}

func TestDomainErrorWrapping(t *testing.T) {
	cause := errors.New("disco lleno")
	err := WrapError(ErrCodeInternal, "error leyendo datos de clientes", cause)

	assert.True(t, IsDomainError(err, ErrCodeInternal))
	assert.False(t, IsDomainError(err, ErrCodeInvalid))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "error leyendo datos de clientes: disco lleno", err.Error())

	assert.False(t, IsDomainError(errors.New("plain"), ErrCodeInternal))
}
