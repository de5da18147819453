package sensor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/integraiot/plataforma/domain"
	"github.com/integraiot/plataforma/internal/schema"
)

type stubRepo struct {
	sensores []domain.Sensor
	lecturas []domain.Lectura
	calls    int
}

func (r *stubRepo) ListSensores(ctx context.Context) ([]domain.Sensor, error) {
	return r.sensores, nil
}

func (r *stubRepo) ListLecturas(ctx context.Context) ([]domain.Lectura, error) {
	r.calls++
	return r.lecturas, nil
}

func (r *stubRepo) Ping(ctx context.Context) error { return nil }

func writeSchema(t *testing.T, src string) *schema.Validator {
	t.Helper()
	path := filepath.Join(t.TempDir(), "contract.cue")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return schema.NewValidator(path)
}

func openSchema(t *testing.T) *schema.Validator {
	return writeSchema(t, "{...}")
}

func newUseCase(t *testing.T, repo *stubRepo) *UseCase {
	return New(repo, openSchema(t), openSchema(t), nil)
}

func testData() *stubRepo {
	return &stubRepo{
		sensores: []domain.Sensor{
			{ID: "s1", Tipo: "temperatura", Ubicacion: "norte"},
			{ID: "s2", Tipo: "humedad", Ubicacion: "norte"},
			{IDSensor: "s3", Tipo: "temperatura", Ubicacion: "sur"},
		},
		lecturas: []domain.Lectura{
			{IDLectura: "l1", IDSensor: "s1", Timestamp: "2026-08-20T08:00:00Z", Valor: 1},
			{IDLectura: "l2", IDSensor: "s1", Timestamp: "2026-08-20T09:00:00Z", Valor: 2},
			{IDLectura: "l3", IDSensor: "s2", Timestamp: "2026-08-20T10:00:00Z", Valor: 3},
			{IDLectura: "l4", IDSensor: "s3", Timestamp: "2026-08-20T11:00:00Z", Valor: 4},
			{IDLectura: "l5", IDSensor: "huerfano", Timestamp: "2026-08-20T12:00:00Z", Valor: 5},
		},
	}
}

func TestListSensoresFiltersAreConjunctive(t *testing.T) {
	uc := newUseCase(t, testData())

	result, err := uc.ListSensores(context.Background(), "temperatura", "norte")
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "s1", result[0].ID)
}

func TestListSensoresEmptyResultIsValid(t *testing.T) {
	uc := newUseCase(t, testData())

	result, err := uc.ListSensores(context.Background(), "viento", "")
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestListSensoresFailsClosedOnSchemaViolation(t *testing.T) {
	repo := testData()
	// every sensor must declare a "modelo" field the records lack
	strict := writeSchema(t, "{modelo: string, ...}")
	uc := New(repo, strict, openSchema(t), nil)

	_, err := uc.ListSensores(context.Background(), "", "")
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeIntegrity))
}

func TestListLecturasLimitOutOfRange(t *testing.T) {
	repo := testData()
	uc := newUseCase(t, repo)

	for _, limit := range []int{0, -5, 1001} {
		_, _, err := uc.ListLecturas(context.Background(), LecturasParams{Limit: limit})
		require.Error(t, err, "limit %d", limit)
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
	}
	assert.Zero(t, repo.calls, "invalid limit must be rejected before touching the store")
}

func TestListLecturasFromAfterTo(t *testing.T) {
	repo := testData()
	uc := newUseCase(t, repo)

	_, _, err := uc.ListLecturas(context.Background(), LecturasParams{
		From:  "2026-08-21T00:00:00Z",
		To:    "2026-08-20T00:00:00Z",
		Limit: 100,
	})
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
	assert.Zero(t, repo.calls, "inverted range must be rejected before any row scan")
}

func TestListLecturasMalformedClientDate(t *testing.T) {
	uc := newUseCase(t, testData())

	_, _, err := uc.ListLecturas(context.Background(), LecturasParams{From: "no-es-fecha", Limit: 100})
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestListLecturasLimitTruncates(t *testing.T) {
	repo := testData()
	uc := newUseCase(t, repo)

	result, total, err := uc.ListLecturas(context.Background(), LecturasParams{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, result, 2)
	assert.Equal(t, len(repo.lecturas), total, "total counts the filtered set before truncation")
	// insertion order preserved
	assert.Equal(t, "l1", result[0].IDLectura)
	assert.Equal(t, "l2", result[1].IDLectura)
}

func TestListLecturasLocationJoinExcludesOrphans(t *testing.T) {
	uc := newUseCase(t, testData())

	result, total, err := uc.ListLecturas(context.Background(), LecturasParams{UbicacionID: "norte", Limit: 100})
	require.NoError(t, err)
	require.Equal(t, 3, total)
	for _, l := range result {
		assert.Contains(t, []string{"s1", "s2"}, l.IDSensor)
	}
}

func TestListLecturasLocationJoinResolvesLegacyAlias(t *testing.T) {
	uc := newUseCase(t, testData())

	result, _, err := uc.ListLecturas(context.Background(), LecturasParams{UbicacionID: "sur", Limit: 100})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "l4", result[0].IDLectura)
}

func TestListLecturasRangeIsInclusive(t *testing.T) {
	uc := newUseCase(t, testData())

	result, _, err := uc.ListLecturas(context.Background(), LecturasParams{
		SensorID: "s1",
		From:     "2026-08-20T08:00:00Z",
		To:       "2026-08-20T09:00:00Z",
		Limit:    100,
	})
	require.NoError(t, err)
	assert.Len(t, result, 2)
}

func TestListLecturasStoredTimestampFault(t *testing.T) {
	repo := testData()
	repo.lecturas = append(repo.lecturas, domain.Lectura{IDLectura: "l6", IDSensor: "s1", Timestamp: "ayer"})
	uc := newUseCase(t, repo)

	_, _, err := uc.ListLecturas(context.Background(), LecturasParams{From: "2026-08-01T00:00:00Z", Limit: 100})
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeIntegrity))
	assert.Contains(t, err.Error(), "l6")
}

func TestListLecturasFailsClosedOnSchemaViolation(t *testing.T) {
	repo := testData()
	strict := writeSchema(t, "{valor: >100, ...}")
	uc := New(repo, openSchema(t), strict, nil)

	_, _, err := uc.ListLecturas(context.Background(), LecturasParams{Limit: 100})
	require.Error(t, err)
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeIntegrity))
}
