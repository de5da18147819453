package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/integraiot/plataforma/api/transport"
	"github.com/integraiot/plataforma/domain"
	"github.com/integraiot/plataforma/pkg/httpcontext"
	sensorUC "github.com/integraiot/plataforma/usecase/sensor"
)

type SensorHandler struct {
	baseHandler
	uc *sensorUC.UseCase
}

func NewSensorHandler(uc *sensorUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *SensorHandler {
	return &SensorHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// GetSensores lists sensors filtered by type and location.
func (h *SensorHandler) GetSensores(ctx *fasthttp.RequestCtx) {
	tipo := optionalQuery(ctx, "tipo")
	ubicacionID := optionalQuery(ctx, "ubicacionId")

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	sensores, err := h.uc.ListSensores(stdCtx, deref(tipo), deref(ubicacionID))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	if sensores == nil {
		sensores = []domain.Sensor{}
	}

	h.respondJSON(ctx, http.StatusOK, transport.SensoresResponse{
		Status:   "success",
		Message:  "Sensores recuperados correctamente",
		Params:   transport.SensoresParams{Tipo: tipo, UbicacionID: ubicacionID},
		Total:    len(sensores),
		Sensores: sensores,
	})
}

// GetLecturas lists readings filtered by sensor, location, time range and
// capped by limit.
func (h *SensorHandler) GetLecturas(ctx *fasthttp.RequestCtx) {
	limit, err := queryInt(ctx, "limit", 100)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	sensorID := optionalQuery(ctx, "sensorId")
	ubicacionID := optionalQuery(ctx, "ubicacionId")
	from := optionalQuery(ctx, "from")
	to := optionalQuery(ctx, "to")

	params := sensorUC.LecturasParams{
		SensorID:    deref(sensorID),
		UbicacionID: deref(ubicacionID),
		From:        deref(from),
		To:          deref(to),
		Limit:       limit,
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	lecturas, total, err := h.uc.ListLecturas(stdCtx, params)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	if lecturas == nil {
		lecturas = []domain.Lectura{}
	}

	h.respondJSON(ctx, http.StatusOK, transport.LecturasResponse{
		Status:  "success",
		Message: "Lecturas recuperadas correctamente",
		Params: transport.LecturasParams{
			SensorID:    sensorID,
			UbicacionID: ubicacionID,
			From:        from,
			To:          to,
			Limit:       limit,
		},
		Total:    total,
		Lecturas: lecturas,
	})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
