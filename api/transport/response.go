package transport

import "github.com/integraiot/plataforma/domain"

// ErrorResponse is the error payload shared by every service.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// ClientesPage is the registry listing response; Total counts the filtered
// set, not the page.
type ClientesPage struct {
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"pageSize"`
	Data     []domain.Cliente `json:"data"`
}

// SensoresParams echoes the filters applied to a sensor listing; absent
// filters serialize as null.
type SensoresParams struct {
	Tipo        *string `json:"tipo"`
	UbicacionID *string `json:"ubicacionId"`
}

// SensoresResponse is the sensor listing envelope.
type SensoresResponse struct {
	Status   string          `json:"status"`
	Message  string          `json:"message"`
	Params   SensoresParams  `json:"params"`
	Total    int             `json:"total"`
	Sensores []domain.Sensor `json:"sensores"`
}

// LecturasParams echoes the filters applied to a readings listing.
type LecturasParams struct {
	SensorID    *string `json:"sensorId"`
	UbicacionID *string `json:"ubicacionId"`
	From        *string `json:"from"`
	To          *string `json:"to"`
	Limit       int     `json:"limit"`
}

// LecturasResponse is the readings listing envelope; Total counts the
// filtered set before truncation to limit.
type LecturasResponse struct {
	Status   string           `json:"status"`
	Message  string           `json:"message"`
	Params   LecturasParams   `json:"params"`
	Total    int              `json:"total"`
	Lecturas []domain.Lectura `json:"lecturas"`
}
