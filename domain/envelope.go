package domain

// EnvelopeType selects one of the closed set of composed payload shapes.
type EnvelopeType string

const (
	TypeResumen                     EnvelopeType = "resumen"
	TypeResumenSensor               EnvelopeType = "resumen_sensor"
	TypeClientes                    EnvelopeType = "clientes"
	TypeProveedores                 EnvelopeType = "proveedores"
	TypeClienteDetalle              EnvelopeType = "cliente_detalle"
	TypeProveedorDetalleConSensores EnvelopeType = "proveedor_detalle_con_sensores"
)

// Envelope is the tagged wrapper every aggregated response travels in. The
// Type tag selects the shape of Data; the unified schema gate checks the pair
// before anything leaves the service.
type Envelope struct {
	Type EnvelopeType `json:"type"`
	Data interface{}  `json:"data"`
}

// SensorConLecturas pairs a sensor with its readings inside a summary.
type SensorConLecturas struct {
	Sensor   Sensor    `json:"sensor"`
	Lecturas []Lectura `json:"lecturas"`
}

// ClienteResumen is the narrowed projection used by the entity listings.
type ClienteResumen struct {
	Nombre            string `json:"nombre"`
	CorreoElectronico string `json:"correo_electronico"`
}

// ProveedorConSensores is a provider record enriched with the sensors whose
// ids appear in its transacciones_detalladas membership list.
type ProveedorConSensores struct {
	Cliente
	SensoresAsociados []Sensor `json:"sensores_asociados"`
}

// Constructors normalize nil slices to empty ones: the unified schema requires
// arrays, and a degraded upstream must still yield a conforming body.

func NewResumen(items []SensorConLecturas) Envelope {
	if items == nil {
		items = []SensorConLecturas{}
	}
	for i := range items {
		if items[i].Lecturas == nil {
			items[i].Lecturas = []Lectura{}
		}
	}
	return Envelope{Type: TypeResumen, Data: items}
}

func NewResumenSensor(sensor Sensor, lecturas []Lectura) Envelope {
	if lecturas == nil {
		lecturas = []Lectura{}
	}
	return Envelope{Type: TypeResumenSensor, Data: SensorConLecturas{Sensor: sensor, Lecturas: lecturas}}
}

func NewClientes(items []ClienteResumen) Envelope {
	if items == nil {
		items = []ClienteResumen{}
	}
	return Envelope{Type: TypeClientes, Data: items}
}

func NewProveedores(items []ClienteResumen) Envelope {
	if items == nil {
		items = []ClienteResumen{}
	}
	return Envelope{Type: TypeProveedores, Data: items}
}

func NewClienteDetalle(c Cliente) Envelope {
	return Envelope{Type: TypeClienteDetalle, Data: c}
}

func NewProveedorDetalle(c Cliente, sensores []Sensor) Envelope {
	if sensores == nil {
		sensores = []Sensor{}
	}
	return Envelope{Type: TypeProveedorDetalleConSensores, Data: ProveedorConSensores{Cliente: c, SensoresAsociados: sensores}}
}
