package domain

import "strings"

// Entity type tags recognized by typed registry views. Records carrying any
// other value are excluded from those views, never surfaced as errors.
const (
	TipoCliente   = "cliente"
	TipoProveedor = "proveedor"
)

// Cliente is a registry record. Despite the name the registry holds both
// customers and providers; Tipo tags each record. TransaccionesDetalladas is
// the back-reference list of sensor ids associated with a provider.
type Cliente struct {
	ID                      string   `json:"id"`
	Nombre                  string   `json:"nombre"`
	CorreoElectronico       string   `json:"correo_electronico"`
	Tipo                    string   `json:"tipo"`
	Direccion               string   `json:"direccion"`
	TransaccionesDetalladas []string `json:"transacciones_detalladas,omitempty"`
}

// EsTipo reports whether the record carries the given type tag,
// case-insensitively.
func (c Cliente) EsTipo(tipo string) bool {
	return strings.EqualFold(c.Tipo, tipo)
}

// MatchesNombre reports a case-insensitive exact match on the record name.
func (c Cliente) MatchesNombre(nombre string) bool {
	return strings.EqualFold(c.Nombre, nombre)
}
