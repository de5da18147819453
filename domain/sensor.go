package domain

import (
	"time"
)

// Sensor describes an IoT device tied to a location. Older data sets carry the
// id under "id_sensor" instead of "id"; Key resolves the alias.
type Sensor struct {
	ID        string `json:"id,omitempty"`
	IDSensor  string `json:"id_sensor,omitempty"`
	Tipo      string `json:"tipo"`
	Ubicacion string `json:"ubicacion"`
}

// Key returns the sensor identifier, preferring the canonical field.
func (s Sensor) Key() string {
	if s.ID != "" {
		return s.ID
	}
	return s.IDSensor
}

// Lectura is a single timestamped measurement belonging to one sensor.
// Timestamp stays a string at rest; ParseISOTime interprets it on demand so a
// malformed stored value surfaces exactly where the contract requires.
type Lectura struct {
	IDLectura string  `json:"id_lectura,omitempty"`
	IDSensor  string  `json:"id_sensor"`
	Timestamp string  `json:"timestamp"`
	Valor     float64 `json:"valor"`
	Unidad    string  `json:"unidad,omitempty"`
}

var isoLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseISOTime parses an ISO-8601 instant, accepting the Z UTC marker, numeric
// offsets and zone-less values.
func ParseISOTime(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range isoLayouts {
		ts, err := time.Parse(layout, value)
		if err == nil {
			return ts, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
