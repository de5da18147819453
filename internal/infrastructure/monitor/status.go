package monitor

import "time"

// Status is a snapshot of upstream reachability.
type Status struct {
	CRM       bool
	IoT       bool
	LastCheck time.Time
}
