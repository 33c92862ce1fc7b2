package domain

import (
	"time"
)

// Period is a half-open [Start, End) interval measured in whole days.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Days  int       `json:"days"`
}

// Observation is a reported reading for one period. Either KWh or Money may
// be absent depending on the value mode the user picked, but at least one
// must be present for the observation to be usable.
type Observation struct {
	Period Period
	KWh    *float64
	Money  *float64
}

// HasValue reports whether at least one of the two quantities was reported.
func (o *Observation) HasValue() bool {
	if o == nil {
		return false
	}
	return o.KWh != nil || o.Money != nil
}

// BillKind tags which slot of a journey a bill record belongs to.
type BillKind string

const (
	BillCurrent BillKind = "current"
	BillPrev    BillKind = "prev"
	BillSecond  BillKind = "second"
)

// BillRecord is an immutable persisted snapshot of an observation.
// Records are append-only; the latest record per (user, kind) wins.
type BillRecord struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Kind      BillKind  `json:"kind"`
	Period    Period    `json:"period"`
	KWh       *float64  `json:"kwh,omitempty"`
	Money     *float64  `json:"money,omitempty"`
	Tariff    *float64  `json:"tariff,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
