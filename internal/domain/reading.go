package domain

import "time"

// Phase identifies which electrical phase a reading belongs to.
type Phase string

const (
	PhaseL1    Phase = "L1"
	PhaseL2    Phase = "L2"
	PhaseL3    Phase = "L3"
	PhaseTotal Phase = "TOTAL"
)

// ParsePhase maps a vendor phase token onto the closed Phase enum.
// The token is expected to be uppercased with any leading "L" stripped
// (so "L1", "1" and "A" all land on PhaseL1). Returns false when the
// token does not map.
func ParsePhase(token string) (Phase, bool) {
	switch token {
	case "1", "A":
		return PhaseL1, true
	case "2", "B":
		return PhaseL2, true
	case "3", "C":
		return PhaseL3, true
	case "TOTAL", "3-PHASE", "3PH", "ALL":
		return PhaseTotal, true
	}
	return "", false
}

// CanonicalReading is one normalized (instrument, timestamp, phase)
// measurement. TsUTC is carried as an opaque string; the store is
// responsible for parsing it into an absolute instant.
type CanonicalReading struct {
	InstrumentID int64
	TsUTC        string
	Phase        Phase
	Value        float64
	Unit         string
}

// Instrument is a vendor measurement device. Meta keeps the full raw
// vendor record so nothing is lost to normalization.
type Instrument struct {
	ID           int64
	Name         *string
	Commissioned *bool
	Meta         map[string]any
}

// RawMeasurement is one verbatim vendor payload row, kept append-only
// for audit and replay.
type RawMeasurement struct {
	Endpoint     string
	InstrumentID int64
	Payload      any
	IngestedAt   time.Time
}
