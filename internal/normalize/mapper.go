package normalize

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/gridpulse/substation-pipeline/internal/domain"
)

// MapResult carries the canonical rows produced from one payload together
// with the accounting the caller reports: Mapped + Skipped == Total.
type MapResult struct {
	Rows    []domain.CanonicalReading
	Total   int
	Mapped  int
	Skipped int
}

// Mapper turns walker points into canonical per-phase rows for a single
// endpoint. Points that cannot be resolved are skipped and counted, never
// rejected wholesale: vendor shapes are too unstable for all-or-nothing
// validation.
type Mapper struct {
	endpoint domain.Endpoint
	log      *zap.Logger
}

// NewMapper creates a mapper for the given endpoint.
func NewMapper(endpoint domain.Endpoint, log *zap.Logger) *Mapper {
	return &Mapper{
		endpoint: endpoint,
		log:      log,
	}
}

// MapPayload walks a decoded vendor payload and maps every discovered
// point. One row is emitted per (point, phase) pair.
func (m *Mapper) MapPayload(root any) MapResult {
	var result MapResult

	Walk(root, func(p Point) {
		result.Total++

		id, ok := resolveInstrumentID(p)
		if !ok {
			result.Skipped++
			m.log.Warn("Skipping point without usable instrument id",
				zap.String("endpoint", string(m.endpoint)),
				zap.Strings("keys", fieldKeys(p.Fields)))
			return
		}

		ts, ok := resolveTimestamp(p.Fields)
		if !ok {
			result.Skipped++
			m.log.Warn("Skipping point without timestamp",
				zap.String("endpoint", string(m.endpoint)),
				zap.Int64("instrument_id", id))
			return
		}

		pairs, outcome := Classify(p.Fields)
		if len(pairs) == 0 {
			result.Skipped++
			if outcome == Unmapped {
				m.log.Warn("Skipping point with unmapped phase signal",
					zap.String("endpoint", string(m.endpoint)),
					zap.Int64("instrument_id", id),
					zap.Strings("keys", fieldKeys(p.Fields)))
			}
			return
		}

		unit := resolveUnit(p, m.endpoint)
		for _, pv := range pairs {
			result.Rows = append(result.Rows, domain.CanonicalReading{
				InstrumentID: id,
				TsUTC:        ts,
				Phase:        pv.Phase,
				Value:        pv.Value,
				Unit:         unit,
			})
		}
		result.Mapped++
	})

	if result.Skipped > 0 {
		m.log.Info("Mapped payload with skips",
			zap.String("endpoint", string(m.endpoint)),
			zap.Int("mapped", result.Mapped),
			zap.Int("skipped", result.Skipped))
	}

	return result
}

// resolveInstrumentID prefers the point's own id aliases and falls back to
// the id the walker inherited from an ancestor. Ids must coerce to an
// integer.
func resolveInstrumentID(p Point) (int64, bool) {
	if raw, ok := lookupField(p.Fields, instrumentIDKeys); ok {
		return coerceInt64(raw)
	}
	if p.InstrumentID != nil {
		return coerceInt64(p.InstrumentID)
	}
	return 0, false
}

// resolveTimestamp returns the first populated timestamp alias as an
// opaque string; parsing into an instant is the store's concern. The
// alias priority is the same list the walker uses for point detection.
func resolveTimestamp(fields map[string]any) (string, bool) {
	raw, ok := lookupField(fields, timestampKeys)
	if !ok {
		return "", false
	}
	return asString(raw), true
}

func resolveUnit(p Point, endpoint domain.Endpoint) string {
	if u, ok := lookupString(p.Fields, unitKeys); ok {
		return u
	}
	if p.Unit != "" {
		return p.Unit
	}
	return endpoint.DefaultUnit()
}

func coerceInt64(raw any) (int64, bool) {
	switch n := raw.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return i, true
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0, false
		}
		return i, true
	}
	return 0, false
}

func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func fieldKeys(fields map[string]any) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	return keys
}
