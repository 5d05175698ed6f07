package normalize

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/gridpulse/substation-pipeline/internal/domain"
)

// PhaseValue is one classified (phase, value) pair extracted from a point.
type PhaseValue struct {
	Phase domain.Phase
	Value float64
}

// Outcome reports why a classification produced the pairs it did. The
// distinction between Unmapped and NoSignal matters for diagnostics: an
// unmapped point carried a phase-like field the alias tables don't know
// yet, which usually means a new tenant shape.
type Outcome int

const (
	// Matched: at least one (phase, value) pair was extracted.
	Matched Outcome = iota
	// Unmapped: a subject or phase field was present but could not be
	// mapped onto the phase enum (or had no usable numeric value).
	Unmapped
	// NoSignal: the point carries nothing phase- or value-shaped.
	NoSignal
)

// subjectKeys is the alias set (lowercased) for channel/subject names.
var subjectKeys = []string{
	"subjectassetname", "subjectname", "subject", "channelname", "channel",
}

// phaseFieldKeys is the alias set (lowercased) for explicit phase fields.
var phaseFieldKeys = []string{"phase"}

// numericValueKeys is the priority order for generic numeric fields.
var numericValueKeys = []string{
	"numericdata", "numericvalue", "value", "mean", "avg", "average",
	"meanvalue", "datavalue",
}

// subjectAliases maps normalized subject tokens onto phases.
var subjectAliases = map[string]domain.Phase{
	"A":       domain.PhaseL1,
	"PHASEA":  domain.PhaseL1,
	"PHASE A": domain.PhaseL1,
	"L1":      domain.PhaseL1,
	"B":       domain.PhaseL2,
	"PHASEB":  domain.PhaseL2,
	"PHASE B": domain.PhaseL2,
	"L2":      domain.PhaseL2,
	"C":       domain.PhaseL3,
	"PHASEC":  domain.PhaseL3,
	"PHASE C": domain.PhaseL3,
	"L3":      domain.PhaseL3,
	"TOTAL":   domain.PhaseTotal,
	"3-PHASE": domain.PhaseTotal,
	"3PH":     domain.PhaseTotal,
	"ALL":     domain.PhaseTotal,
}

// keyMatchers drive the key-scan strategy. Patterns tolerate glued tokens
// ("voltageL1") as well as delimited ones ("voltage_a", "va").
var keyMatchers = []struct {
	phase    domain.Phase
	patterns []*regexp.Regexp
}{
	{domain.PhaseL1, compileAll(
		`(?:^|[^0-9a-z])a(?:$|[^0-9a-z])`,
		`l1(?:$|[^0-9])`,
		`phase[\s_]*a(?:$|[^a-z])`,
		`(?:voltage|current)_?a$`,
		`^va$`, `^ia$`,
	)},
	{domain.PhaseL2, compileAll(
		`(?:^|[^0-9a-z])b(?:$|[^0-9a-z])`,
		`l2(?:$|[^0-9])`,
		`phase[\s_]*b(?:$|[^a-z])`,
		`(?:voltage|current)_?b$`,
		`^vb$`, `^ib$`,
	)},
	{domain.PhaseL3, compileAll(
		`(?:^|[^0-9a-z])c(?:$|[^0-9a-z])`,
		`l3(?:$|[^0-9])`,
		`phase[\s_]*c(?:$|[^a-z])`,
		`(?:voltage|current)_?c$`,
		`^vc$`, `^ic$`,
	)},
}

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, regexp.MustCompile("(?i)"+p))
	}
	return out
}

// Classify applies the extraction strategy chain to a point's fields and
// returns the (phase, value) pairs it finds, first strategy to produce a
// pair wins. An empty result is qualified by the Outcome.
func Classify(fields map[string]any) ([]PhaseValue, Outcome) {
	sawUnmapped := false

	// Strategy 1: subject/channel name.
	if subject, ok := lookupString(fields, subjectKeys); ok {
		token := strings.ToUpper(strings.TrimSpace(subject))
		if phase, ok := subjectAliases[token]; ok {
			if v, ok := numericField(fields, numericValueKeys); ok {
				return []PhaseValue{{Phase: phase, Value: v}}, Matched
			}
		}
		sawUnmapped = true
	}

	// Strategy 2: explicit phase field.
	if raw, ok := lookupField(fields, phaseFieldKeys); ok {
		token := strings.ToUpper(strings.TrimSpace(asString(raw)))
		token = strings.TrimPrefix(token, "L")
		if phase, ok := domain.ParsePhase(token); ok {
			if v, ok := numericField(fields, numericValueKeys); ok {
				return []PhaseValue{{Phase: phase, Value: v}}, Matched
			}
		}
		sawUnmapped = true
	}

	// Strategy 3: scan the point's own numeric keys for phase tokens.
	if pairs := scanKeys(fields); len(pairs) > 0 {
		return pairs, Matched
	}

	// Strategy 4: a bare numeric value with no phase signal is a
	// three-phase total.
	if v, ok := numericField(fields, numericValueKeys); ok {
		return []PhaseValue{{Phase: domain.PhaseTotal, Value: v}}, Matched
	}

	if sawUnmapped {
		return nil, Unmapped
	}
	return nil, NoSignal
}

// scanKeys yields at most one pair per phase-matching numeric key, so a
// flat point like {voltageL1, voltageL2, voltageL3} produces all three
// phases while an ambiguous key lands on the first phase whose matcher
// accepts it.
func scanKeys(fields map[string]any) []PhaseValue {
	var out []PhaseValue
	for key, raw := range fields {
		lower := strings.ToLower(key)
		if isTimestampKey(lower) || isIDKey(lower) {
			continue
		}
		v, ok := coerceFloat(raw)
		if !ok {
			continue
		}
		for _, m := range keyMatchers {
			if matchesAny(m.patterns, key) {
				out = append(out, PhaseValue{Phase: m.phase, Value: v})
				break
			}
		}
	}
	return out
}

func matchesAny(patterns []*regexp.Regexp, key string) bool {
	for _, re := range patterns {
		if re.MatchString(key) {
			return true
		}
	}
	return false
}

func isIDKey(lower string) bool {
	for _, alias := range instrumentIDKeys {
		if lower == alias {
			return true
		}
	}
	return false
}

// numericField returns the first alias with a finite numeric value,
// honouring alias order as priority.
func numericField(fields map[string]any, aliases []string) (float64, bool) {
	for _, alias := range aliases {
		for k, raw := range fields {
			if strings.ToLower(k) != alias {
				continue
			}
			if v, ok := coerceFloat(raw); ok {
				return v, true
			}
		}
	}
	return 0, false
}

// coerceFloat accepts the numeric shapes vendors actually send: JSON
// numbers, json.Number, and numeric strings. NaN and infinities are
// rejected so stored values stay finite.
func coerceFloat(raw any) (float64, bool) {
	var v float64
	switch n := raw.(type) {
	case float64:
		v = n
	case int:
		v = float64(n)
	case int64:
		v = float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		v = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		v = f
	default:
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
