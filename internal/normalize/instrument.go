package normalize

import (
	"fmt"
	"strings"

	"github.com/gridpulse/substation-pipeline/internal/domain"
)

// instrumentNameKeys is the alias priority for display names on vendor
// instrument records.
var instrumentNameKeys = []string{
	"name", "instrumentname", "assetname", "displayname", "transformerassettag",
}

// InstrumentIDOf extracts an integer-coercible instrument id from a
// record's id aliases.
func InstrumentIDOf(rec map[string]any) (int64, bool) {
	raw, ok := lookupField(rec, instrumentIDKeys)
	if !ok {
		return 0, false
	}
	return coerceInt64(raw)
}

// InstrumentFromRecord maps a raw vendor instrument record onto the
// canonical Instrument. Returns false when no integer-coercible id can be
// found; the full record is kept as meta either way.
func InstrumentFromRecord(rec map[string]any) (domain.Instrument, bool) {
	id, ok := InstrumentIDOf(rec)
	if !ok {
		return domain.Instrument{}, false
	}

	inst := domain.Instrument{ID: id, Meta: rec}

	if name, ok := lookupString(rec, instrumentNameKeys); ok {
		name = strings.TrimSpace(name)
		if name != "" {
			inst.Name = &name
		}
	}
	if inst.Name == nil {
		synthesized := fmt.Sprintf("instrument-%d", id)
		inst.Name = &synthesized
	}

	if c, ok := lookupField(rec, []string{"commissioned", "iscommissioned"}); ok {
		if b, ok := c.(bool); ok {
			inst.Commissioned = &b
		}
	}

	return inst, true
}
