package normalize

import (
	"strings"
)

// maxDepth bounds the recursive descent. Decoded JSON values are acyclic,
// so this is purely a defensive limit against pathological nesting.
const maxDepth = 8

// timestampKeys is the alias list (lowercased) that marks an object as a
// point; the order doubles as extraction priority when a point carries
// several. Vendor payloads disagree on spelling across tenants and
// revisions.
var timestampKeys = []string{
	"timestamp", "timeutc", "timestamputc", "ts", "time",
	"endtimeutc", "starttimeutc", "periodendutc", "periodstartutc",
}

// instrumentIDKeys is the alias set (lowercased) for instrument ids.
var instrumentIDKeys = []string{
	"instrumentid", "instrument_id", "id", "deviceid", "assetid",
}

// unitKeys is the alias set (lowercased) for measurement units.
var unitKeys = []string{"unit", "units"}

// Point is a candidate measurement node: an object carrying a timestamp
// alias, together with the instrument id and unit in effect at its
// position (its own if present, otherwise the nearest ancestor's).
type Point struct {
	Fields       map[string]any
	InstrumentID any
	Unit         string
}

type inherited struct {
	instrumentID any
	unit         string
}

// Walk descends an arbitrary decoded JSON value and invokes visit for
// every point it finds. Points nested inside other points are visited
// independently; reconciliation happens later at the upsert key. The
// input is never mutated.
func Walk(root any, visit func(Point)) {
	walk(root, inherited{}, 0, visit)
}

func walk(v any, inh inherited, depth int, visit func(Point)) {
	if depth > maxDepth {
		return
	}
	switch node := v.(type) {
	case map[string]any:
		next := inh
		if id, ok := lookupField(node, instrumentIDKeys); ok {
			next.instrumentID = id
		}
		if u, ok := lookupString(node, unitKeys); ok {
			next.unit = u
		}
		if hasTimestamp(node) {
			visit(Point{Fields: node, InstrumentID: next.instrumentID, Unit: next.unit})
		}
		for _, child := range node {
			walk(child, next, depth+1, visit)
		}
	case []any:
		for _, child := range node {
			walk(child, inh, depth+1, visit)
		}
	}
}

func hasTimestamp(fields map[string]any) bool {
	for k, v := range fields {
		if isTimestampKey(strings.ToLower(k)) && populated(v) {
			return true
		}
	}
	return false
}

func isTimestampKey(lower string) bool {
	for _, alias := range timestampKeys {
		if lower == alias {
			return true
		}
	}
	return false
}

// lookupField returns the first populated value whose lowercased key is in
// aliases, honouring alias order as priority.
func lookupField(fields map[string]any, aliases []string) (any, bool) {
	for _, alias := range aliases {
		for k, v := range fields {
			if strings.ToLower(k) == alias && populated(v) {
				return v, true
			}
		}
	}
	return nil, false
}

func lookupString(fields map[string]any, aliases []string) (string, bool) {
	v, ok := lookupField(fields, aliases)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

func populated(v any) bool {
	if v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		return s != ""
	}
	return true
}
