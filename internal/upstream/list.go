package upstream

// wrapperKeys are the collection wrappers vendors put around list
// responses, in the order they are tried.
var wrapperKeys = []string{"items", "data", "results", "values", "series", "instruments"}

// AsList normalizes a decoded vendor response to a flat list: bare arrays
// pass through, known wrapper objects are unwrapped, and a single object
// becomes a one-element list.
func AsList(v any) []any {
	switch node := v.(type) {
	case nil:
		return nil
	case []any:
		return node
	case map[string]any:
		for _, key := range wrapperKeys {
			if list, ok := node[key].([]any); ok {
				return list
			}
		}
		return []any{node}
	default:
		return []any{node}
	}
}
