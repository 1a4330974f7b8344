package graph

// ChangedKeys returns, in key order, the keys of next whose value differs
// from prev. Values are compared by their rendered text.
func ChangedKeys(prev, next map[string]any) []string {
	var changed []string
	for _, k := range SortedKeys(next) {
		old, ok := prev[k]
		if !ok || FormatValue(old) != FormatValue(next[k]) {
			changed = append(changed, k)
		}
	}
	return changed
}
