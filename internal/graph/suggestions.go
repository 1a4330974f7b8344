package graph

// OtherOption is the literal escape value appended to every suggestion
// list offered in the form.
const OtherOption = "Other"

// Suggestions maps a property key to the distinct values previously observed
// for it on nodes sharing the selected node's labels. A nil map means no
// suggestions are available.
type Suggestions map[string][]any

// For returns the suggestion list for key, nil when absent.
func (s Suggestions) For(key string) []any {
	if s == nil {
		return nil
	}
	return s[key]
}

// Len returns the number of keys with suggestions
func (s Suggestions) Len() int {
	return len(s)
}
