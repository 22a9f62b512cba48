package pattern

// Apply substitutes captured values into a target pattern. Every occurrence
// of a named placeholder's bracketed form is replaced by its captured value
// in a single left-to-right pass, so captured text is never re-interpreted
// as pattern syntax. Placeholders without a capture, and the anonymous
// marker, are left as-is.
func Apply(target string, captures map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(target, func(tok string) string {
		name := tok[2 : len(tok)-1]
		if value, ok := captures[name]; ok {
			return value
		}
		return tok
	})
}
