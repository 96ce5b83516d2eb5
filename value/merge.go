package value

// MergeDefaults fills in entries of defaults that candidate lacks.
//
// Candidate entries are kept as they are, in their stored order; each key of
// defaults that candidate does not contain is appended after them, in the
// order it appears in defaults. When either side is not a Dict, candidate is
// returned unchanged. Neither argument is modified.
func MergeDefaults(candidate, defaults Value) Value {
	c, ok := candidate.(Dict)
	if !ok {
		return candidate
	}
	d, ok := defaults.(Dict)
	if !ok {
		return candidate
	}
	merged := make(Dict, len(c), len(c)+len(d))
	copy(merged, c)
	for _, e := range d {
		if merged.Has(e.Key) {
			continue
		}
		merged = append(merged, e)
	}
	return merged
}
