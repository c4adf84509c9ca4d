package karma

// LabelValue scans pairs in order and returns the value of the first pair
// whose name equals name (case-sensitive). When no pair matches, fallback is
// returned. On duplicate names the first occurrence wins.
func LabelValue(pairs []LabelPair, name, fallback string) string {
	for _, p := range pairs {
		if p.Name == name {
			return p.Value
		}
	}
	return fallback
}

// LabelMap converts an ordered pair array into a name→value map. The first
// occurrence of a name wins.
func LabelMap(pairs []LabelPair) map[string]string {
	m := make(map[string]string, len(pairs))
	for _, p := range pairs {
		if _, ok := m[p.Name]; !ok {
			m[p.Name] = p.Value
		}
	}
	return m
}
