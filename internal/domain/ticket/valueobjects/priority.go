package valueobjects

// PriorityMap maps source priority codes to destination priority labels.
// It is total: unmapped codes resolve to the configured fallback label.
type PriorityMap struct {
	labels   map[int]string
	fallback string
}

func NewPriorityMap(labels map[int]string, fallback string) PriorityMap {
	if fallback == "" {
		fallback = "Medium"
	}
	copied := make(map[int]string, len(labels))
	for code, label := range labels {
		copied[code] = label
	}
	return PriorityMap{labels: copied, fallback: fallback}
}

// Label resolves a source priority code to a destination label.
func (m PriorityMap) Label(code int) string {
	if label, ok := m.labels[code]; ok && label != "" {
		return label
	}
	return m.fallback
}

// Fallback returns the default label used for unmapped codes.
func (m PriorityMap) Fallback() string {
	return m.fallback
}
