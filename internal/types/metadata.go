package types

// Metadata is an open key/value bag carried alongside priced items.
// It holds provenance only; pricing arithmetic never reads it.
type Metadata map[string]any

// GetString returns the value for key as a string, or "" when the key
// is absent or not a string.
func (m Metadata) GetString(key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}

// GetBool returns the value for key as a bool, defaulting to false.
func (m Metadata) GetBool(key string) bool {
	if m == nil {
		return false
	}
	b, _ := m[key].(bool)
	return b
}

// Copy returns a shallow copy of the bag.
func (m Metadata) Copy() Metadata {
	if m == nil {
		return nil
	}
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
