package types

// StringList is a JSON-serialized string slice column (product image URLs).
// Stored as jsonb via GORM's json serializer.
type StringList []string

// Contains reports whether the list holds the given value.
func (s StringList) Contains(value string) bool {
	for _, item := range s {
		if item == value {
			return true
		}
	}
	return false
}
