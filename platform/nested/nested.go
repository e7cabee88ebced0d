// Package nested provides lookup of values inside decoded JSON structures.
// This is part of the platform layer and contains no business logic.
package nested

// GetValue descends into data following path and returns the value found at
// the leaf. Map keys are matched exactly. A missing key anywhere along the
// path, or a path that descends past a leaf, yields nil rather than an error.
func GetValue(path []string, data any) any {
	current := data
	for _, key := range path {
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current, ok = m[key]
		if !ok {
			return nil
		}
	}
	return current
}
