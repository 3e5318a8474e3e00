package types

// StringPtr converts a string to a pointer to a string
func StringPtr(s string) *string {
	return &s
}

// StringNilOrEmpty checks if a pointer to a string is nil or empty
func StringNilOrEmpty(s *string) bool {
	return s == nil || *s == ""
}

// SafeString returns a safe string from a pointer to a string
func SafeString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Float64Ptr converts a float64 to a pointer to a float64
func Float64Ptr(f float64) *float64 {
	return &f
}

// SafeFloat64 returns the pointed-to value or fallback when the pointer is nil
func SafeFloat64(f *float64, fallback float64) float64 {
	if f == nil {
		return fallback
	}
	return *f
}
