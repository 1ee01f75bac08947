// Package utils holds small generic helpers shared across packages.
package utils

// Value dereferences v, returning the zero value when v is nil. Useful for
// reading optional fields without a nil check at every call site.
func Value[T any](v *T) T {
	if v == nil {
		return *new(T)
	}
	return *v
}

// Ptr returns a pointer to v. Used to populate optional (pointer-typed)
// fields from literals.
func Ptr[T any](v T) *T {
	return &v
}
