package object

// FieldMode distinguishes the three ways a desired spec can mention a field.
type FieldMode int

const (
	// ModeValue means the field carries a concrete desired value.
	ModeValue FieldMode = iota
	// ModeUnmanaged means the field is intentionally excluded from
	// comparison and application, left under external control.
	ModeUnmanaged
	// ModeClear means the field's prior server content must be removed,
	// reverting it to the kind-specific default.
	ModeClear
)

// FieldSpec is the tagged sentinel for a single desired field. A missing
// map key is never inspected directly; the loader turns explicit null into
// Unmanaged and an explicit empty collection into Clear, preserving the
// three-way distinction.
type FieldSpec struct {
	Mode  FieldMode
	Value any
}

// Value wraps a concrete desired value.
func Value(v any) FieldSpec {
	return FieldSpec{Mode: ModeValue, Value: v}
}

// Unmanaged marks a field as left alone.
func Unmanaged() FieldSpec {
	return FieldSpec{Mode: ModeUnmanaged}
}

// Clear marks a field for reversion to its default.
func Clear() FieldSpec {
	return FieldSpec{Mode: ModeClear}
}

// Managed reports whether the field takes part in diffing.
func (f FieldSpec) Managed() bool {
	return f.Mode != ModeUnmanaged
}
