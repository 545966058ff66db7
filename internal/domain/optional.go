package domain

import "encoding/json"

// Optional is a three-way JSON field: absent (Set=false), explicit null
// (Set=true, Valid=false) or a value (Set=true, Valid=true). Absent means
// "leave unchanged", null means "clear". Collapsing these to two states loses
// the distinction the progress endpoints rely on.
type Optional[T any] struct {
	Set   bool
	Valid bool
	Value T
}

// UnmarshalJSON is only invoked when the key is present in the payload, so a
// zero Optional naturally reports Set=false.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Valid = false
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

// SomeOf builds a present, non-null Optional. Test helper friendly.
func SomeOf[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Valid: true, Value: v}
}

// NullOf builds a present-but-null Optional.
func NullOf[T any]() Optional[T] {
	return Optional[T]{Set: true}
}
