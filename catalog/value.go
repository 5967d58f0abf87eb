package catalog

// Value is an identifier paired with its display string.
// Genres and the three author name components are carried as Values.
type Value struct {
	ID    int64
	Value string
}

// NewValue constructs a Value.
func NewValue(id int64, value string) Value {
	return Value{ID: id, Value: value}
}
