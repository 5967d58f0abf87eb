package catalog

import "strings"

// AuthorIDs is the identity triple of an Author: first, middle and last name ids.
type AuthorIDs struct {
	First  int64
	Middle int64
	Last   int64
}

// Author is a person credited with books. All three name components are always present,
// an absent component is stored as an empty string with its own id.
type Author struct {
	FirstName  Value
	MiddleName Value
	LastName   Value
}

// IDs returns the identity triple of the Author.
func (a Author) IDs() AuthorIDs {
	return AuthorIDs{
		First:  a.FirstName.ID,
		Middle: a.MiddleName.ID,
		Last:   a.LastName.ID,
	}
}

// String renders the author as "First Middle Last", skipping empty components.
func (a Author) String() string {
	parts := make([]string, 0, 3)

	for _, part := range []string{a.FirstName.Value, a.MiddleName.Value, a.LastName.Value} {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}

	return strings.Join(parts, " ")
}
