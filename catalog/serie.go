package catalog

import "fmt"

// Serie is a series as listed for one author, Count is the number of that author's books in it.
type Serie struct {
	ID     int64
	Name   string
	Count  int64
	Author Author
}

// String renders the series as "{name} [{author}] ({count})".
func (s Serie) String() string {
	return fmt.Sprintf("%s [%s] (%d)", s.Name, s.Author, s.Count)
}
