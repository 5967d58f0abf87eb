package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/opdskit/opds-catalog-go/catalog"
)

func Test_Author_String(t *testing.T) {
	tests := []struct {
		name     string
		author   Author
		expected string
	}{
		{
			name:     "all components present",
			author:   Author{FirstName: NewValue(1, "Павел"), MiddleName: NewValue(2, "Сергеевич"), LastName: NewValue(3, "Иевлев")},
			expected: "Павел Сергеевич Иевлев",
		},
		{
			name:     "empty middle name",
			author:   Author{FirstName: NewValue(1, "Анна"), MiddleName: NewValue(2, ""), LastName: NewValue(3, "Велес")},
			expected: "Анна Велес",
		},
		{
			name:     "only last name",
			author:   Author{FirstName: NewValue(1, ""), MiddleName: NewValue(2, ""), LastName: NewValue(3, "Стоев")},
			expected: "Стоев",
		},
		{
			name:     "whitespace components are trimmed",
			author:   Author{FirstName: NewValue(1, "  Анна "), MiddleName: NewValue(2, "   "), LastName: NewValue(3, " Велес")},
			expected: "Анна Велес",
		},
		{
			name:     "all components empty",
			author:   Author{},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.author.String())
		})
	}
}

func Test_Author_IDs(t *testing.T) {
	author := Author{FirstName: NewValue(4, "Павел"), MiddleName: NewValue(2, "Сергеевич"), LastName: NewValue(3, "Иевлев")}

	assert.Equal(t, AuthorIDs{First: 4, Middle: 2, Last: 3}, author.IDs())
}

func Test_FormatSize(t *testing.T) {
	tests := []struct {
		size     int64
		expected string
	}{
		{size: 0, expected: "0 B"},
		{size: 156, expected: "156 B"},
		{size: 1023, expected: "1023 B"},
		{size: 1024, expected: "1.00 KB"},
		{size: 2450, expected: "2.39 KB"},
		{size: 1048575, expected: "1024.00 KB"},
		{size: 1048576, expected: "1.00 MB"},
		{size: 4050000, expected: "3.86 MB"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatSize(tt.size))
		})
	}
}

func Test_Book_String(t *testing.T) {
	author := Author{FirstName: NewValue(3, "Анна"), MiddleName: NewValue(1, ""), LastName: NewValue(2, "Велес")}

	tests := []struct {
		name     string
		book     Book
		expected string
	}{
		{
			name:     "book without series",
			book:     Book{ID: 768500, Title: "День писателя", Author: author, Size: 999620, Added: "2024-06-18"},
			expected: "День писателя - Анна Велес (2024-06-18) [976.19 KB]",
		},
		{
			name:     "book in a series",
			book:     Book{ID: 768501, Title: "Хозяин мрачного замка", Serie: &SerieRef{ID: 30, Index: 2, Numbered: true}, Author: author, Size: 2002780, Added: "2024-06-05"},
			expected: "2 Хозяин мрачного замка - Анна Велес (2024-06-05) [1.91 MB]",
		},
		{
			name:     "book in a series without a position",
			book:     Book{ID: 768501, Title: "Хозяин мрачного замка", Serie: &SerieRef{ID: 30}, Author: author, Size: 2002780, Added: "2024-06-05"},
			expected: "Хозяин мрачного замка - Анна Велес (2024-06-05) [1.91 MB]",
		},
		{
			name:     "book without author",
			book:     Book{ID: 1, Title: "Аноним", Size: 156, Added: "2024-01-01"},
			expected: "Аноним (2024-01-01) [156 B]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.book.String())
		})
	}
}

func Test_Book_InSerie(t *testing.T) {
	inSerie := Book{Serie: &SerieRef{ID: 30, Index: 2, Numbered: true}}
	standalone := Book{}

	assert.True(t, inSerie.InSerie(30))
	assert.False(t, inSerie.InSerie(29))
	assert.False(t, standalone.InSerie(30))
}

func Test_Serie_String(t *testing.T) {
	serie := Serie{
		ID:     10,
		Name:   "Кровь на воздух",
		Count:  2,
		Author: Author{FirstName: NewValue(4, "Павел"), MiddleName: NewValue(2, "Сергеевич"), LastName: NewValue(3, "Иевлев")},
	}

	assert.Equal(t, "Кровь на воздух [Павел Сергеевич Иевлев] (2)", serie.String())
}
