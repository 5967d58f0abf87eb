package sqliteengine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opdskit/opds-catalog-go/catalog"
)

func givenRow(columns []string, values ...any) resultRow {
	return resultRow{columns: newColumnIndex(columns), values: values}
}

var bookRowColumns = []string{"id", "name", "sid", "idx", "fid", "fname", "mid", "mname", "lid", "lname", "size", "added"}

func Test_DecodeBook_When_TheBookIsInASerie_It_ShouldSetTheSerieRef(t *testing.T) {
	// arrange
	row := givenRow(bookRowColumns,
		int64(768502), "Трон змей", int64(29), int64(3),
		int64(9), "Фрост", int64(1), "", int64(9), "Кей",
		int64(1793000), "2024-06-05",
	)

	// act
	book, err := decodeBook(row)

	// assert
	require.NoError(t, err)
	assert.Equal(t, &catalog.SerieRef{ID: 29, Index: 3, Numbered: true}, book.Serie)
	assert.Equal(t, "3 Трон змей - Фрост Кей (2024-06-05) [1.71 MB]", book.String())
}

func Test_DecodeBook_When_SerieIsNull_It_ShouldLeaveTheSerieRefNil(t *testing.T) {
	// arrange
	row := givenRow(bookRowColumns,
		int64(768409), []byte("Рыцари, закованные в сталь"), nil, nil,
		int64(2), "Говард", int64(1), "", int64(1), "Пайл",
		int64(2580000), "2024-06-01",
	)

	// act
	book, err := decodeBook(row)

	// assert
	require.NoError(t, err)
	assert.Nil(t, book.Serie)
	assert.Equal(t, "Рыцари, закованные в сталь", book.Title)
}

func Test_DecodeBook_When_TheSerieIndexIsNull_It_ShouldKeepTheSerieUnnumbered(t *testing.T) {
	// arrange
	row := givenRow(bookRowColumns,
		int64(768502), "Трон змей", int64(29), nil,
		int64(9), "Фрост", int64(1), "", int64(9), "Кей",
		int64(1793000), "2024-06-05",
	)

	// act
	book, err := decodeBook(row)

	// assert
	require.NoError(t, err)
	assert.Equal(t, &catalog.SerieRef{ID: 29}, book.Serie)
	assert.True(t, book.InSerie(29))
	assert.Equal(t, "Трон змей - Фрост Кей (2024-06-05) [1.71 MB]", book.String())
}

func Test_DecodeBook_When_TheDateIsParsed_It_ShouldRenderItAsDay(t *testing.T) {
	// arrange
	row := givenRow(bookRowColumns,
		int64(1), "Title", nil, nil,
		int64(1), "", int64(1), "", int64(1), "Last",
		int64(10), time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
	)

	// act
	book, err := decodeBook(row)

	// assert
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01", book.Added)
}

func Test_DecodeSerie_When_AColumnIsMissing_It_ShouldFailWithDecodeFailed(t *testing.T) {
	// arrange
	row := givenRow([]string{"id", "name"}, int64(10), "Кровь на воздух")

	// act
	_, err := decodeSerie(row)

	// assert
	assert.ErrorIs(t, err, catalog.ErrDecodeFailed)
	assert.ErrorContains(t, err, `"count"`)
}

func Test_DecodeValue_When_TheIDIsNotAnInteger_It_ShouldFailWithDecodeFailed(t *testing.T) {
	// arrange
	row := givenRow([]string{"id", "value"}, "47", "Карьера, кадры")

	// act
	_, err := decodeValue(row)

	// assert
	assert.ErrorIs(t, err, catalog.ErrDecodeFailed)
}

func Test_DecodeString_When_TheValueIsNull_It_ShouldFailWithDecodeFailed(t *testing.T) {
	// arrange
	row := givenRow([]string{"value"}, nil)

	// act
	_, err := decodeString(row)

	// assert
	assert.ErrorIs(t, err, catalog.ErrDecodeFailed)
}

func Test_DecodeAuthor_It_ShouldReadTheNameTriple(t *testing.T) {
	// arrange
	row := givenRow([]string{"fid", "fname", "mid", "mname", "lid", "lname"},
		int64(4), "Павел", int64(2), "Сергеевич", int64(3), "Иевлев",
	)

	// act
	author, err := decodeAuthor(row)

	// assert
	require.NoError(t, err)
	assert.Equal(t, catalog.AuthorIDs{First: 4, Middle: 2, Last: 3}, author.IDs())
	assert.Equal(t, "Павел Сергеевич Иевлев", author.String())
}

func Test_ColumnIndex_When_AColumnRepeats_It_ShouldKeepTheFirst(t *testing.T) {
	// act
	index := newColumnIndex([]string{"id", "value", "id"})

	// assert
	assert.Equal(t, 0, index["id"])
	assert.Equal(t, 1, index["value"])
}
