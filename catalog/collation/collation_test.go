package collation_test

import (
	"slices"
	"sync"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"

	. "github.com/opdskit/opds-catalog-go/catalog/collation"
)

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

func Test_Compare_OrdersCaseInsensitively_BeforeBreakingTies(t *testing.T) {
	// arrange
	values := []string{"Warhammer b", "Xylophone", "warhammer a", "Wz"}

	// act
	slices.SortFunc(values, Compare)

	// assert
	assert.Equal(t, []string{"warhammer a", "Warhammer b", "Wz", "Xylophone"}, values)
}

func Test_Compare_OrdersCyrillicAlphabetically(t *testing.T) {
	// arrange
	values := []string{"Яблоко", "вишня", "арбуз", "Борщ"}

	// act
	slices.SortFunc(values, Compare)

	// assert
	assert.Equal(t, []string{"арбуз", "Борщ", "вишня", "Яблоко"}, values)
}

func Test_Compare_OnlyIdenticalStringsAreEqual(t *testing.T) {
	assert.Equal(t, 0, Compare("Кей", "Кей"))
	assert.NotEqual(t, 0, Compare("Warhammer ", "warhammer "))
	assert.Equal(t, -sign(Compare("a", "A")), sign(Compare("A", "a")))
}

func Test_Compare_IsSafeForConcurrentUse(t *testing.T) {
	// setup
	c := New(language.Russian)
	wg := sync.WaitGroup{}

	// act
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				assert.Less(t, c.Compare("арбуз", "Борщ"), 0)
			}
		}()
	}

	wg.Wait()
}

func Test_New_KeepsTheLanguageTag(t *testing.T) {
	assert.Equal(t, language.German, New(language.German).Tag())
	assert.Equal(t, language.Russian, Default.Tag())
}

func Test_Fold(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "Warhammer", expected: "warhammer"},
		{input: "АЛЕКСАНДР", expected: "александр"},
		{input: "Straße", expected: "strasse"},
		{input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Fold(tt.input))
		})
	}
}

func Test_EqualFold(t *testing.T) {
	assert.True(t, EqualFold("CCC", "ccc"))
	assert.True(t, EqualFold("Стоун", "сТОУН"))
	assert.False(t, EqualFold("Стое", "Стоу"))
}

func TestProperty_Compare_IsATotalOrder(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 300
	properties := gopter.NewProperties(parameters)

	word := gen.AnyString()

	properties.Property("compare is antisymmetric", prop.ForAll(
		func(a, b string) bool {
			return sign(Compare(a, b)) == -sign(Compare(b, a))
		},
		word, word,
	))

	properties.Property("only identical strings compare equal", prop.ForAll(
		func(a, b string) bool {
			return (Compare(a, b) == 0) == (a == b)
		},
		word, word,
	))

	properties.Property("compare is transitive", prop.ForAll(
		func(a, b, c string) bool {
			if Compare(a, b) <= 0 && Compare(b, c) <= 0 {
				return Compare(a, c) <= 0
			}

			return true
		},
		word, word, word,
	))

	properties.TestingRun(t)
}
