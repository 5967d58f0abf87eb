package catalog_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/opdskit/opds-catalog-go/catalog"
)

var errUnknownMask = errors.New("unknown mask")

func fixtureFetcher(calls *[]string) NextCharFetcher {
	responses := map[string][]string{
		"A":    {"A", "Ab", "Ac"},
		"B":    {"B", "BB"},
		"BB":   {"BBB"},
		"BBB":  {"BBBB"},
		"BBBB": {"BBBB"},
		"C":    {"CC", "cc"},
		"CC":   {"CCC", "ccc"},
		"CCC":  {"CCC", "ccc"},
		"ccc":  {"ccc"},
		"D":    {},
	}

	return func(_ context.Context, mask string) ([]string, error) {
		if calls != nil {
			*calls = append(*calls, mask)
		}

		result, ok := responses[mask]
		if !ok {
			return nil, fmt.Errorf("%w: %q", errUnknownMask, mask)
		}

		return result, nil
	}
}

func Test_SearchByMask_When_TheCandidatesFork_AfterAnExactMatch(t *testing.T) {
	// act
	complete, incomplete, err := SearchByMask(context.Background(), "A", fixtureFetcher(nil))

	// assert
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, complete)
	assert.Equal(t, []string{"Ab", "Ac"}, incomplete)
}

func Test_SearchByMask_When_A_SingleTailExtends_UntilItEnds(t *testing.T) {
	// setup
	var calls []string

	// act
	complete, incomplete, err := SearchByMask(context.Background(), "B", fixtureFetcher(&calls))

	// assert
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "BBBB"}, complete)
	assert.Empty(t, incomplete)
	assert.Equal(t, []string{"B", "BB", "BBB", "BBBB"}, calls)
}

func Test_SearchByMask_When_TheTailsDifferOnlyByCase(t *testing.T) {
	// act
	complete, incomplete, err := SearchByMask(context.Background(), "C", fixtureFetcher(nil))

	// assert
	require.NoError(t, err)
	assert.Equal(t, []string{"CCC", "ccc"}, complete)
	assert.Empty(t, incomplete)
}

func Test_SearchByMask_When_NothingMatches(t *testing.T) {
	// act
	complete, incomplete, err := SearchByMask(context.Background(), "D", fixtureFetcher(nil))

	// assert
	require.NoError(t, err)
	assert.Empty(t, complete)
	assert.Empty(t, incomplete)
}

func Test_SearchByMask_When_TheFetcherFails(t *testing.T) {
	// act
	complete, incomplete, err := SearchByMask(context.Background(), "E", fixtureFetcher(nil))

	// assert
	assert.ErrorIs(t, err, ErrFetcherFailed)
	assert.ErrorIs(t, err, errUnknownMask)
	assert.Nil(t, complete)
	assert.Nil(t, incomplete)
}

func Test_SearchByMask_When_TheFetcherFails_AfterSomeSteps(t *testing.T) {
	// setup
	fetcher := func(_ context.Context, mask string) ([]string, error) {
		if mask == "Кей" {
			return nil, errUnknownMask
		}

		return []string{mask + "й"}, nil
	}

	// act
	complete, incomplete, err := SearchByMask(context.Background(), "Ке", fetcher)

	// assert
	assert.ErrorIs(t, err, ErrFetcherFailed)
	assert.Nil(t, complete, "no partial results are returned")
	assert.Nil(t, incomplete, "no partial results are returned")
}

func Test_SearchByMask_When_ThreeOrMoreTailsFork(t *testing.T) {
	// setup
	fetcher := func(_ context.Context, mask string) ([]string, error) {
		if mask != "Ст" {
			return nil, errUnknownMask
		}

		return []string{"Ста", "Сто", "сто"}, nil
	}

	// act
	complete, incomplete, err := SearchByMask(context.Background(), "Ст", fetcher)

	// assert
	require.NoError(t, err)
	assert.Empty(t, complete)
	assert.Equal(t, []string{"Ста", "Сто", "сто"}, incomplete, "case variants are not merged in a three-way fork")
}

func Test_SearchByMask_CountsRunes_NotBytes(t *testing.T) {
	// setup
	responses := map[string][]string{
		"Але":   {"Алек"},
		"Алек":  {"Алек", "Алекс"},
		"Алекс": {"Алекс"},
	}
	fetcher := func(_ context.Context, mask string) ([]string, error) {
		return responses[mask], nil
	}

	// act
	complete, incomplete, err := SearchByMask(context.Background(), "Але", fetcher)

	// assert
	require.NoError(t, err)
	assert.Equal(t, []string{"Алек", "Алекс"}, complete)
	assert.Empty(t, incomplete)
}
