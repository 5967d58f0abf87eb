package catalog

import (
	"context"
	"errors"
	"unicode/utf8"

	"github.com/opdskit/opds-catalog-go/catalog/collation"
)

// NextCharFetcher returns the distinct stored values that case-insensitively start with mask,
// each truncated to one rune longer than mask.
// Values not longer than mask come back whole.
type NextCharFetcher func(ctx context.Context, mask string) ([]string, error)

// SearchByMask expands mask one rune at a time for as long as the stored values agree on the next rune.
//
// Every fetched candidate not longer than the current mask is a complete stored value and is
// collected into complete. The longer candidates decide how to continue:
//   - none: the search stops
//   - one: it becomes the new mask
//   - two that differ only by case: the first becomes the new mask
//   - otherwise: they are collected into incomplete and the search stops
//
// A fetcher failure aborts the search, the returned error matches both ErrFetcherFailed
// and the fetcher's own error.
func SearchByMask(ctx context.Context, mask string, fetch NextCharFetcher) (complete []string, incomplete []string, err error) {
	complete = make([]string, 0)
	incomplete = make([]string, 0)

	for {
		candidates, fetchErr := fetch(ctx, mask)
		if fetchErr != nil {
			return nil, nil, errors.Join(ErrFetcherFailed, fetchErr)
		}

		maskLength := utf8.RuneCountInString(mask)
		tail := make([]string, 0, len(candidates))

		for _, candidate := range candidates {
			if utf8.RuneCountInString(candidate) > maskLength {
				tail = append(tail, candidate)
				continue
			}

			complete = append(complete, candidate)
		}

		switch {
		case len(tail) == 0:
			return complete, incomplete, nil

		case len(tail) == 1:
			mask = tail[0]

		case len(tail) == 2 && collation.EqualFold(tail[0], tail[1]):
			mask = tail[0]

		default:
			incomplete = append(incomplete, tail...)
			return complete, incomplete, nil
		}
	}
}
