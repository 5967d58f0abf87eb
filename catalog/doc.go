// Package catalog provides the core types of a read-only bibliographic catalog
// of books, authors, series and genres.
//
// This package defines the entity types returned by catalog queries, their
// human-readable rendering, the prefix-autocomplete engine shared by all
// name-based lookups, the observability interfaces used by engine
// implementations, and the common error definitions.
//
// Key types:
//   - Value: an identifier paired with a display string (genres, name components)
//   - Author: a three-part name, each part carrying its own identifier
//   - Book: a book row as listed in the catalog, credited to one author
//   - Serie: a series aggregated for one author, with its book count
//
// Common usage pattern:
//
//	complete, incomplete, err := catalog.SearchByMask(ctx, "Алекс", fetcher)
//	if err != nil {
//		// handle error
//	}
//
//	// complete holds stored values the mask expanded to,
//	// incomplete holds the longer prefixes where the expansion forked.
package catalog
