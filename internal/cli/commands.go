package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/opdskit/opds-catalog-go/catalog"
	"github.com/opdskit/opds-catalog-go/catalog/sqliteengine"
)

const incompleteMarker = "..."

func newCheckCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the schema and report whether the store is read-only",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.catalog.VerifySchema(cmd.Context()); err != nil {
				return err
			}

			readOnly, err := a.catalog.IsReadOnly(cmd.Context())
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "schema ok, read-only: %t\n", readOnly)
			return err
		},
	}
}

func newGenresCommand(a *app) *cobra.Command {
	genres := &cobra.Command{Use: "genres", Short: "Browse genre groups and genres"}

	genres.AddCommand(
		&cobra.Command{
			Use:   "metas",
			Short: "List the genre groups",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				metas, err := a.catalog.MetaGenres(cmd.Context())
				if err != nil {
					return err
				}

				return printLines(cmd.OutOrStdout(), metas)
			},
		},
		&cobra.Command{
			Use:   "list <meta>",
			Short: "List the genres of a group with their ids",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				genres, err := a.catalog.GenresByMeta(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				for _, genre := range genres {
					if _, err = fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", genre.ID, genre.Value); err != nil {
						return err
					}
				}

				return nil
			},
		},
	)

	return genres
}

func newAuthorsCommand(a *app) *cobra.Command {
	authors := &cobra.Command{Use: "authors", Short: "Find authors"}

	authors.AddCommand(
		searchCommand(a, "Expand a last name prefix", func(c *sqliteengine.Catalog) searchFunc { return c.SearchAuthorsByPrefix }),
		nextCharCommand(a, "List last name prefixes one character longer", func(c *sqliteengine.Catalog) nextCharFunc { return c.AuthorsNextCharByPrefix }),
		&cobra.Command{
			Use:   "by-last-name <name>",
			Short: "List the authors with a last name",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				found, err := a.catalog.AuthorsByLastName(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				return printAuthors(cmd.OutOrStdout(), found)
			},
		},
		&cobra.Command{
			Use:   "by-genre <genre-id>",
			Short: "List the authors of a genre",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				genreID, err := parseID(args[0])
				if err != nil {
					return err
				}

				found, err := a.catalog.AuthorsByGenreID(cmd.Context(), genreID)
				if err != nil {
					return err
				}

				return printAuthors(cmd.OutOrStdout(), found)
			},
		},
		&cobra.Command{
			Use:   "by-books <book-id>...",
			Short: "List the authors of books",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				bookIDs, err := parseIDs(args)
				if err != nil {
					return err
				}

				found, err := a.catalog.AuthorsByBookIDs(cmd.Context(), bookIDs)
				if err != nil {
					return err
				}

				return printAuthors(cmd.OutOrStdout(), found)
			},
		},
		&cobra.Command{
			Use:   "get <first-id> <middle-id> <last-id>",
			Short: "Show one author",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				ids, err := parseAuthorIDs(args)
				if err != nil {
					return err
				}

				author, err := a.catalog.AuthorByIDs(cmd.Context(), ids)
				if err != nil {
					return err
				}

				return printAuthors(cmd.OutOrStdout(), []catalog.Author{author})
			},
		},
	)

	return authors
}

func newSeriesCommand(a *app) *cobra.Command {
	series := &cobra.Command{Use: "series", Short: "Find series"}

	series.AddCommand(
		searchCommand(a, "Expand a series name prefix", func(c *sqliteengine.Catalog) searchFunc { return c.SearchSeriesByPrefix }),
		nextCharCommand(a, "List series name prefixes one character longer", func(c *sqliteengine.Catalog) nextCharFunc { return c.SeriesNextCharByPrefix }),
		&cobra.Command{
			Use:   "by-name <name>",
			Short: "List the series with a name, one line per author",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				found, err := a.catalog.SeriesBySerieName(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				return printSeries(cmd.OutOrStdout(), found)
			},
		},
		&cobra.Command{
			Use:   "by-author <first-id> <middle-id> <last-id>",
			Short: "List the series of an author",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				ids, err := parseAuthorIDs(args)
				if err != nil {
					return err
				}

				found, err := a.catalog.SeriesByAuthorIDs(cmd.Context(), ids)
				if err != nil {
					return err
				}

				return printSeries(cmd.OutOrStdout(), found)
			},
		},
		&cobra.Command{
			Use:   "by-genre <genre-id>",
			Short: "List the series of a genre",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				genreID, err := parseID(args[0])
				if err != nil {
					return err
				}

				found, err := a.catalog.SeriesByGenreID(cmd.Context(), genreID)
				if err != nil {
					return err
				}

				return printSeries(cmd.OutOrStdout(), found)
			},
		},
		&cobra.Command{
			Use:   "get <serie-id>...",
			Short: "Show series by id",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				serieIDs, err := parseIDs(args)
				if err != nil {
					return err
				}

				found, err := a.catalog.SeriesByIDs(cmd.Context(), serieIDs)
				if err != nil {
					return err
				}

				return printSeries(cmd.OutOrStdout(), found)
			},
		},
	)

	return series
}

func newBooksCommand(a *app) *cobra.Command {
	books := &cobra.Command{Use: "books", Short: "Find books"}

	var (
		serieID    int64
		standalone bool
	)

	byAuthor := &cobra.Command{
		Use:   "by-author <first-id> <middle-id> <last-id>",
		Short: "List the books of an author",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseAuthorIDs(args)
			if err != nil {
				return err
			}

			var found []catalog.Book
			switch {
			case cmd.Flags().Changed("serie"):
				found, err = a.catalog.BooksByAuthorIDsAndSerieID(cmd.Context(), ids, serieID)
			case standalone:
				found, err = a.catalog.BooksByAuthorIDsWithoutSerie(cmd.Context(), ids)
			default:
				found, err = a.catalog.BooksByAuthorIDs(cmd.Context(), ids)
			}

			if err != nil {
				return err
			}

			return printBooks(cmd.OutOrStdout(), found)
		},
	}
	byAuthor.Flags().Int64Var(&serieID, "serie", 0, "only books of this series")
	byAuthor.Flags().BoolVar(&standalone, "standalone", false, "only books outside any series")
	byAuthor.MarkFlagsMutuallyExclusive("serie", "standalone")

	books.AddCommand(
		searchCommand(a, "Expand a title prefix", func(c *sqliteengine.Catalog) searchFunc { return c.SearchBooksByPrefix }),
		nextCharCommand(a, "List title prefixes one character longer", func(c *sqliteengine.Catalog) nextCharFunc { return c.BooksNextCharByPrefix }),
		byAuthor,
		&cobra.Command{
			Use:   "by-title <title>",
			Short: "List the books with a title",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				found, err := a.catalog.BooksByTitle(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				return printBooks(cmd.OutOrStdout(), found)
			},
		},
		&cobra.Command{
			Use:   "by-serie <serie-id>",
			Short: "List the books of a series in order",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				serieID, err := parseID(args[0])
				if err != nil {
					return err
				}

				found, err := a.catalog.BooksBySerieID(cmd.Context(), serieID)
				if err != nil {
					return err
				}

				return printBooks(cmd.OutOrStdout(), found)
			},
		},
		&cobra.Command{
			Use:   "by-genre <genre-id> <date-pattern>",
			Short: "List the books of a genre added on dates matching a LIKE pattern",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				genreID, err := parseID(args[0])
				if err != nil {
					return err
				}

				found, err := a.catalog.BooksByGenreIDAndDate(cmd.Context(), genreID, args[1])
				if err != nil {
					return err
				}

				return printBooks(cmd.OutOrStdout(), found)
			},
		},
		&cobra.Command{
			Use:   "get <book-id>",
			Short: "Show a book, one line per author",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				bookID, err := parseID(args[0])
				if err != nil {
					return err
				}

				found, err := a.catalog.BookByID(cmd.Context(), bookID)
				if err != nil {
					return err
				}

				if len(found) == 0 {
					return fmt.Errorf("book %d: %w", bookID, catalog.ErrNotFound)
				}

				return printBooks(cmd.OutOrStdout(), found)
			},
		},
	)

	return books
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", arg, err)
	}

	return id, nil
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := parseID(arg)
		if err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	return ids, nil
}

func parseAuthorIDs(args []string) (catalog.AuthorIDs, error) {
	ids, err := parseIDs(args)
	if err != nil {
		return catalog.AuthorIDs{}, err
	}

	return catalog.AuthorIDs{First: ids[0], Middle: ids[1], Last: ids[2]}, nil
}

func printLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	return nil
}

func printAuthors(w io.Writer, authors []catalog.Author) error {
	for _, author := range authors {
		ids := author.IDs()
		if _, err := fmt.Fprintf(w, "%d %d %d\t%s\n", ids.First, ids.Middle, ids.Last, author); err != nil {
			return err
		}
	}

	return nil
}

func printSeries(w io.Writer, series []catalog.Serie) error {
	for _, serie := range series {
		if _, err := fmt.Fprintf(w, "%d\t%s\n", serie.ID, serie); err != nil {
			return err
		}
	}

	return nil
}

func printBooks(w io.Writer, books []catalog.Book) error {
	for _, book := range books {
		if _, err := fmt.Fprintf(w, "%d\t%s\n", book.ID, book); err != nil {
			return err
		}
	}

	return nil
}
