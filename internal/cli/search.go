package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opdskit/opds-catalog-go/catalog/sqliteengine"
)

type searchFunc func(ctx context.Context, prefix string) ([]string, []string, error)

type nextCharFunc func(ctx context.Context, prefix string) ([]string, error)

// searchCommand prints the complete names first and then the fork prefixes, marked with a trailing "...".
func searchCommand(a *app, short string, pick func(*sqliteengine.Catalog) searchFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "search <prefix>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			complete, incomplete, err := pick(a.catalog)(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if err = printLines(cmd.OutOrStdout(), complete); err != nil {
				return err
			}

			for _, prefix := range incomplete {
				if _, err = fmt.Fprintln(cmd.OutOrStdout(), prefix+incompleteMarker); err != nil {
					return err
				}
			}

			return nil
		},
	}
}

func nextCharCommand(a *app, short string, pick func(*sqliteengine.Catalog) nextCharFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "next <prefix>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			candidates, err := pick(a.catalog)(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			return printLines(cmd.OutOrStdout(), candidates)
		},
	}
}
