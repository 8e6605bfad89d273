package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hazadus/impact/internal/library"
)

// createRemoveCommand создает команду remove. В shell ссылку можно не
// указывать: тогда удаляется выбранный трек.
func (app *Application) createRemoveCommand(ctx context.Context, allowSelection bool) *cobra.Command {
	var artist string

	validateArgs := cobra.MinimumNArgs(1)
	use := "remove [--artist name] <id | path | title | artist - title>"
	if allowSelection {
		validateArgs = cobra.ArbitraryArgs
		use = "remove [--artist name] [id | path | title | artist - title]"
	}

	cmd := &cobra.Command{
		Use:     use,
		Aliases: []string{"rm", "delete"},
		Short:   "Remove a track from the catalog",
		Long:    `Remove a track from the catalog. The audio file itself is not deleted.`,
		Args:    validateArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			service, err := app.service(ctx)
			if err != nil {
				return err
			}

			msg, err := service.Remove(ctx, library.RemoveRequest{Reference: reference(ctx, args), Artist: artist})
			if err != nil {
				return err
			}
			fmt.Printf("🗑️  %s\n", msg)
			return nil
		},
	}

	addReferenceFlags(cmd, &artist)
	return cmd
}
