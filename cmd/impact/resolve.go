package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hazadus/impact/internal/library"
	"github.com/hazadus/impact/internal/utils"
)

// createResolveCommand создает команду resolve: показывает, какой трек
// соответствует ссылке, ничего не меняя
func (app *Application) createResolveCommand(ctx context.Context) *cobra.Command {
	var artist string

	cmd := &cobra.Command{
		Use:   "resolve [--artist name] <id | path | title | artist - title>",
		Short: "Show which track a reference points to",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			service, err := app.service(ctx)
			if err != nil {
				return err
			}

			record, err := service.Resolve(ctx, library.ResolveRequest{Reference: reference(ctx, args), Artist: artist})
			if err != nil {
				return err
			}

			fmt.Printf("🎵 Трек найден:\n")
			fmt.Printf("   ID: %d\n", record.ID)
			fmt.Printf("   Исполнитель: %s\n", utils.OrDash(record.Artist))
			fmt.Printf("   Название: %s\n", utils.OrDash(record.Title))
			fmt.Printf("   Альбом: %s\n", utils.OrDash(record.Album))
			fmt.Printf("   Файл: %s\n", record.Path)
			return nil
		},
	}

	addReferenceFlags(cmd, &artist)
	return cmd
}
