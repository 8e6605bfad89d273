package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/hazadus/impact/internal/tui"
)

// createTUICommand создает команду tui с привязкой к экземпляру приложения
func (app *Application) createTUICommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Launch TUI (Terminal User Interface)",
		Long:  `Launch interactive terminal user interface for browsing and playing tracks.`,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			service, err := app.service(ctx)
			if err != nil {
				return err
			}
			return tui.NewApp(service).Run(ctx)
		},
	}
}
