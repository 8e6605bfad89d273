package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hazadus/impact/internal/library"
)

// createAddCommand создает команду add с привязкой к экземпляру приложения
func (app *Application) createAddCommand(ctx context.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <file path>",
		Short: "Add an audio file to the catalog",
		Long:  `Read tags of a local audio file and add it to the catalog.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return app.addTrack(ctx, reference(ctx, args))
		},
	}

	cmd.Flags().SetInterspersed(false)
	return cmd
}

func (app *Application) addTrack(ctx context.Context, path string) error {
	service, err := app.service(ctx)
	if err != nil {
		return err
	}

	result, err := service.Add(ctx, library.AddRequest{Path: path})
	if err != nil {
		return fmt.Errorf("ошибка добавления трека: %w", err)
	}

	if result.Duplicate {
		fmt.Printf("ℹ️  %s\n", result)
		return nil
	}
	fmt.Printf("✅ %s\n", result)
	return nil
}
