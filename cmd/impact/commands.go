package main

import (
	"context"
	"slices"
	"strings"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/hazadus/impact/internal/config"
)

// createRootCommand создает корневую команду с настроенными подкомандами
func (app *Application) createRootCommand(ctx context.Context) *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "impact",
		Short: "Personal music catalog and player",
		Long: `Keep a catalog of local audio files and play them by id, path or title.
Without a subcommand starts the interactive shell.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return app.loadConfig(configPath)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.runShell(ctx, cmd.InOrStdin())
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigPath(), "path to config file")

	// Добавляем команды, передавая в них экземпляр приложения и контекст
	rootCmd.AddCommand(app.createAddCommand(ctx))
	rootCmd.AddCommand(app.createRemoveCommand(ctx, false))
	rootCmd.AddCommand(app.createListCommand(ctx))
	rootCmd.AddCommand(app.createResolveCommand(ctx))
	rootCmd.AddCommand(app.createShellCommand(ctx))
	rootCmd.AddCommand(app.createTUICommand(ctx))
	rootCmd.AddCommand(app.createBackupCommand(ctx))

	return rootCmd
}

type shellLineKey struct{}

// withShellLine сохраняет исходную строку shell для команд, которые ее разбирают
func withShellLine(ctx context.Context, line string) context.Context {
	return context.WithValue(ctx, shellLineKey{}, line)
}

// addReferenceFlags добавляет --artist и прекращает разбор флагов на первом
// позиционном аргументе: слова вроде "-Song" остаются частью ссылки
func addReferenceFlags(cmd *cobra.Command, artist *string) {
	cmd.Flags().StringVarP(artist, "artist", "a", "", "narrow title match to this artist (goes before the reference)")
	cmd.Flags().SetInterspersed(false)
}

// reference собирает ссылку на трек из позиционных аргументов.
// В shell ссылкой считается хвост исходной строки, пробелы внутри сохраняются.
func reference(ctx context.Context, args []string) string {
	if len(args) == 0 {
		return ""
	}

	if line, ok := ctx.Value(shellLineKey{}).(string); ok {
		starts := fieldStarts(line)
		if len(args) <= len(starts) {
			raw := strings.TrimRightFunc(line[starts[len(starts)-len(args)]:], unicode.IsSpace)
			if slices.Equal(strings.Fields(raw), args) {
				return raw
			}
		}
	}
	return strings.Join(args, " ")
}

// fieldStarts возвращает смещения начала слов строки
func fieldStarts(line string) []int {
	var starts []int
	inField := false
	for i, r := range line {
		space := unicode.IsSpace(r)
		if !space && !inField {
			starts = append(starts, i)
		}
		inField = !space
	}
	return starts
}
