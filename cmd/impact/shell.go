package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hazadus/impact/internal/library"
)

const shellPrompt = "impact> "

var errExitShell = errors.New("выход из shell")

// createShellCommand создает команду shell с привязкой к экземпляру приложения
func (app *Application) createShellCommand(ctx context.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start the interactive shell",
		Long:  `Start an interactive shell with selection and playback commands.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.runShell(ctx, cmd.InOrStdin())
		},
	}
}

// runShell читает команды построчно, пока не встретит exit, конец ввода
// или отмену контекста. Ошибки команд выводятся, цикл продолжается.
func (app *Application) runShell(ctx context.Context, in io.Reader) error {
	if _, err := app.service(ctx); err != nil {
		return err
	}

	done := make(chan struct{})
	defer close(done)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
	}()

	fmt.Println("🎵 impact shell. Введите 'help' для списка команд, 'exit' для выхода.")

	for {
		fmt.Print(shellPrompt)

		select {
		case <-ctx.Done():
			fmt.Println()
			return nil

		case line, ok := <-lines:
			if !ok {
				fmt.Println()
				return nil
			}

			err := app.execShellLine(ctx, line)
			if errors.Is(err, errExitShell) {
				fmt.Println("👋 До свидания!")
				return nil
			}
			if err != nil {
				fmt.Printf("❌ Ошибка: %v\n", err)
			}
		}
	}
}

// execShellLine разбивает строку по пробелам и выполняет ее как команду
func (app *Application) execShellLine(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	// Дерево команд создается заново, чтобы флаги не сохранялись между строками
	cmd := app.createShellCommandTree(withShellLine(ctx, line))
	cmd.SetArgs(fields)
	return cmd.ExecuteContext(ctx)
}

// createShellCommandTree создает набор команд, доступных в shell
func (app *Application) createShellCommandTree(ctx context.Context) *cobra.Command {
	root := &cobra.Command{
		Use:           "impact",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true

	root.AddCommand(
		app.createSelectCommand(ctx),
		app.createDeselectCommand(),
		app.createPlayCommand(ctx),
		app.createControlCommand("pause", "Pause playback", (*library.Service).Pause),
		app.createControlCommand("resume", "Resume paused playback", (*library.Service).Resume),
		app.createControlCommand("stop", "Stop playback", (*library.Service).Stop),
		app.createStatusCommand(),
		app.createAddCommand(ctx),
		app.createRemoveCommand(ctx, true),
		app.createListCommand(ctx),
		&cobra.Command{
			Use:     "exit",
			Aliases: []string{"quit"},
			Short:   "Stop playback and leave the shell",
			Args:    cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				return errExitShell
			},
		},
	)

	return root
}

func (app *Application) createSelectCommand(ctx context.Context) *cobra.Command {
	var artist string

	cmd := &cobra.Command{
		Use:   "select [--artist name] <id | path | title | artist - title>",
		Short: "Select a track for play and remove",
		Long: `Select a track for play and remove.
Everything after the first word of the reference is part of it; use -- before
a reference that starts with '-'.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			msg, err := app.Service.Select(ctx, library.SelectRequest{Reference: reference(ctx, args), Artist: artist})
			if err != nil {
				return err
			}
			fmt.Printf("📌 %s\n", msg)
			return nil
		},
	}

	addReferenceFlags(cmd, &artist)
	return cmd
}

func (app *Application) createDeselectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "deselect",
		Short: "Clear the selected track",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(app.Service.Deselect())
		},
	}
}

func (app *Application) createPlayCommand(ctx context.Context) *cobra.Command {
	var artist string

	cmd := &cobra.Command{
		Use:   "play [--artist name] [id | path | title | artist - title]",
		Short: "Play a track, or the selected one without a reference",
		RunE: func(_ *cobra.Command, args []string) error {
			msg, err := app.Service.Play(ctx, library.PlayRequest{Reference: reference(ctx, args), Artist: artist})
			if err != nil {
				return err
			}
			fmt.Printf("▶️  %s\n", msg)
			return nil
		},
	}

	addReferenceFlags(cmd, &artist)
	return cmd
}

// createControlCommand создает команду управления воспроизведением без аргументов
func (app *Application) createControlCommand(use, short string, action func(*library.Service) (string, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			msg, err := action(app.Service)
			if err != nil {
				return err
			}
			fmt.Println(msg)
			return nil
		},
	}
}

func (app *Application) createStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show playback state and the selected track",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(app.Service.Status())
		},
	}
}
