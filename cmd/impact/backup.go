package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/hazadus/impact/internal/s3"
	"github.com/hazadus/impact/internal/utils"
)

// createBackupCommand создает команду backup с подкомандами push и pull
func (app *Application) createBackupCommand(ctx context.Context) *cobra.Command {
	backupCmd := &cobra.Command{
		Use:   "backup",
		Short: "Back up the catalog file to S3",
		Long:  `Upload the catalog file to an S3 bucket or restore it from there.`,
	}

	backupCmd.AddCommand(&cobra.Command{
		Use:   "push",
		Short: "Upload the catalog file to S3",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Создаем контекст с таймаутом для загрузки (10 минут)
			pushCtx, cancel := context.WithTimeout(ctx, 10*time.Minute)
			defer cancel()
			return app.pushBackup(pushCtx)
		},
	})

	var force bool
	pullCmd := &cobra.Command{
		Use:   "pull",
		Short: "Restore the catalog file from S3",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			pullCtx, cancel := context.WithTimeout(ctx, 10*time.Minute)
			defer cancel()
			return app.pullBackup(pullCtx, force)
		},
	}
	pullCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing catalog file")
	backupCmd.AddCommand(pullCmd)

	return backupCmd
}

// backupClient создает клиента S3 и возвращает ключ объекта
func (app *Application) backupClient() (*s3.Backup, string, error) {
	cfg := app.Config.Backup
	if !cfg.Enabled() {
		return nil, "", errors.New("резервное копирование не настроено: укажите backup.aws_bucket_name в конфигурации")
	}

	client, err := s3.NewBackup(&s3.Config{
		Region:     cfg.AwsRegion,
		AccessKey:  cfg.AwsAccessKey,
		SecretKey:  cfg.AwsSecretKey,
		Endpoint:   cfg.AwsEndpoint,
		BucketName: cfg.AwsBucketName,
	})
	if err != nil {
		return nil, "", fmt.Errorf("ошибка создания S3 клиента: %w", err)
	}

	key := cfg.Key
	if key == "" {
		key = filepath.Base(app.Config.Catalog.Path)
	}
	return client, key, nil
}

func (app *Application) pushBackup(ctx context.Context) error {
	client, key, err := app.backupClient()
	if err != nil {
		return err
	}

	catalogPath := app.Config.Catalog.Path
	info, err := os.Stat(catalogPath)
	if err != nil {
		return fmt.Errorf("файл каталога недоступен: %w", err)
	}

	fmt.Printf("📤 Выгружаем каталог в S3:\n")
	fmt.Printf("   Файл: %s\n", catalogPath)
	fmt.Printf("   Размер: %s\n", humanize.Bytes(uint64(info.Size())))
	fmt.Printf("   Бакет: %s\n", app.Config.Backup.AwsBucketName)
	fmt.Printf("   Ключ: %s\n", key)
	fmt.Println()

	startTime := time.Now()
	result, err := client.Push(ctx, catalogPath, key, func(bytesRead int64) {
		printProgress(bytesRead, info.Size(), time.Since(startTime))
	})
	if err != nil {
		fmt.Println()
		return err
	}

	fmt.Printf("\n✅ Каталог выгружен: %s\n", result.URL)
	return nil
}

func (app *Application) pullBackup(ctx context.Context, force bool) error {
	client, key, err := app.backupClient()
	if err != nil {
		return err
	}

	catalogPath := app.Config.Catalog.Path
	if _, err := os.Stat(catalogPath); err == nil && !force {
		return fmt.Errorf("файл каталога %s уже существует, используйте --force для замены", catalogPath)
	}

	size, err := client.Size(ctx, key)
	if err != nil {
		return err
	}

	fmt.Printf("📥 Восстанавливаем каталог из S3:\n")
	fmt.Printf("   Бакет: %s\n", app.Config.Backup.AwsBucketName)
	fmt.Printf("   Ключ: %s\n", key)
	fmt.Printf("   Размер: %s\n", humanize.Bytes(uint64(size)))
	fmt.Println()

	n, err := client.Pull(ctx, key, catalogPath)
	if err != nil {
		return err
	}

	fmt.Printf("✅ Каталог восстановлен: %s (%s)\n", catalogPath, humanize.Bytes(uint64(n)))
	return nil
}

// printProgress выводит строку прогресса выгрузки
func printProgress(done, total int64, elapsed time.Duration) {
	if done <= 0 || total <= 0 {
		return
	}

	percentage := float64(done) / float64(total) * 100
	var speed float64
	if elapsed > 0 {
		speed = float64(done) / elapsed.Seconds()
	}

	fmt.Printf("\r📊 Прогресс: %.1f%% | %s / %s | Скорость: %s/s | Прошло: %s",
		percentage,
		humanize.Bytes(uint64(done)),
		humanize.Bytes(uint64(total)),
		humanize.Bytes(uint64(speed)),
		utils.FormatDuration(elapsed))
}
