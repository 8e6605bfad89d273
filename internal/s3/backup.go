// Package s3 предоставляет резервное копирование файла каталога в Amazon S3
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"go.uber.org/zap"

	"github.com/hazadus/impact/internal/logger"
)

// ErrObjectNotFound возвращается, если резервной копии нет в бакете
var ErrObjectNotFound = errors.New("резервная копия не найдена")

// Config содержит настройки для S3
type Config struct {
	Region     string
	AccessKey  string
	SecretKey  string
	Endpoint   string
	BucketName string
}

type uploaderAPI interface {
	UploadWithContext(ctx aws.Context, input *s3manager.UploadInput, opts ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error)
}

type downloaderAPI interface {
	DownloadWithContext(ctx aws.Context, w io.WriterAt, input *s3.GetObjectInput, opts ...func(*s3manager.Downloader)) (int64, error)
}

type clientAPI interface {
	HeadObjectWithContext(ctx aws.Context, input *s3.HeadObjectInput, opts ...request.Option) (*s3.HeadObjectOutput, error)
}

// Backup выгружает и восстанавливает файл каталога
type Backup struct {
	uploader   uploaderAPI
	downloader downloaderAPI
	client     clientAPI
	config     *Config
}

// NewBackup создает клиента резервного копирования
func NewBackup(config *Config) (*Backup, error) {
	if config.BucketName == "" {
		return nil, errors.New("не задан бакет для резервных копий (backup.aws_bucket_name)")
	}

	awsConfig := &aws.Config{
		Region: aws.String(config.Region),
		Credentials: credentials.NewStaticCredentials(
			config.AccessKey,
			config.SecretKey,
			"",
		),
	}

	// Если указан endpoint, добавляем его
	if config.Endpoint != "" {
		awsConfig.Endpoint = aws.String(config.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания AWS сессии: %w", err)
	}

	return &Backup{
		uploader:   s3manager.NewUploader(sess),
		downloader: s3manager.NewDownloader(sess),
		client:     s3.New(sess),
		config:     config,
	}, nil
}

// PushResult содержит результат выгрузки
type PushResult struct {
	URL  string
	Size int64
}

// Push выгружает файл по ключу key; onProgress получает число прочитанных байт
func (b *Backup) Push(ctx context.Context, filePath, key string, onProgress func(int64)) (*PushResult, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия файла каталога: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("ошибка получения информации о файле: %w", err)
	}

	var reader io.Reader = file
	if onProgress != nil {
		reader = &ProgressReader{Reader: file, Size: info.Size(), OnProgress: onProgress}
	}

	_, err = b.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: aws.String(b.config.BucketName),
		Key:    aws.String(key),
		Body:   reader,
	})
	if err != nil {
		logger.Error("ошибка выгрузки каталога в S3",
			zap.String("bucket", b.config.BucketName),
			zap.String("key", key),
			zap.Error(err))
		return nil, fmt.Errorf("ошибка загрузки: %w", err)
	}

	logger.Info("каталог выгружен в S3",
		zap.String("bucket", b.config.BucketName),
		zap.String("key", key),
		zap.Int64("size", info.Size()))

	return &PushResult{
		URL:  fmt.Sprintf("%s/%s/%s", b.config.Endpoint, b.config.BucketName, key),
		Size: info.Size(),
	}, nil
}

// Pull скачивает объект key в filePath. Файл заменяется только после
// успешной загрузки.
func (b *Backup) Pull(ctx context.Context, key, filePath string) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return 0, fmt.Errorf("ошибка создания директории каталога: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(filePath), ".impact-pull-*")
	if err != nil {
		return 0, fmt.Errorf("ошибка создания временного файла: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	n, err := b.downloader.DownloadWithContext(ctx, tmp, &s3.GetObjectInput{
		Bucket: aws.String(b.config.BucketName),
		Key:    aws.String(key),
	})
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		if isNotFound(err) {
			return 0, fmt.Errorf("%w: %s", ErrObjectNotFound, key)
		}
		logger.Error("ошибка скачивания каталога из S3",
			zap.String("bucket", b.config.BucketName),
			zap.String("key", key),
			zap.Error(err))
		return 0, fmt.Errorf("ошибка скачивания: %w", err)
	}

	if err := os.Rename(tmpName, filePath); err != nil {
		return 0, fmt.Errorf("ошибка замены файла каталога: %w", err)
	}

	logger.Info("каталог восстановлен из S3",
		zap.String("bucket", b.config.BucketName),
		zap.String("key", key),
		zap.Int64("size", n))
	return n, nil
}

// Size возвращает размер резервной копии
func (b *Backup) Size(ctx context.Context, key string) (int64, error) {
	out, err := b.client.HeadObjectWithContext(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.config.BucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return 0, fmt.Errorf("%w: %s", ErrObjectNotFound, key)
		}
		return 0, fmt.Errorf("ошибка запроса объекта: %w", err)
	}
	return aws.Int64Value(out.ContentLength), nil
}

func isNotFound(err error) bool {
	var aerr awserr.Error
	if errors.As(err, &aerr) {
		switch aerr.Code() {
		case s3.ErrCodeNoSuchKey, "NotFound":
			return true
		}
	}
	return false
}

// ProgressReader структура для отслеживания прогресса чтения
type ProgressReader struct {
	io.Reader
	Size       int64
	OnProgress func(int64)
	bytesRead  int64
}

func (pr *ProgressReader) Read(p []byte) (n int, err error) {
	n, err = pr.Reader.Read(p)
	pr.bytesRead += int64(n)
	if pr.OnProgress != nil {
		pr.OnProgress(pr.bytesRead)
	}
	return n, err
}
