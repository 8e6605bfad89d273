package s3

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// MockS3Uploader мок для S3 uploader
type MockS3Uploader struct {
	uploadFunc func(input *s3manager.UploadInput) (*s3manager.UploadOutput, error)
}

func (m *MockS3Uploader) UploadWithContext(_ aws.Context, input *s3manager.UploadInput, _ ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error) {
	return m.uploadFunc(input)
}

// MockS3Downloader мок для S3 downloader
type MockS3Downloader struct {
	downloadFunc func(w io.WriterAt, input *s3.GetObjectInput) (int64, error)
}

func (m *MockS3Downloader) DownloadWithContext(_ aws.Context, w io.WriterAt, input *s3.GetObjectInput, _ ...func(*s3manager.Downloader)) (int64, error) {
	return m.downloadFunc(w, input)
}

// MockS3Client мок для S3 клиента
type MockS3Client struct {
	headObjectFunc func(input *s3.HeadObjectInput) (*s3.HeadObjectOutput, error)
}

func (m *MockS3Client) HeadObjectWithContext(_ aws.Context, input *s3.HeadObjectInput, _ ...request.Option) (*s3.HeadObjectOutput, error) {
	return m.headObjectFunc(input)
}

func testConfig() *Config {
	return &Config{
		Region:     "us-east-1",
		AccessKey:  "test-access-key",
		SecretKey:  "test-secret-key",
		Endpoint:   "https://s3.example.com",
		BucketName: "test-bucket",
	}
}

func newTestBackup(uploader uploaderAPI, downloader downloaderAPI, client clientAPI) *Backup {
	return &Backup{uploader: uploader, downloader: downloader, client: client, config: testConfig()}
}

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tracks.db")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Ошибка записи файла каталога: %v", err)
	}
	return path
}

// TestPush проверяет выгрузку каталога и отчёт о прогрессе
func TestPush(t *testing.T) {
	path := writeCatalog(t, "catalog content")

	mockUploader := &MockS3Uploader{
		uploadFunc: func(input *s3manager.UploadInput) (*s3manager.UploadOutput, error) {
			if aws.StringValue(input.Bucket) != "test-bucket" {
				t.Errorf("Ожидался bucket: test-bucket, получено: %s", aws.StringValue(input.Bucket))
			}
			if aws.StringValue(input.Key) != "backups/tracks.db" {
				t.Errorf("Ожидался key: backups/tracks.db, получено: %s", aws.StringValue(input.Key))
			}
			body, err := io.ReadAll(input.Body)
			if err != nil {
				t.Errorf("Ошибка чтения тела запроса: %v", err)
			}
			if string(body) != "catalog content" {
				t.Errorf("Ожидалось содержимое: catalog content, получено: %s", string(body))
			}
			return &s3manager.UploadOutput{}, nil
		},
	}

	var lastProgress int64
	backup := newTestBackup(mockUploader, nil, nil)
	result, err := backup.Push(context.Background(), path, "backups/tracks.db", func(n int64) {
		lastProgress = n
	})
	if err != nil {
		t.Fatalf("Неожиданная ошибка при выгрузке: %v", err)
	}

	if result.URL != "https://s3.example.com/test-bucket/backups/tracks.db" {
		t.Errorf("Неожиданный URL: %s", result.URL)
	}
	if result.Size != int64(len("catalog content")) {
		t.Errorf("Ожидался размер %d, получено: %d", len("catalog content"), result.Size)
	}
	if lastProgress != result.Size {
		t.Errorf("Прогресс должен дойти до %d, получено: %d", result.Size, lastProgress)
	}
}

// TestPushErrors проверяет обработку ошибок выгрузки
func TestPushErrors(t *testing.T) {
	t.Run("MissingFile", func(t *testing.T) {
		backup := newTestBackup(&MockS3Uploader{}, nil, nil)
		_, err := backup.Push(context.Background(), filepath.Join(t.TempDir(), "missing.db"), "tracks.db", nil)
		if err == nil || !strings.Contains(err.Error(), "ошибка открытия файла каталога") {
			t.Errorf("Неожиданная ошибка: %v", err)
		}
	})

	t.Run("AccessDenied", func(t *testing.T) {
		mockUploader := &MockS3Uploader{
			uploadFunc: func(*s3manager.UploadInput) (*s3manager.UploadOutput, error) {
				return nil, awserr.New("AccessDenied", "Access Denied", nil)
			},
		}
		backup := newTestBackup(mockUploader, nil, nil)
		_, err := backup.Push(context.Background(), writeCatalog(t, "x"), "tracks.db", nil)
		if err == nil || !strings.Contains(err.Error(), "ошибка загрузки") {
			t.Errorf("Неожиданная ошибка: %v", err)
		}
	})
}

// TestPull проверяет, что скачанный файл заменяет каталог
func TestPull(t *testing.T) {
	target := writeCatalog(t, "old")

	mockDownloader := &MockS3Downloader{
		downloadFunc: func(w io.WriterAt, input *s3.GetObjectInput) (int64, error) {
			if aws.StringValue(input.Key) != "tracks.db" {
				t.Errorf("Ожидался key: tracks.db, получено: %s", aws.StringValue(input.Key))
			}
			n, err := w.WriteAt([]byte("restored"), 0)
			return int64(n), err
		},
	}

	backup := newTestBackup(nil, mockDownloader, nil)
	n, err := backup.Pull(context.Background(), "tracks.db", target)
	if err != nil {
		t.Fatalf("Неожиданная ошибка при скачивании: %v", err)
	}
	if n != int64(len("restored")) {
		t.Errorf("Ожидалось %d байт, получено: %d", len("restored"), n)
	}

	content, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("Ошибка чтения каталога: %v", err)
	}
	if string(content) != "restored" {
		t.Errorf("Ожидалось содержимое: restored, получено: %s", string(content))
	}
}

// TestPullFailureKeepsCatalog проверяет, что при ошибке каталог не меняется
func TestPullFailureKeepsCatalog(t *testing.T) {
	target := writeCatalog(t, "old")

	mockDownloader := &MockS3Downloader{
		downloadFunc: func(w io.WriterAt, _ *s3.GetObjectInput) (int64, error) {
			_, _ = w.WriteAt([]byte("partial"), 0)
			return 0, awserr.New(s3.ErrCodeNoSuchKey, "The specified key does not exist.", nil)
		},
	}

	backup := newTestBackup(nil, mockDownloader, nil)
	_, err := backup.Pull(context.Background(), "tracks.db", target)
	if !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("Ожидалась ErrObjectNotFound, получено: %v", err)
	}

	content, _ := os.ReadFile(target)
	if string(content) != "old" {
		t.Errorf("Каталог не должен измениться, получено: %s", string(content))
	}

	entries, _ := os.ReadDir(filepath.Dir(target))
	if len(entries) != 1 {
		t.Errorf("Временный файл должен быть удален, найдено файлов: %d", len(entries))
	}
}

// TestSize проверяет запрос размера резервной копии
func TestSize(t *testing.T) {
	t.Run("Exists", func(t *testing.T) {
		client := &MockS3Client{
			headObjectFunc: func(*s3.HeadObjectInput) (*s3.HeadObjectOutput, error) {
				return &s3.HeadObjectOutput{ContentLength: aws.Int64(2048)}, nil
			},
		}
		size, err := newTestBackup(nil, nil, client).Size(context.Background(), "tracks.db")
		if err != nil {
			t.Fatalf("Неожиданная ошибка: %v", err)
		}
		if size != 2048 {
			t.Errorf("Ожидался размер 2048, получено: %d", size)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		client := &MockS3Client{
			headObjectFunc: func(*s3.HeadObjectInput) (*s3.HeadObjectOutput, error) {
				return nil, awserr.New("NotFound", "Not Found", nil)
			},
		}
		_, err := newTestBackup(nil, nil, client).Size(context.Background(), "tracks.db")
		if !errors.Is(err, ErrObjectNotFound) {
			t.Errorf("Ожидалась ErrObjectNotFound, получено: %v", err)
		}
	})
}

// TestNewBackup проверяет создание клиента
func TestNewBackup(t *testing.T) {
	t.Run("ValidConfig", func(t *testing.T) {
		config := testConfig()
		backup, err := NewBackup(config)
		if err != nil {
			t.Fatalf("Неожиданная ошибка при создании клиента: %v", err)
		}
		if backup.config != config {
			t.Error("Конфигурация должна быть сохранена")
		}
	})

	t.Run("MissingBucket", func(t *testing.T) {
		config := testConfig()
		config.BucketName = ""
		if _, err := NewBackup(config); err == nil {
			t.Error("Ожидалась ошибка без бакета")
		}
	})
}
