package backup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/shenikar/oreoregeo/internal/config"
	"github.com/shenikar/oreoregeo/internal/service"
	"github.com/sirupsen/logrus"
)

// walSuffix - суффикс файла журнала WAL рядом с базой
const walSuffix = "-wal"

// ErrNoBackup - в хранилище нет копии файла базы
var ErrNoBackup = errors.New("backup: no database backup found")

// ObjectStore - часть API minio, нужная для резервного копирования
type ObjectStore interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	FPutObject(ctx context.Context, bucketName, objectName, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	FGetObject(ctx context.Context, bucketName, objectName, filePath string, opts minio.GetObjectOptions) error
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
}

// Checkpointer сбрасывает WAL в файл базы перед копированием
type Checkpointer interface {
	Checkpoint(ctx context.Context) error
}

// Sealer закрывает хранилище перед заменой файлов базы
type Sealer interface {
	Seal()
}

type backupService struct {
	store        ObjectStore
	checkpointer Checkpointer
	fence        Sealer
	dbPath       string
	bucket       string
	prefix       string
	logger       *logrus.Logger
}

// NewMinioClient создает клиента S3-совместимого хранилища по конфигурации
func NewMinioClient(cfg *config.Config) (*minio.Client, error) {
	client, err := minio.New(cfg.BackupEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.BackupAccessKey, cfg.BackupSecretKey, ""),
		Secure: cfg.BackupUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	return client, nil
}

// NewBackupService создает сервис резервного копирования. fence может быть nil.
func NewBackupService(store ObjectStore, checkpointer Checkpointer, fence Sealer, dbPath, bucket, prefix string, logger *logrus.Logger) service.BackupService {
	return &backupService{
		store:        store,
		checkpointer: checkpointer,
		fence:        fence,
		dbPath:       dbPath,
		bucket:       bucket,
		prefix:       prefix,
		logger:       logger,
	}
}

func (s *backupService) objectName(localPath string) string {
	return path.Join(s.prefix, filepath.Base(localPath))
}

func (s *backupService) ensureBucket(ctx context.Context) error {
	exists, err := s.store.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.store.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
	}
	s.logger.WithField("bucket", s.bucket).Info("Backup bucket created")
	return nil
}

// Backup выгружает файл базы и -wal файл (если есть); одноименные объекты перезаписываются
func (s *backupService) Backup(ctx context.Context) ([]string, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "backup",
		"method":  "Backup",
	})

	if s.checkpointer != nil {
		if err := s.checkpointer.Checkpoint(ctx); err != nil {
			log.WithError(err).Warn("WAL checkpoint failed, uploading journal as is")
		}
	}
	if err := s.ensureBucket(ctx); err != nil {
		return nil, err
	}

	uploaded := make([]string, 0, 2)
	for _, local := range []string{s.dbPath, s.dbPath + walSuffix} {
		if _, err := os.Stat(local); err != nil {
			if os.IsNotExist(err) && local != s.dbPath {
				continue
			}
			return nil, fmt.Errorf("failed to stat %s: %w", local, err)
		}

		object := s.objectName(local)
		info, err := s.store.FPutObject(ctx, s.bucket, object, local, minio.PutObjectOptions{
			ContentType: "application/vnd.sqlite3",
		})
		if err != nil {
			return nil, fmt.Errorf("failed to upload %s: %w", object, err)
		}
		log.WithFields(logrus.Fields{"object": object, "size": info.Size}).Info("Backup file uploaded")
		uploaded = append(uploaded, filepath.Base(local))
	}
	return uploaded, nil
}

// Restore скачивает копии поверх локальных файлов.
// Хранилище закрывается до замены файлов и остается закрытым до перезапуска.
// Если копии журнала нет, локальный журнал удаляется, чтобы не применить его к чужой базе.
func (s *backupService) Restore(ctx context.Context) ([]string, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "backup",
		"method":  "Restore",
	})

	dbObject := s.objectName(s.dbPath)
	if _, err := s.store.StatObject(ctx, s.bucket, dbObject, minio.StatObjectOptions{}); err != nil {
		if isNotFound(err) {
			return nil, ErrNoBackup
		}
		return nil, fmt.Errorf("failed to stat %s: %w", dbObject, err)
	}

	if s.fence != nil {
		s.fence.Seal()
		log.Warn("Store sealed for restore, restart required")
	}

	restored := make([]string, 0, 2)
	for _, local := range []string{s.dbPath, s.dbPath + walSuffix} {
		object := s.objectName(local)
		if local != s.dbPath {
			_, err := s.store.StatObject(ctx, s.bucket, object, minio.StatObjectOptions{})
			if err != nil {
				if !isNotFound(err) {
					return nil, fmt.Errorf("failed to stat %s: %w", object, err)
				}
				if err := os.Remove(local); err != nil && !os.IsNotExist(err) {
					return nil, fmt.Errorf("failed to remove stale %s: %w", local, err)
				}
				continue
			}
		}

		if err := s.store.FGetObject(ctx, s.bucket, object, local, minio.GetObjectOptions{}); err != nil {
			return nil, fmt.Errorf("failed to download %s: %w", object, err)
		}
		log.WithField("object", object).Info("Backup file restored")
		restored = append(restored, filepath.Base(local))
	}

	// shared memory index пересоздается SQLite при следующем открытии
	if err := os.Remove(s.dbPath + "-shm"); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Failed to remove shm file")
	}
	return restored, nil
}

func isNotFound(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == 404
}
