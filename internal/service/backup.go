package service

import "context"

// BackupService определяет контракт резервного копирования локальной базы
type BackupService interface {
	// Backup выгружает файл базы и его -wal файл; возвращает имена выгруженных файлов
	Backup(ctx context.Context) ([]string, error)
	// Restore скачивает файлы с совпадающими именами поверх локальных
	Restore(ctx context.Context) ([]string, error)
}
