package domain

import (
	"io"
	"os"
	"time"
)

// FileItem одна запись в директории.
type FileItem struct {
	Name         string    `json:"name"`
	IsDirectory  bool      `json:"isDirectory"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
}

// DirectoryListing узел дерева листинга. Subdirectories заполняется только при depth > 0.
type DirectoryListing struct {
	Path           string             `json:"path"`
	Items          []FileItem         `json:"items"`
	Subdirectories []DirectoryListing `json:"subdirectories"`
}

type UploadResult struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// FileDownload открытый файл для отдачи клиенту, Content закрывает вызывающий.
type FileDownload struct {
	Name         string
	Size         int64
	LastModified time.Time
	Content      io.ReadSeekCloser
}

// FileStorage операции над файловой системой. Все пути абсолютные и уже прошли через PathGuard.
type FileStorage interface {
	EnsureVault(root string) error
	Stat(absPath string) (os.FileInfo, error)
	ReadDirectory(absPath string) ([]os.FileInfo, error)
	CreateDirectory(absPath string) error
	WriteFile(absPath string, content io.Reader) (int64, error)
	Open(absPath string) (io.ReadSeekCloser, error)
}

// VaultService сценарии работы с хранилищем.
type VaultService interface {
	List(path string, depth int) (*DirectoryListing, error)
	Upload(dirPath, filename string, content io.Reader) (*UploadResult, error)
	Download(path string) (*FileDownload, error)
}
