package usecases

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"

	"home-vault/internal/domain"
)

type VaultUseCase struct {
	storage  domain.FileStorage
	guard    *PathGuard
	maxDepth int
}

func NewVaultUseCase(storage domain.FileStorage, guard *PathGuard, maxDepth int) *VaultUseCase {
	return &VaultUseCase{
		storage:  storage,
		guard:    guard,
		maxDepth: maxDepth,
	}
}

// List строит дерево листинга. depth == 0 только содержимое директории, без рекурсии.
// Порядок элементов тот, что отдаёт ReadDir, на него нельзя полагаться.
func (uc *VaultUseCase) List(path string, depth int) (*domain.DirectoryListing, error) {
	if depth < 0 || depth > uc.maxDepth {
		return nil, fmt.Errorf("depth %d out of range [0, %d]: %w", depth, uc.maxDepth, domain.ErrInvalidDepth)
	}
	return uc.list(path, depth)
}

func (uc *VaultUseCase) list(path string, depth int) (*domain.DirectoryListing, error) {
	fullPath, err := uc.guard.Resolve(path)
	if err != nil {
		return nil, err
	}

	info, err := uc.storage.Stat(fullPath)
	if err != nil {
		return nil, storageError("could not stat directory", path, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("'%s' is not a directory: %w", path, domain.ErrNotFound)
	}

	entries, err := uc.storage.ReadDirectory(fullPath)
	if err != nil {
		return nil, storageError("could not read directory", path, err)
	}

	items := make([]domain.FileItem, 0, len(entries))
	for _, fi := range entries {
		items = append(items, domain.FileItem{
			Name:         fi.Name(),
			IsDirectory:  fi.IsDir(),
			Size:         fi.Size(),
			LastModified: fi.ModTime(),
		})
	}

	subdirectories := make([]domain.DirectoryListing, 0)
	if depth > 0 {
		for _, item := range items {
			if !item.IsDirectory {
				continue
			}

			sub, subErr := uc.list(childPath(path, item.Name), depth-1)
			if subErr != nil {
				// директорию могли удалить между чтением родителя и рекурсией.
				if errors.Is(subErr, domain.ErrNotFound) {
					logrus.Warnf("Skipping vanished subdirectory %s: %v", item.Name, subErr)
					continue
				}
				return nil, subErr
			}
			subdirectories = append(subdirectories, *sub)
		}
	}

	return &domain.DirectoryListing{
		Path:           path,
		Items:          items,
		Subdirectories: subdirectories,
	}, nil
}

// Upload сохраняет content в dirPath/filename. Имя проверяется раньше пути,
// поэтому имя с ".." отклоняется при любом dirPath.
func (uc *VaultUseCase) Upload(dirPath, filename string, content io.Reader) (*domain.UploadResult, error) {
	if err := domain.ValidateFilename(filename); err != nil {
		return nil, err
	}

	targetDir, err := uc.guard.Resolve(dirPath)
	if err != nil {
		return nil, err
	}

	info, statErr := uc.storage.Stat(targetDir)
	switch {
	case statErr == nil && !info.IsDir():
		return nil, fmt.Errorf("upload target '%s' is not a directory: %w", dirPath, domain.ErrIOFailure)
	case statErr != nil && !errors.Is(statErr, fs.ErrNotExist):
		// сюда же попадает ENOTDIR, когда один из родителей обычный файл.
		return nil, fmt.Errorf("could not stat upload target '%s': %w: %w", dirPath, domain.ErrIOFailure, statErr)
	case statErr != nil:
		if mkErr := uc.storage.CreateDirectory(targetDir); mkErr != nil {
			return nil, fmt.Errorf("could not create directory '%s': %w: %w", dirPath, domain.ErrIOFailure, mkErr)
		}
	}

	targetPath := filepath.Join(targetDir, filename)
	if existing, existErr := uc.storage.Stat(targetPath); existErr == nil && existing.IsDir() {
		return nil, fmt.Errorf("'%s' is an existing directory: %w", filename, domain.ErrInvalidFilename)
	}

	written, err := uc.storage.WriteFile(targetPath, content)
	if err != nil {
		return nil, fmt.Errorf("failed to upload '%s' to '%s': %w: %w", filename, dirPath, domain.ErrIOFailure, err)
	}

	relPath, err := uc.guard.Relative(targetPath)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"path": relPath,
		"size": written,
	}).Debug("File stored")

	return &domain.UploadResult{Path: relPath, Size: written}, nil
}

// Download открывает обычный файл. Директории не скачиваются никогда.
func (uc *VaultUseCase) Download(path string) (*domain.FileDownload, error) {
	if strings.TrimSpace(path) == domain.PathEmpty {
		return nil, fmt.Errorf("path cannot be blank: %w", domain.ErrInvalidPath)
	}

	fullPath, err := uc.guard.Resolve(path)
	if err != nil {
		return nil, err
	}

	info, err := uc.storage.Stat(fullPath)
	if err != nil {
		return nil, storageError("file not found", path, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("'%s' is not a regular file: %w", path, domain.ErrNotFound)
	}

	content, err := uc.storage.Open(fullPath)
	if err != nil {
		return nil, storageError("could not read file", path, err)
	}

	return &domain.FileDownload{
		Name:         filepath.Base(fullPath),
		Size:         info.Size(),
		LastModified: info.ModTime(),
		Content:      content,
	}, nil
}

// childPath склеивает путь ребёнка через "/". Для корня ("" или "/") получается "/name".
func childPath(parent, name string) string {
	return strings.TrimSuffix(parent, domain.PathRoot) + domain.PathRoot + name
}

// storageError отделяет отсутствующий путь от прочих ошибок файловой системы.
func storageError(msg, path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
		return fmt.Errorf("%s '%s': %w", msg, path, domain.ErrNotFound)
	}
	return fmt.Errorf("%s '%s': %w: %w", msg, path, domain.ErrIOFailure, err)
}
