package localstorage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"home-vault/internal/domain"
)

// tempFilePattern временные файлы загрузки, создаются в директории целевого файла.
const tempFilePattern = ".upload-*.tmp"

type LocalStorageService struct {
	dirPerm  os.FileMode
	filePerm os.FileMode
}

func NewLocalStorageService(dirPerm, filePerm os.FileMode) *LocalStorageService {
	return &LocalStorageService{
		dirPerm:  dirPerm,
		filePerm: filePerm,
	}
}

// EnsureVault создаёт корень хранилища, если его нет.
// Если по этому пути лежит не директория, сервер стартовать не должен.
func (s *LocalStorageService) EnsureVault(root string) error {
	info, err := os.Stat(root)
	switch {
	case err == nil && info.IsDir():
		return nil
	case err == nil:
		return fmt.Errorf("%s: %w", root, domain.ErrVaultNotDirectory)
	case !os.IsNotExist(err):
		return fmt.Errorf("failed to stat vault '%s': %w", root, err)
	}

	if mkErr := os.MkdirAll(root, s.dirPerm); mkErr != nil {
		return fmt.Errorf("failed to create vault '%s': %w", root, mkErr)
	}
	logrus.Infof("Created vault directory: %s", root)
	return nil
}

func (s *LocalStorageService) Stat(absPath string) (os.FileInfo, error) {
	return os.Stat(absPath)
}

func (s *LocalStorageService) ReadDirectory(absPath string) ([]os.FileInfo, error) {
	entries, err := os.ReadDir(absPath)
	if err != nil {
		return nil, err
	}

	files := make([]os.FileInfo, 0, len(entries))
	for _, e := range entries {
		info, infoErr := e.Info()
		if infoErr != nil {
			// файл мог пропасть между ReadDir и Info, пропускаем.
			logrus.Warnf("Failed to get info for %s: %v", e.Name(), infoErr)
			continue
		}
		files = append(files, info)
	}

	return files, nil
}

func (s *LocalStorageService) CreateDirectory(absPath string) error {
	return os.MkdirAll(absPath, s.dirPerm)
}

// WriteFile пишет содержимое во временный файл и переименовывает его в absPath.
// Существующий файл перезаписывается, при гонке побеждает последний rename.
func (s *LocalStorageService) WriteFile(absPath string, content io.Reader) (int64, error) {
	dir := filepath.Dir(absPath)

	tmp, err := os.CreateTemp(dir, tempFilePattern)
	if err != nil {
		return 0, err
	}
	tmpName := tmp.Name()

	written, copyErr := io.Copy(tmp, content)
	closeErr := tmp.Close()

	if err = firstError(copyErr, closeErr); err == nil {
		err = os.Chmod(tmpName, s.filePerm)
	}
	if err == nil {
		err = os.Rename(tmpName, absPath)
	}
	if err != nil {
		if rmErr := os.Remove(tmpName); rmErr != nil && !os.IsNotExist(rmErr) {
			logrus.Warnf("Failed to remove temp file %s: %v", tmpName, rmErr)
		}
		return 0, err
	}

	return written, nil
}

func (s *LocalStorageService) Open(absPath string) (io.ReadSeekCloser, error) {
	f, err := os.Open(absPath)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
