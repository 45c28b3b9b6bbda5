package domain

import (
	"fmt"
	"strings"
)

func isSeparator(r rune) bool {
	return strings.ContainsRune(PathSeparators, r)
}

// ValidatePath проверяет грамматику клиентского пути: ни один сегмент не равен "..".
// Разделителями считаются и "/", и "\", чтобы не пропустить "..\..\etc".
// Пустой путь, "/" и пути с ведущим слешем и без допустимы и означают одно и то же.
func ValidatePath(p string) error {
	if strings.ContainsRune(p, 0) {
		return fmt.Errorf("path contains NUL byte: %w", ErrInvalidPath)
	}

	for _, seg := range strings.FieldsFunc(p, isSeparator) {
		if seg == PathTraversalPrefix {
			return fmt.Errorf("path '%s' contains '..' segment: %w", p, ErrInvalidPath)
		}
	}

	return nil
}

// ValidateFilename проверяет имя загружаемого файла отдельно от пути.
// ".." запрещено как подстрока, не только как сегмент.
func ValidateFilename(name string) error {
	switch {
	case strings.TrimSpace(name) == PathEmpty:
		return fmt.Errorf("file name is blank: %w", ErrInvalidFilename)
	case name == PathCurrent:
		return fmt.Errorf("file name '%s' is reserved: %w", name, ErrInvalidFilename)
	case strings.Contains(name, PathTraversalPrefix):
		return fmt.Errorf("file name '%s' contains '..': %w", name, ErrInvalidFilename)
	case strings.ContainsAny(name, PathSeparators):
		return fmt.Errorf("file name '%s' contains a path separator: %w", name, ErrInvalidFilename)
	case strings.ContainsRune(name, 0):
		return fmt.Errorf("file name contains NUL byte: %w", ErrInvalidFilename)
	}
	return nil
}
