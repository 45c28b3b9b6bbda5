package domain

import "errors"

var (
	ErrInvalidPath       = errors.New("invalid path")
	ErrInvalidFilename   = errors.New("invalid file name")
	ErrInvalidDepth      = errors.New("invalid listing depth")
	ErrNotFound          = errors.New("file or directory not found")
	ErrIOFailure         = errors.New("filesystem operation failed")
	ErrUploadTooLarge    = errors.New("upload too large")
	ErrVaultNotDirectory = errors.New("vault path exists but is not a directory")
)
