package usecases

import (
	"fmt"
	"path/filepath"
	"strings"

	"home-vault/internal/domain"
)

// PathGuard переводит клиентский путь в абсолютный путь внутри корня хранилища.
// Корень передаётся явно при создании, глобального состояния нет.
type PathGuard struct {
	root string
}

func NewPathGuard(root string) (*PathGuard, error) {
	if !filepath.IsAbs(root) {
		return nil, fmt.Errorf("vault root '%s' must be absolute: %w", root, domain.ErrInvalidPath)
	}
	return &PathGuard{root: filepath.Clean(root)}, nil
}

func (g *PathGuard) Root() string {
	return g.root
}

// Resolve проверяет грамматику, склеивает путь с корнем и убеждается, что результат не вышел за корень.
// "", "/" и "." дают сам корень.
func (g *PathGuard) Resolve(clientPath string) (string, error) {
	if err := domain.ValidatePath(clientPath); err != nil {
		return "", err
	}

	rel := strings.TrimLeft(clientPath, domain.PathSeparators)
	fullPath := filepath.Join(g.root, filepath.FromSlash(rel))

	// грамматика уже отсекла "..", но проверяем префикс ещё раз на случай особенностей Clean.
	if !g.contains(fullPath) {
		return "", fmt.Errorf("path '%s' escapes vault root: %w", clientPath, domain.ErrInvalidPath)
	}

	return fullPath, nil
}

// Relative обратная операция: путь относительно корня в слэш-форме, всегда с ведущим "/".
func (g *PathGuard) Relative(fullPath string) (string, error) {
	rel, err := filepath.Rel(g.root, fullPath)
	if err != nil || rel == domain.PathTraversalPrefix || strings.HasPrefix(rel, domain.PathTraversalPrefix+string(filepath.Separator)) {
		return "", fmt.Errorf("path '%s' is outside vault root: %w", fullPath, domain.ErrInvalidPath)
	}
	if rel == domain.PathCurrent {
		return domain.PathRoot, nil
	}
	return domain.PathRoot + filepath.ToSlash(rel), nil
}

func (g *PathGuard) contains(fullPath string) bool {
	if fullPath == g.root {
		return true
	}
	prefix := g.root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(fullPath, prefix)
}
