package usecases

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"home-vault/internal/domain"
)

func TestNewPathGuard(t *testing.T) {
	t.Run("cleans root", func(t *testing.T) {
		guard, err := NewPathGuard("/vault/./data/")
		require.NoError(t, err)
		assert.Equal(t, "/vault/data", guard.Root())
	})

	t.Run("relative root rejected", func(t *testing.T) {
		_, err := NewPathGuard("vault")
		assert.True(t, errors.Is(err, domain.ErrInvalidPath))
	})
}

func TestPathGuard_Resolve(t *testing.T) {
	guard, err := NewPathGuard("/vault")
	require.NoError(t, err)

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr error
	}{
		{"empty is root", "", "/vault", nil},
		{"slash is root", "/", "/vault", nil},
		{"dot is root", ".", "/vault", nil},
		{"relative", "sub/a.txt", "/vault/sub/a.txt", nil},
		{"rooted", "/sub/a.txt", "/vault/sub/a.txt", nil},
		{"double leading slash", "//sub", "/vault/sub", nil},
		{"trailing slash", "sub/", "/vault/sub", nil},
		{"redundant segments", "sub/./b//c", "/vault/sub/b/c", nil},
		{"dots in name", "my..file", "/vault/my..file", nil},
		{"parent", "..", "", domain.ErrInvalidPath},
		{"escape", "../etc/passwd", "", domain.ErrInvalidPath},
		{"rooted escape", "/../etc/passwd", "", domain.ErrInvalidPath},
		{"climb back in", "sub/../sub/a.txt", "", domain.ErrInvalidPath},
		{"disguised trailing", "sub/../../", "", domain.ErrInvalidPath},
		{"backslash escape", `..\etc`, "", domain.ErrInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := guard.Resolve(tt.path)
			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), "expected %v, got %v", tt.wantErr, err)
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPathGuard_ResolveStaysUnderRoot(t *testing.T) {
	root := t.TempDir()
	guard, err := NewPathGuard(root)
	require.NoError(t, err)

	segments := []string{"a", ".", "", "b c", "...", ".hidden", "x..y", "ü"}
	prefix := root + string(filepath.Separator)

	// все комбинации из трёх сегментов, с ведущим слешем и без.
	for _, s1 := range segments {
		for _, s2 := range segments {
			for _, s3 := range segments {
				for _, lead := range []string{"", "/"} {
					p := lead + strings.Join([]string{s1, s2, s3}, "/")
					got, err := guard.Resolve(p)
					require.NoError(t, err, "path %q", p)
					assert.True(t, got == root || strings.HasPrefix(got, prefix), "path %q resolved to %q", p, got)
				}
			}
		}
	}
}

func TestPathGuard_ResolveRejectsParentSegments(t *testing.T) {
	guard, err := NewPathGuard("/vault")
	require.NoError(t, err)

	for _, sep := range []string{"/", `\`, "//"} {
		for _, tmpl := range []string{"..", "..%s", "%s..", "a%s..", "..%sa", "a%s..%sb", "%s..%s"} {
			p := strings.ReplaceAll(tmpl, "%s", sep)
			_, err := guard.Resolve(p)
			assert.True(t, errors.Is(err, domain.ErrInvalidPath), "path %q must be rejected", p)
		}
	}
}

func TestPathGuard_Relative(t *testing.T) {
	guard, err := NewPathGuard("/vault")
	require.NoError(t, err)

	tests := []struct {
		name     string
		fullPath string
		want     string
		wantErr  bool
	}{
		{"root", "/vault", "/", false},
		{"file in root", "/vault/report.pdf", "/report.pdf", false},
		{"nested", "/vault/a/b/c.txt", "/a/b/c.txt", false},
		{"outside", "/etc/passwd", "", true},
		{"sibling with shared prefix", "/vault2/x", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := guard.Relative(tt.fullPath)
			if tt.wantErr {
				assert.True(t, errors.Is(err, domain.ErrInvalidPath))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
