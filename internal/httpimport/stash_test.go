package httpimport

import (
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStashKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"https://esm.sh/lit@2.4.1/decorators.js", "https://esm.sh/lit@2.4.1/decorators.js"},
		{"https://esm.sh/v99/lit@%5E2.4.1/es2022/lit.js", "https://esm.sh/v99/lit@^2.4.1/es2022/lit.js"},
		{"https://esm.sh/a@%5e1/b@%5E2", "https://esm.sh/a@^1/b@^2"},
		{"https://esm.sh/dayjs?target=es2022", "https://esm.sh/dayjstarget=es2022"},
		{"https://esm.sh/x?a=1&b=?", "https://esm.sh/xa=1&b=?"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StashKey(tt.in), tt.in)
	}
}

func TestStash_Path(t *testing.T) {
	t.Parallel()

	s := NewStash(afero.NewMemMapFs(), "")
	got := s.Path("https://esm.sh/v99/lit@%5E2.4.1/lit.js")

	assert.Equal(t, filepath.Join(DefaultStashDir, "https:", "esm.sh", "v99", "lit@^2.4.1", "lit.js"), got)
}

func TestStash_PathStaysInRoot(t *testing.T) {
	t.Parallel()

	s := NewStash(afero.NewMemMapFs(), "/tmp/estash")

	tests := []struct {
		in   string
		want string
	}{
		{"https://esm.sh/../../../../etc/cron.d/x", "/tmp/estash/etc/cron.d/x"},
		{"https://esm.sh/a/../b.js", "/tmp/estash/https:/esm.sh/b.js"},
		{"https://esm.sh/./a//b.js", "/tmp/estash/https:/esm.sh/a/b.js"},
	}

	for _, tt := range tests {
		got := s.Path(tt.in)
		assert.Equal(t, filepath.FromSlash(tt.want), got, tt.in)

		rel, err := filepath.Rel("/tmp/estash", got)
		require.NoError(t, err)
		assert.False(t, strings.HasPrefix(rel, ".."), tt.in)
	}
}

func TestStash_WriteFiles(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	s := NewStash(fs, "/debug")
	const u = "https://esm.sh/lit@2.4.1/decorators.js"

	require.NoError(t, s.WriteMeta(u, &Response{
		URL:    u,
		Status: http.StatusOK,
		OK:     true,
		Header: http.Header{"Content-Type": []string{"application/javascript"}},
	}))
	require.NoError(t, s.WriteContents(u, "export {}"))

	got, err := afero.ReadFile(fs, "/debug/https:/esm.sh/lit@2.4.1/decorators.js.contents")
	require.NoError(t, err)
	assert.Equal(t, "export {}", string(got))

	meta, err := afero.ReadFile(fs, "/debug/https:/esm.sh/lit@2.4.1/decorators.js.res")
	require.NoError(t, err)
	assert.Contains(t, string(meta), `"status": 200`)
	assert.Contains(t, string(meta), `"Content-Type"`)
}
