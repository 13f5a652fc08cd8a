package httpimport

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"esm.sh http upgraded", "http://esm.sh/lit@2.4.1/decorators.js", "https://esm.sh/lit@2.4.1/decorators.js"},
		{"archive.org subdomain upgraded", "http://esm.archive.org/lit/decorators.js", "https://esm.archive.org/lit/decorators.js"},
		{"nested archive.org subdomain", "http://av.prod.archive.org/js/util/log.js", "https://av.prod.archive.org/js/util/log.js"},
		{"host with port still trusted", "http://esm.sh:80/x.js", "https://esm.sh:80/x.js"},
		{"upper case host", "http://ESM.SH/x.js", "https://ESM.SH/x.js"},
		{"query kept", "http://esm.sh/dayjs?target=es2022", "https://esm.sh/dayjs?target=es2022"},
		{"already https", "https://esm.sh/lit", "https://esm.sh/lit"},
		{"untrusted http host", "http://unpkg.com/lit", "http://unpkg.com/lit"},
		{"bare archive.org is not a subdomain", "http://archive.org/x.js", "http://archive.org/x.js"},
		{"lookalike suffix", "http://evilarchive.org/x.js", "http://evilarchive.org/x.js"},
		{"lookalike esm.sh", "http://esm.sh.evil.com/x.js", "http://esm.sh.evil.com/x.js"},
		{"other scheme", "ftp://esm.sh/x.js", "ftp://esm.sh/x.js"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Normalize(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			again, err := Normalize(got)
			require.NoError(t, err)
			assert.Equal(t, got, again, "Normalize must be idempotent")
		})
	}
}

func TestNormalize_InvalidURL(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "./util.js", "lit", "/abs/path.js", "http://[::1", "https://"} {
		_, err := Normalize(in)
		require.Error(t, err, "input %q", in)
		assert.True(t, errors.Is(err, ErrInvalidURL), "input %q: got %v", in, err)

		var invalid *InvalidURLError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, in, invalid.Raw)
	}
}

func TestUpgrader_CustomHosts(t *testing.T) {
	t.Parallel()

	u := Upgrader{Hosts: []string{"cdn.example.com"}, Suffixes: []string{".example.org"}}

	got, err := u.Normalize("http://cdn.example.com/a.js")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/a.js", got)

	got, err = u.Normalize("http://js.example.org/a.js")
	require.NoError(t, err)
	assert.Equal(t, "https://js.example.org/a.js", got)

	got, err = u.Normalize("http://esm.sh/a.js")
	require.NoError(t, err)
	assert.Equal(t, "http://esm.sh/a.js", got, "default hosts are not trusted by a custom Upgrader")
}
