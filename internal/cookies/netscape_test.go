package cookies

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cookiesTxt = "# Netscape HTTP Cookie File\n" +
	".youtube.com\tTRUE\t/\tTRUE\t4102444800\tSAPISID\tabc123\n" +
	"#HttpOnly_.youtube.com\tTRUE\t/\tTRUE\t4102444800\tSID\tsid-value\n" +
	".youtube.com\tTRUE\t/\tFALSE\t946684800\tOLD\texpired\n" +
	".example.com\tTRUE\t/\tFALSE\t0\tOTHER\tx\n" +
	"malformed line\n"

func TestParseNetscape(t *testing.T) {
	cs, err := ParseNetscape(strings.NewReader(cookiesTxt))
	require.NoError(t, err)
	require.Len(t, cs, 4)

	assert.Equal(t, "SAPISID", cs[0].Name)
	assert.True(t, cs[0].Secure)
	assert.False(t, cs[0].HttpOnly)
	assert.Equal(t, "SID", cs[1].Name)
	assert.True(t, cs[1].HttpOnly)
	assert.True(t, cs[3].Expires.IsZero())
}

func TestHeaderFor(t *testing.T) {
	cs, err := ParseNetscape(strings.NewReader(cookiesTxt))
	require.NoError(t, err)

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "SAPISID=abc123; SID=sid-value", HeaderFor(cs, "music.youtube.com", now))
	assert.Equal(t, "OTHER=x", HeaderFor(cs, "example.com", now))
	assert.Empty(t, HeaderFor(cs, "notyoutube.com", now))
}

func TestLoadFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/home/u/cookies.txt", []byte(cookiesTxt), 0o600))

	h, err := LoadFile(fs, "/home/u/cookies.txt", "music.youtube.com")
	require.NoError(t, err)
	assert.Contains(t, h, "SAPISID=abc123")

	_, err = LoadFile(fs, "/missing.txt", "music.youtube.com")
	assert.Error(t, err)
}
