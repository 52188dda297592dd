package qr

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestPNG(t *testing.T) {
	png, err := PNG("https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)
	require.Greater(t, len(png), 4)
	assert.Equal(t, pngMagic, png[:4])
}

func TestDataURI(t *testing.T) {
	uri, err := DataURI("https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, "data:image/png;base64,"))
	require.NoError(t, err)
	assert.Equal(t, pngMagic, raw[:4])
}
