package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vidgrab/vidgrab/internal/ytdlp"
)

func TestBuildLadderSortsAndBrackets(t *testing.T) {
	ladder := buildLadder([]ytdlp.Format{
		{FormatID: "18", Ext: "mp4", Height: 360, Filesize: 10},
		{FormatID: "22", Ext: "mp4", Height: 720, Filesize: 50},
		{FormatID: "137", Ext: "webm", Height: 1080, Filesize: 90},
	})

	require.Len(t, ladder, 5, "N distinct heights yield N+2 entries")
	assert.Equal(t, "best", ladder[0].Quality)
	assert.Equal(t, "1080p", ladder[1].Quality)
	assert.Equal(t, "webm", ladder[1].Ext)
	assert.Equal(t, "720p", ladder[2].Quality)
	assert.Equal(t, "360p", ladder[3].Quality)
	assert.Equal(t, "audio", ladder[4].Quality)
	assert.Equal(t, "bestaudio", ladder[4].FormatID)
}

func TestBuildLadderKeepsLargerFilesize(t *testing.T) {
	ladder := buildLadder([]ytdlp.Format{
		{FormatID: "small", Ext: "mp4", Height: 720, Filesize: 10},
		{FormatID: "large", Ext: "mp4", Height: 720, Filesize: 90},
		{FormatID: "mid", Ext: "mp4", Height: 720, Filesize: 50},
	})

	require.Len(t, ladder, 3)
	assert.Equal(t, "large", ladder[1].FormatID)
}

func TestBuildLadderTieGoesToLastSeen(t *testing.T) {
	ladder := buildLadder([]ytdlp.Format{
		{FormatID: "first", Ext: "mp4", Height: 480, Filesize: 40},
		{FormatID: "second", Ext: "mp4", Height: 480, Filesize: 40},
	})

	require.Len(t, ladder, 3)
	assert.Equal(t, "second", ladder[1].FormatID)
}

func TestBuildLadderResolutionFallback(t *testing.T) {
	ladder := buildLadder([]ytdlp.Format{
		{FormatID: "hls-1", Ext: "mp4", Resolution: "1280x720"},
	})

	require.Len(t, ladder, 3)
	assert.Equal(t, "720p", ladder[1].Quality)
	assert.Equal(t, "hls-1", ladder[1].FormatID)
}

func TestBuildLadderDiscardsHeightless(t *testing.T) {
	// audio-only formats carry no height and no WxH resolution; with no
	// numeric heights present there is no synthetic best entry either
	ladder := buildLadder([]ytdlp.Format{
		{FormatID: "140", Ext: "m4a", Resolution: "audio only"},
		{FormatID: "139", Ext: "m4a"},
	})

	require.Len(t, ladder, 1)
	assert.Equal(t, "audio", ladder[0].Quality)
}

func TestBuildLadderNoFormats(t *testing.T) {
	assert.Equal(t, defaultLadder(), buildLadder(nil))
}

func TestBuildLadderDefaultsExt(t *testing.T) {
	ladder := buildLadder([]ytdlp.Format{
		{FormatID: "x", Height: 240},
	})

	require.Len(t, ladder, 3)
	assert.Equal(t, "mp4", ladder[1].Ext)
}

func TestHeightFromResolution(t *testing.T) {
	assert.Equal(t, 1080, heightFromResolution("1920x1080"))
	assert.Equal(t, 0, heightFromResolution("audio only"))
	assert.Equal(t, 0, heightFromResolution(""))
	assert.Equal(t, 0, heightFromResolution("1920x"))
}
