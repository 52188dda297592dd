package extractor

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/vidgrab/vidgrab/internal/ytdlp"
)

// defaultLadder is served when the tool reports no formats at all.
func defaultLadder() []QualityOption {
	return []QualityOption{
		{Quality: "best", FormatID: "best", Ext: "mp4"},
		{Quality: "audio", FormatID: "bestaudio", Ext: "mp3"},
	}
}

// buildLadder groups formats by vertical resolution, keeps one encoding
// per height (larger filesize wins, ties go to the later entry), sorts the
// heights descending, and brackets the result with synthetic best/audio
// entries. Formats with no resolvable height are discarded.
func buildLadder(formats []ytdlp.Format) []QualityOption {
	if len(formats) == 0 {
		return defaultLadder()
	}

	byHeight := make(map[int]ytdlp.Format)
	for _, f := range formats {
		h := f.Height
		if h <= 0 {
			h = heightFromResolution(f.Resolution)
		}
		if h <= 0 {
			continue
		}
		if cur, ok := byHeight[h]; !ok || f.Filesize >= cur.Filesize {
			byHeight[h] = f
		}
	}

	heights := make([]int, 0, len(byHeight))
	for h := range byHeight {
		heights = append(heights, h)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(heights)))

	ladder := make([]QualityOption, 0, len(heights)+2)
	if len(heights) > 0 {
		ladder = append(ladder, QualityOption{Quality: "best", FormatID: "best", Ext: "mp4"})
	}
	for _, h := range heights {
		f := byHeight[h]
		ext := f.Ext
		if ext == "" {
			ext = "mp4"
		}
		ladder = append(ladder, QualityOption{
			Quality:  fmt.Sprintf("%dp", h),
			FormatID: f.FormatID,
			Ext:      ext,
		})
	}
	ladder = append(ladder, QualityOption{Quality: "audio", FormatID: "bestaudio", Ext: "mp3"})
	return ladder
}

// heightFromResolution parses the H out of a "WxH" resolution string.
// Returns 0 when the string doesn't carry one ("audio only", "").
func heightFromResolution(res string) int {
	_, after, ok := strings.Cut(res, "x")
	if !ok {
		return 0
	}
	h, err := strconv.Atoi(strings.TrimSpace(after))
	if err != nil {
		return 0
	}
	return h
}
