package platform

import "strings"

// Platform identifies the site a media URL belongs to
type Platform string

const (
	YouTube     Platform = "youtube"
	TikTok      Platform = "tiktok"
	Instagram   Platform = "instagram"
	Facebook    Platform = "facebook"
	Twitter     Platform = "twitter"
	Vimeo       Platform = "vimeo"
	Dailymotion Platform = "dailymotion"
	Pinterest   Platform = "pinterest"
	LinkedIn    Platform = "linkedin"
	Reddit      Platform = "reddit"
	Snapchat    Platform = "snapchat"
	Unknown     Platform = "unknown"
)

// matchers is checked in order; first hit wins
var matchers = []struct {
	substr string
	p      Platform
}{
	{"youtube.com", YouTube},
	{"youtu.be", YouTube},
	{"tiktok.com", TikTok},
	{"instagram.com", Instagram},
	{"facebook.com", Facebook},
	{"twitter.com", Twitter},
	{"x.com", Twitter},
	{"vimeo.com", Vimeo},
	{"dailymotion.com", Dailymotion},
	{"pinterest.com", Pinterest},
	{"linkedin.com", LinkedIn},
	{"reddit.com", Reddit},
	{"snapchat.com", Snapchat},
}

// Detect maps a URL to its platform by substring match. It never fails;
// anything unrecognized is Unknown. The input is not required to be a
// well-formed URL.
func Detect(url string) Platform {
	for _, m := range matchers {
		if strings.Contains(url, m.substr) {
			return m.p
		}
	}
	return Unknown
}
