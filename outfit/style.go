package outfit

import "strings"

type styleKeyword struct {
	keyword string
	tags    []string
}

// checked in order, first hit wins
var styleKeywords = []styleKeyword{
	{"可爱", []string{"可爱", "甜美"}},
	{"甜美", []string{"甜美", "可爱"}},
	{"优雅", []string{"优雅", "气质"}},
	{"气质", []string{"气质", "优雅"}},
	{"休闲", []string{"休闲", "慵懒"}},
	{"慵懒", []string{"慵懒", "休闲"}},
	{"帅气", []string{"帅气", "甜酷"}},
	{"酷", []string{"甜酷", "帅气"}},
	{"温柔", []string{"温柔", "优雅"}},
	{"保暖", []string{"保暖", "可爱"}},
}

// ParseStyleRequest maps free text to style tags. It returns nil when no
// keyword occurs in text.
func ParseStyleRequest(text string) []string {
	if text == "" {
		return nil
	}
	for _, sk := range styleKeywords {
		if strings.Contains(text, sk.keyword) {
			tags := make([]string, len(sk.tags))
			copy(tags, sk.tags)
			return tags
		}
	}
	return nil
}
