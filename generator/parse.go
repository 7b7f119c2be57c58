package generator

import (
	"regexp"
	"strings"
)

var (
	sapoLabelRe = regexp.MustCompile(`(?im)^[ \t]*sapo:[ \t]*\r?\n?`)
	metaTitleRe = regexp.MustCompile(`(?im)^1\..*?meta title.*?:\s*(.*)$`)
	metaDescRe  = regexp.MustCompile(`(?im)^2\..*?meta description.*?:\s*(.*)$`)
	headingRe   = regexp.MustCompile(`(?m)^#\s+(.+)$`)
)

// Parse extracts the structured article fields from one raw model
// response. The model's adherence to the requested structure is not
// guaranteed, so every field degrades to its fallback instead of failing:
// a malformed response still yields a publishable draft.
func Parse(raw, focusKeyword string) Article {
	// The model sometimes uses em-dashes decoratively; normalize them to
	// hr markup so the post-publish cleanup can strip them in one place.
	raw = strings.ReplaceAll(raw, "—", "<hr>")
	raw = sapoLabelRe.ReplaceAllString(raw, "")

	art := Article{
		FocusKeyword: focusKeyword,
		PostTitle:    focusKeyword,
		MetaTitle:    focusKeyword,
	}
	if m := metaTitleRe.FindStringSubmatch(raw); m != nil {
		if v := trimMetaValue(m[1]); v != "" {
			art.MetaTitle = v
		}
	}
	if m := metaDescRe.FindStringSubmatch(raw); m != nil {
		art.MetaDescription = trimMetaValue(m[1])
	}

	if loc := headingRe.FindStringSubmatchIndex(raw); loc != nil {
		art.PostTitle = trimMetaValue(raw[loc[2]:loc[3]])
		// Everything up to and including the heading line is front-matter.
		art.Body = strings.TrimLeft(raw[loc[1]:], "\r\n")
	} else {
		art.Body = strings.TrimSpace(raw)
	}
	return art
}

func trimMetaValue(s string) string {
	return strings.Trim(strings.TrimSpace(s), "* ")
}
