package bot

import (
	"fmt"
	"strconv"
	"strings"

	"seo_blog_publisher/selection"
)

const (
	callbackPrefix = "select_image_"
	choiceNone     = "none"
)

// encodeSelection builds the inline-button payload for one choice.
func encodeSelection(sessionID string, choice int) string {
	seg := choiceNone
	if choice >= 0 {
		seg = strconv.Itoa(choice)
	}
	return callbackPrefix + sessionID + "_" + seg
}

// parseSelection recovers the session id and choice from a callback
// payload. The id is everything between the fixed prefix and the final
// underscore-separated segment, so an id that itself contains
// underscores still parses deterministically.
func parseSelection(data string) (string, int, error) {
	if !strings.HasPrefix(data, callbackPrefix) {
		return "", 0, fmt.Errorf("not a selection payload: %q", data)
	}
	rest := strings.TrimPrefix(data, callbackPrefix)
	cut := strings.LastIndex(rest, "_")
	if cut <= 0 {
		return "", 0, fmt.Errorf("malformed selection payload: %q", data)
	}
	id, seg := rest[:cut], rest[cut+1:]
	if seg == choiceNone {
		return id, selection.NoFeaturedImage, nil
	}
	n, err := strconv.Atoi(seg)
	if err != nil || n < 0 || n > 2 {
		return "", 0, fmt.Errorf("bad selection choice %q", seg)
	}
	return id, n, nil
}
