package content

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	// #tag, at the start of the text or after whitespace
	tagPattern = regexp.MustCompile(`(?:^|\s)#([\p{L}\p{N}_-]+)`)

	// @{user@pod} or @{Display Name; user@pod}
	mentionPattern = regexp.MustCompile(`@\{(?:[^;{}]*;\s*)?([^\s;{}]+@[^\s;{}]+)\}`)
)

// Tags returns the distinct hashtags of text, lowercased, in order of appearance.
func Tags(text string) []string {
	var tags []string
	seen := make(map[string]bool)
	for _, m := range tagPattern.FindAllStringSubmatch(text, -1) {
		tag := strings.ToLower(m[1])
		if seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}

// MentionedHandles returns the distinct diaspora handles mentioned in text,
// lowercased, in order of appearance.
func MentionedHandles(text string) []string {
	var handles []string
	seen := make(map[string]bool)
	for _, m := range mentionPattern.FindAllStringSubmatch(text, -1) {
		handle := strings.ToLower(m[1])
		if seen[handle] {
			continue
		}
		seen[handle] = true
		handles = append(handles, handle)
	}
	return handles
}

// Title returns the first non-empty line of text without heading markers,
// cut to maxRunes with an ellipsis.
func Title(text string, maxRunes int) string {
	var line string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(l), "#")); l != "" {
			line = l
			break
		}
	}
	if utf8.RuneCountInString(line) <= maxRunes {
		return line
	}
	runes := []rune(line)
	return strings.TrimSpace(string(runes[:maxRunes-3])) + "..."
}
