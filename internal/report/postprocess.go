package report

import (
	"regexp"
	"strings"
)

var (
	fenceRe       = regexp.MustCompile("(?s)```.*?```")
	preambleRe    = regexp.MustCompile(`(?is)here is a professional summary.*?impact\.\s*`)
	bulletRe      = regexp.MustCompile(`(?m)^[ \t]*[*-][ \t]+`)
	headingRe     = regexp.MustCompile(`(?m)^[ \t]*#{1,6}[ \t]*`)
	numberedRe    = regexp.MustCompile(`(?m)^[ \t]*(\d+\.[ \t]+)+`)
	emptyBulletRe = regexp.MustCompile(`(?m)^•[ \t]*$`)
	blankRunRe    = regexp.MustCompile(`\n{3,}`)
)

// PostProcess turns raw model output into displayable plain text: code
// fences and emphasis markers are stripped, bullet markers become a
// single glyph, numbered section prefixes and the known boilerplate
// preamble and rule lines are dropped, and runs of blank lines collapse
// to one. Running it on already-processed text is a no-op.
func PostProcess(raw string) string {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = fenceRe.ReplaceAllString(text, "")
	text = preambleRe.ReplaceAllString(text, "")
	text = bulletRe.ReplaceAllString(text, "• ")
	text = headingRe.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "*", "")
	text = strings.ReplaceAll(text, "_", "")
	text = strings.ReplaceAll(text, "---", "")
	// Stripping emphasis can expose a fresh "- " or "1. " at line start.
	text = bulletRe.ReplaceAllString(text, "• ")
	text = numberedRe.ReplaceAllString(text, "")
	text = emptyBulletRe.ReplaceAllString(text, "")
	text = blankRunRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
