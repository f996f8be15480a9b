package topics

import (
	"regexp"
	"strings"
)

// splitStrategy says how a raw model reply is cut into topic segments.
type splitStrategy int

const (
	// strategyBulleted splits on line-leading bullet glyphs.
	strategyBulleted splitStrategy = iota
	// strategyUnbulleted splits on line breaks and sentence ends, for
	// replies where the model ignored the bullet instruction.
	strategyUnbulleted
)

func (s splitStrategy) String() string {
	if s == strategyBulleted {
		return "bulleted"
	}
	return "unbulleted"
}

var (
	// A run of bullet glyphs (hyphen, asterisk, •, ‣, ◦, ⁃) at a line start,
	// plus whatever whitespace follows it.
	bulletSplitter = regexp.MustCompile(`(?m)(?:^|\n)[*\-\x{2022}\x{2023}\x{25E6}\x{2043}]+\s*`)
	// Line breaks, carriage returns, or a period followed by whitespace.
	sentenceSplitter = regexp.MustCompile(`\n|\r|\.\s+`)

	boldPhrase = regexp.MustCompile(`\*\*(.*?)\*\*`)
	// Topic and explanation separated by the first colon, hyphen or en dash.
	// Dot does not cross newlines, so multi-line segments stay unsplit.
	topicSeparator = regexp.MustCompile(`^(.*?)(:|-|–)\s*(.*)$`)
	emphasisRun    = regexp.MustCompile(`\*{2,}`)
)

// Normalize turns a model's free-form Markdown-ish topic list into
// canonical bullets: one "- **Topic**: explanation" (or "- text" when no
// separator is present) per segment, separated by blank lines. Segment
// order follows the input. Normalize never fails; empty input yields "".
func Normalize(raw string) string {
	strategy, segments := selectStrategy(raw)
	if strategy == strategyUnbulleted {
		segments = splitSegments(raw, strategyUnbulleted)
	}

	lines := make([]string, 0, len(segments))
	for _, seg := range segments {
		lines = append(lines, formatSegment(seg))
	}
	return strings.Join(lines, "\n\n")
}

// selectStrategy picks the bulleted strategy when bullet splitting yields
// more than one segment. The bulleted segments are returned so the caller
// does not split twice.
func selectStrategy(raw string) (splitStrategy, []string) {
	segments := splitSegments(raw, strategyBulleted)
	if len(segments) > 1 {
		return strategyBulleted, segments
	}
	return strategyUnbulleted, nil
}

// splitSegments cuts raw with the given strategy, trimming each piece and
// dropping empty ones.
func splitSegments(raw string, strategy splitStrategy) []string {
	splitter := bulletSplitter
	if strategy == strategyUnbulleted {
		splitter = sentenceSplitter
	}

	var out []string
	for _, part := range splitter.Split(raw, -1) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// formatSegment renders one segment as a Markdown bullet.
func formatSegment(seg string) string {
	formatted := boldPhrase.ReplaceAllStringFunc(seg, func(m string) string {
		inner := boldPhrase.FindStringSubmatch(m)[1]
		return "**" + strings.TrimSpace(inner) + "**"
	})

	if m := topicSeparator.FindStringSubmatch(formatted); m != nil {
		topic := stripEmphasis(m[1])
		explanation := stripEmphasis(m[3])
		return "- **" + topic + "**: " + explanation
	}
	return "- " + stripEmphasis(formatted)
}

func stripEmphasis(s string) string {
	return strings.TrimSpace(emphasisRun.ReplaceAllString(s, ""))
}
