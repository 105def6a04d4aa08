package markdown

import "strings"

// DemoteHeadings pushes every markdown heading in text down one level by
// prepending a single '#', preserving leading whitespace. Message content
// nests under "# Turn NN" / "## User" headings, so its own headings must
// start at level three.
//
// Operates line by line. Heading-like lines inside fenced code blocks are
// demoted too; known limitation.
func DemoteHeadings(text string) string {
	if text == "" {
		return text
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		stripped := strings.TrimLeft(line, " \t")
		if !strings.HasPrefix(stripped, "#") {
			continue
		}

		indent := line[:len(line)-len(stripped)]
		lines[i] = indent + "#" + stripped
	}

	return strings.Join(lines, "\n")
}
