package pkgmeta

import "strings"

// A FoldFunc turns the physical lines of one field into its logical value.
// raw[0] is the text following the colon of the header line; the remaining
// elements are continuation lines as read, line terminators included.
type FoldFunc func(raw []string) string

// FoldGeneric trims every physical line and joins them with a single space.
// Internal line breaks are not preserved.
func FoldGeneric(raw []string) string {
	parts := make([]string, len(raw))
	for i, line := range raw {
		parts[i] = strings.TrimSpace(line)
	}
	return strings.Join(parts, " ")
}

// FoldDescription unfolds the description field.
//
// Continuation lines prefixed with FoldSpaces or FoldPipe lose exactly that
// 8-character prefix and keep the rest verbatim, so FoldPipe lines become
// empty lines. Any other line, including the first one, is trimmed and
// terminated with a newline.
func FoldDescription(raw []string) string {
	var b strings.Builder
	for _, line := range raw {
		switch {
		case strings.HasPrefix(line, FoldSpaces), strings.HasPrefix(line, FoldPipe):
			b.WriteString(line[len(FoldSpaces):])
		default:
			b.WriteString(strings.TrimSpace(line))
			b.WriteByte('\n')
		}
	}
	return b.String()
}
