package track

import "regexp"

// Section represents a parsed heading boundary in the tracking document.
type Section struct {
	Level        int    // heading level, 1-6
	Title        string // heading text without the hashes
	HeaderStart  int    // byte offset of header start
	HeaderEnd    int    // byte offset of header line end (excluding \n)
	ContentStart int    // byte offset where content starts
	ContentEnd   int    // byte offset where content ends (next header or EOF)
}

// headerPattern matches markdown headers (h1-h6) at the start of a line.
// Trailing spaces/tabs on the header line are trimmed by the group.
var headerPattern = regexp.MustCompile(`(?m)^(#{1,6})\s+([^\n]+?)[ \t]*$`)

// fencePattern matches fenced code block delimiters (``` or ~~~) at the
// start of a line, allowing 0-3 spaces of indentation per CommonMark.
var fencePattern = regexp.MustCompile("(?m)^[ ]{0,3}(`{3,}|~{3,})")

// fencedRanges returns byte offset ranges [start, end) for fenced code
// blocks. A closing fence must use the same character and be at least as
// long as the opening fence.
func fencedRanges(text string) [][2]int {
	matches := fencePattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) < 2 {
		return nil
	}

	var ranges [][2]int
	var openChar byte
	var openLen int
	var openStart int
	inFence := false

	for _, match := range matches {
		fenceChars := text[match[2]:match[3]]
		char := fenceChars[0]
		fenceLen := len(fenceChars)

		if !inFence {
			openChar = char
			openLen = fenceLen
			openStart = match[0]
			inFence = true
		} else if char == openChar && fenceLen >= openLen {
			ranges = append(ranges, [2]int{openStart, match[1]})
			inFence = false
		}
	}
	return ranges
}

// insideFence returns true if byte offset pos falls inside any fenced range.
func insideFence(pos int, ranges [][2]int) bool {
	for _, r := range ranges {
		if pos >= r[0] && pos < r[1] {
			return true
		}
	}
	return false
}

// ParseSections finds all heading boundaries in text, skipping headers
// inside fenced code blocks. Returns nil when there are none.
func ParseSections(text string) []Section {
	allMatches := headerPattern.FindAllStringSubmatchIndex(text, -1)
	if len(allMatches) == 0 {
		return nil
	}

	fences := fencedRanges(text)
	matches := allMatches
	if len(fences) > 0 {
		matches = make([][]int, 0, len(allMatches))
		for _, m := range allMatches {
			if !insideFence(m[0], fences) {
				matches = append(matches, m)
			}
		}
		if len(matches) == 0 {
			return nil
		}
	}

	sections := make([]Section, len(matches))
	for i, match := range matches {
		// match indices: [fullStart, fullEnd, hashStart, hashEnd, titleStart, titleEnd]
		headerStart := match[0]
		headerEnd := match[1]

		contentStart := headerEnd
		if contentStart < len(text) && text[contentStart] == '\n' {
			contentStart++
		}

		var contentEnd int
		if i+1 < len(matches) {
			contentEnd = matches[i+1][0]
		} else {
			contentEnd = len(text)
		}

		sections[i] = Section{
			Level:        match[3] - match[2],
			Title:        text[match[4]:match[5]],
			HeaderStart:  headerStart,
			HeaderEnd:    headerEnd,
			ContentStart: contentStart,
			ContentEnd:   contentEnd,
		}
	}
	return sections
}
