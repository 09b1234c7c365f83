package entry

import (
	"fmt"
	"regexp"
	"strings"
)

// LinkPattern matches a bracketed link pair [[target][label]]. The match is
// intentionally looser than the links produced by FormatLink: any target
// scheme renders, not just id:. Neither part may contain "]".
var LinkPattern = regexp.MustCompile(`\[\[([^\]]+)\]\[([^\]]+)\]\]`)

// idTargetPattern matches the target form produced by FormatLink.
var idTargetPattern = regexp.MustCompile(`^id:([0-9a-f]+)$`)

// SanitizeLabel makes label safe to embed as the display text of a link.
// "]" would terminate the bracket pair early and produce a link that never
// re-parses, so each one is replaced with ")".
func SanitizeLabel(label string) string {
	return strings.ReplaceAll(label, "]", ")")
}

// FormatLink renders the wire format written back into source buffers:
// (#<seq>) [[id:<hexid>][<label>]]. The label is sanitized.
func FormatLink(seq int, id, label string) string {
	return fmt.Sprintf("(#%d) [[id:%s][%s]]", seq, id, SanitizeLabel(label))
}

// Link is one parsed bracket pair in a buffer.
type Link struct {
	Start  int    // byte offset of the opening "[["
	End    int    // byte offset just past the closing "]]"
	Target string // first bracketed group
	Label  string // second bracketed group
}

// ID returns the hex id when the target uses the id: scheme, else "".
func (l Link) ID() string {
	if m := idTargetPattern.FindStringSubmatch(l.Target); m != nil {
		return m[1]
	}
	return ""
}

// ScanLinks returns all non-overlapping link pairs in text, in order.
func ScanLinks(text string) []Link {
	matches := LinkPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}
	links := make([]Link, len(matches))
	for i, m := range matches {
		links[i] = Link{
			Start:  m[0],
			End:    m[1],
			Target: text[m[2]:m[3]],
			Label:  text[m[4]:m[5]],
		}
	}
	return links
}

// MatchLinkAt parses a link pair anchored exactly at offset in text.
// Returns false when the text at offset no longer matches the pattern.
func MatchLinkAt(text string, offset int) (Link, bool) {
	if offset < 0 || offset > len(text) {
		return Link{}, false
	}
	m := LinkPattern.FindStringSubmatchIndex(text[offset:])
	if m == nil || m[0] != 0 {
		return Link{}, false
	}
	return Link{
		Start:  offset,
		End:    offset + m[1],
		Target: text[offset+m[2] : offset+m[3]],
		Label:  text[offset+m[4] : offset+m[5]],
	}, true
}
