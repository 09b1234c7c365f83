package ops

import (
	"database/sql"
	"strconv"
	"strings"

	"github.com/snitch-dev/snitch/internal/buffer"
	"github.com/snitch-dev/snitch/internal/capture"
	"github.com/snitch-dev/snitch/internal/config"
	"github.com/snitch-dev/snitch/internal/entry"
	"github.com/snitch-dev/snitch/internal/errors"
	"github.com/snitch-dev/snitch/internal/index"
	"github.com/snitch-dev/snitch/internal/project"
	"github.com/snitch-dev/snitch/internal/track"
)

// CaptureInput contains parameters for the Capture operation. The selection
// is either an explicit byte range [Start, End) or, when Line is set, that
// whole line.
type CaptureInput struct {
	File        string
	Start       int
	End         int
	Line        int // 1-based; used when Start == End
	TemplateKey string
	Title       string
	Body        string
}

// CaptureOutput contains the result of the Capture operation.
type CaptureOutput struct {
	ID           string `json:"id"`
	Seq          int    `json:"seq"`
	Link         string `json:"link"`
	Label        string `json:"label"`
	Heading      string `json:"heading"`
	TrackingFile string `json:"tracking_file"`
	ProjectRoot  string `json:"project_root"`
}

// Capture runs the whole pipeline for one-shot callers (CLI, MCP): resolve
// the project, open the tracking document, bind a session over the selected
// region, create the entry, finalize (id, seq, link rewrite), and write
// both files back. db may be nil to skip index recording.
func Capture(db *sql.DB, cfg *config.Config, in CaptureInput) (*CaptureOutput, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, errors.NewInvalidRequest("title is required")
	}
	if in.File == "" {
		return nil, errors.NewInvalidRequest("file is required")
	}
	tpl, ok := cfg.TemplateByKey(in.TemplateKey)
	if !ok {
		return nil, errors.NewInvalidRequest("unknown template key: " + in.TemplateKey)
	}

	resolver := project.Resolver{SubmoduleRoots: cfg.SubmoduleRoots}
	root, err := resolver.Resolve(in.File)
	if err != nil {
		return nil, err
	}

	doc, err := track.Open(trackingPath(root, cfg))
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	buf, err := buffer.Open(in.File)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	registry := buffer.NewRegistry()
	registry.Add(buf)

	start, end := in.Start, in.End
	if start == end && in.Line > 0 {
		start, end, err = lineRange(buf.Text(), in.Line)
		if err != nil {
			return nil, err
		}
	}

	label, err := buf.Slice(start, end)
	if err != nil {
		return nil, err
	}

	ctrl := capture.NewController(registry, cfg.CaptureKeyPrefix)
	sess := ctrl.Start(buf, start, end, in.TemplateKey)
	if sess == nil {
		return nil, errors.NewInvalidRequest("selection is empty")
	}

	h := doc.FindOrCreateHeading(tpl.Heading, in.Title)
	if in.Body != "" {
		if err := doc.SetBody(h, in.Body); err != nil {
			return nil, err
		}
	}

	if err := ctrl.HandleFinalize(doc, h, in.TemplateKey); err != nil {
		return nil, err
	}
	if err := buf.Save(); err != nil {
		return nil, errors.NewInternal(err)
	}

	id, _ := doc.GetProperty(h, entry.PropID)
	seqStr, _ := doc.GetProperty(h, entry.PropSeq)
	seq, _ := strconv.Atoi(seqStr)

	out := &CaptureOutput{
		ID:           id,
		Seq:          seq,
		Link:         entry.FormatLink(seq, id, label),
		Label:        label,
		Heading:      tpl.Heading,
		TrackingFile: doc.Path(),
		ProjectRoot:  root,
	}

	if db != nil {
		err := index.Record(db, &index.Location{
			ID:           id,
			ProjectRoot:  root,
			TrackingFile: doc.Path(),
			Heading:      tpl.Heading,
			Title:        in.Title,
			Seq:          seq,
			Session:      sess.ID(),
		})
		if err != nil {
			return nil, err
		}
	}

	return out, nil
}

// lineRange returns the byte range of the 1-based line, excluding the
// trailing newline.
func lineRange(text string, line int) (int, int, error) {
	start := 0
	for n := 1; ; n++ {
		end := strings.IndexByte(text[start:], '\n')
		if end < 0 {
			end = len(text)
		} else {
			end += start
		}
		if n == line {
			return start, end, nil
		}
		if end == len(text) {
			return 0, 0, errors.NewInvalidRequest("line " + strconv.Itoa(line) + " is past the end of the file")
		}
		start = end + 1
	}
}
