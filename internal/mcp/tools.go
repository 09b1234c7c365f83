package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

var captureToolDef = mcp.NewTool("snitch_capture",
	mcp.WithDescription("Capture a region of a source file as a tracked entry. The region is rewritten in place into a link to the entry, and the entry is filed under the template's heading in the project's tracking document."),
	mcp.WithString("file",
		mcp.Required(),
		mcp.Description("Path to the source file containing the region to capture."),
	),
	mcp.WithNumber("start",
		mcp.Description("Byte offset where the captured region starts."),
	),
	mcp.WithNumber("end",
		mcp.Description("Byte offset where the captured region ends (exclusive)."),
	),
	mcp.WithNumber("line",
		mcp.Description("1-based line number to capture instead of a byte range."),
	),
	mcp.WithString("template",
		mcp.Required(),
		mcp.Description("Capture template key (e.g. \"nt\" for tasks, \"ni\" for issues)."),
	),
	mcp.WithString("title",
		mcp.Required(),
		mcp.Description("Entry title. The stable entry id is derived from it."),
	),
	mcp.WithString("body",
		mcp.Description("Optional body text stored with the entry."),
	),
)

var entriesToolDef = mcp.NewTool("snitch_entries",
	mcp.WithDescription("List the entries recorded in the tracking document of the project containing a path."),
	mcp.WithString("path",
		mcp.Required(),
		mcp.Description("Any path inside the project."),
	),
	mcp.WithString("heading",
		mcp.Description("Restrict the listing to one capture destination heading."),
	),
)

var renderToolDef = mcp.NewTool("snitch_render",
	mcp.WithDescription("Return a file's text with recognized entry links collapsed to their labels, the way the overlay engine presents them."),
	mcp.WithString("file",
		mcp.Required(),
		mcp.Description("Path to the file to render."),
	),
	mcp.WithNumber("cursor",
		mcp.Description("Byte offset of the cursor; the link under it is shown raw. Omit for no cursor."),
	),
)

var locateToolDef = mcp.NewTool("snitch_locate",
	mcp.WithDescription("Look up which project and tracking document an entry id belongs to, using the cross-project index."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Stable entry id, with or without the \"id:\" prefix."),
	),
)

var exportToolDef = mcp.NewTool("snitch_export",
	mcp.WithDescription("Export a project's entries to a file as json, yaml, md, or html."),
	mcp.WithString("path",
		mcp.Required(),
		mcp.Description("Any path inside the project."),
	),
	mcp.WithString("format",
		mcp.Required(),
		mcp.Description("Output format: json, yaml, md, or html."),
	),
	mcp.WithString("heading",
		mcp.Description("Restrict the export to one capture destination heading."),
	),
	mcp.WithString("out",
		mcp.Description("Output file path. Defaults to the tracking file with the format's extension."),
	),
)
