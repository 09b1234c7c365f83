package entry

// Entry is one captured record in a project's tracking document.
type Entry struct {
	// ID is a deterministic hash of the entry's title at creation time
	ID string `json:"id" yaml:"id"`

	// Seq is the per-document sequence number, assigned at finalize time
	Seq int `json:"seq" yaml:"seq"`

	// Title is the heading text supplied by the user
	Title string `json:"title" yaml:"title"`

	// Body is the free-text content below the property block
	Body string `json:"body,omitempty" yaml:"body,omitempty"`

	// TemplateKey identifies which capture flow produced this entry
	TemplateKey string `json:"template_key,omitempty" yaml:"template_key,omitempty"`

	// Heading is the tracking-document section the entry is filed under
	Heading string `json:"heading" yaml:"heading"`
}

// Property keys used in the tracking document.
const (
	PropID  = "id"
	PropSeq = "seq"
)
