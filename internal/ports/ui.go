package ports

import "pubwatch/internal/types"

// UIPort is the host surface the reconciliation engine talks to: a
// pull-based document snapshot, incremental per-line annotation
// rendering, non-blocking notifications, and modal prompts. Rendering
// must be idempotent per line; Notify must never block.
type UIPort interface {
	DocumentText(docID string) (string, error)
	Revision(docID string) (int, error)

	RenderAnnotation(docID string, line int, annotation types.Annotation)
	ClearAnnotations(docID string)
	Notify(message string)

	PromptInput(prompt string) (string, bool)
	PromptSelect(options []string, prompt string) (string, bool)

	EditFile(path string) error
	ReplaceLine(docID string, line int, text string) error
	InsertLines(docID string, afterLine int, lines []string) error
}
