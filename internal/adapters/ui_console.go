package adapters

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"pubwatch/internal/types"
)

// ConsoleUIAdapter is a reference host for the UI port: documents are
// registered explicitly, annotations are rendered to a writer as they
// settle, and prompts read from a line-oriented input stream. Edits to
// a document backed by a file are flushed back to disk.
type ConsoleUIAdapter struct {
	mu   sync.Mutex
	out  io.Writer
	in   *bufio.Reader
	docs map[string]*consoleDocument
}

type consoleDocument struct {
	path        string
	text        string
	revision    int
	annotations map[int]types.Annotation
}

func NewConsoleUIAdapter(out io.Writer, in io.Reader) *ConsoleUIAdapter {
	return &ConsoleUIAdapter{
		out:  out,
		in:   bufio.NewReader(in),
		docs: map[string]*consoleDocument{},
	}
}

// OpenDocument registers a document snapshot. An empty path marks an
// in-memory document whose edits are not flushed to disk.
func (a *ConsoleUIAdapter) OpenDocument(docID string, path string, text string, revision int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.docs[docID] = &consoleDocument{
		path:        path,
		text:        text,
		revision:    revision,
		annotations: map[int]types.Annotation{},
	}
}

func (a *ConsoleUIAdapter) DocumentText(docID string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	doc, err := a.document(docID)
	if err != nil {
		return "", err
	}
	return doc.text, nil
}

func (a *ConsoleUIAdapter) Revision(docID string) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	doc, err := a.document(docID)
	if err != nil {
		return 0, err
	}
	return doc.revision, nil
}

func (a *ConsoleUIAdapter) RenderAnnotation(docID string, line int, annotation types.Annotation) {
	a.mu.Lock()
	defer a.mu.Unlock()
	doc, err := a.document(docID)
	if err != nil {
		return
	}
	doc.annotations[line] = annotation
	fmt.Fprintf(a.out, "%s line %d: %s %s\n", annotationIcon(annotation.State), line, annotation.State, annotation.Label)
}

func (a *ConsoleUIAdapter) ClearAnnotations(docID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	doc, err := a.document(docID)
	if err != nil {
		return
	}
	doc.annotations = map[int]types.Annotation{}
}

// Annotations returns a copy of the document's rendered annotations.
func (a *ConsoleUIAdapter) Annotations(docID string) map[int]types.Annotation {
	a.mu.Lock()
	defer a.mu.Unlock()
	doc, err := a.document(docID)
	if err != nil {
		return nil
	}
	annotations := make(map[int]types.Annotation, len(doc.annotations))
	for line, annotation := range doc.annotations {
		annotations[line] = annotation
	}
	return annotations
}

func (a *ConsoleUIAdapter) Notify(message string) {
	log.Warn().Msg(message)
}

func (a *ConsoleUIAdapter) PromptInput(prompt string) (string, bool) {
	fmt.Fprintf(a.out, "%s: ", prompt)
	line, err := a.in.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	value := strings.TrimSpace(line)
	if value == "" {
		return "", false
	}
	return value, true
}

func (a *ConsoleUIAdapter) PromptSelect(options []string, prompt string) (string, bool) {
	if len(options) == 0 {
		return "", false
	}
	fmt.Fprintln(a.out, prompt)
	for i, option := range options {
		fmt.Fprintf(a.out, "  %d) %s\n", i+1, option)
	}
	value, ok := a.PromptInput("choice")
	if !ok {
		return "", false
	}
	choice, err := strconv.Atoi(value)
	if err != nil || choice < 1 || choice > len(options) {
		return "", false
	}
	return options[choice-1], true
}

func (a *ConsoleUIAdapter) EditFile(path string) error {
	log.Info().Str("path", path).Msg("manifest updated")
	return nil
}

func (a *ConsoleUIAdapter) ReplaceLine(docID string, line int, text string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	doc, err := a.document(docID)
	if err != nil {
		return err
	}
	lines := strings.Split(doc.text, "\n")
	if line < 1 || line > len(lines) {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("line %d out of range", line))
	}
	lines[line-1] = text
	return a.updateDocument(doc, strings.Join(lines, "\n"))
}

func (a *ConsoleUIAdapter) InsertLines(docID string, afterLine int, inserted []string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	doc, err := a.document(docID)
	if err != nil {
		return err
	}
	lines := strings.Split(doc.text, "\n")
	if afterLine < 0 || afterLine > len(lines) {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("line %d out of range", afterLine))
	}
	updated := make([]string, 0, len(lines)+len(inserted))
	updated = append(updated, lines[:afterLine]...)
	updated = append(updated, inserted...)
	updated = append(updated, lines[afterLine:]...)
	return a.updateDocument(doc, strings.Join(updated, "\n"))
}

func (a *ConsoleUIAdapter) document(docID string) (*consoleDocument, error) {
	doc, ok := a.docs[docID]
	if !ok {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("unknown document: %s", docID))
	}
	return doc, nil
}

func (a *ConsoleUIAdapter) updateDocument(doc *consoleDocument, text string) error {
	doc.text = text
	doc.revision++
	if doc.path == "" {
		return nil
	}
	if err := os.WriteFile(doc.path, []byte(text), 0o644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write document").
			WithCause(err)
	}
	return nil
}

func annotationIcon(state types.AnnotationState) string {
	switch state {
	case types.AnnotationStateUpToDate:
		return "✓"
	case types.AnnotationStateOutdated:
		return "↑"
	default:
		return "?"
	}
}
