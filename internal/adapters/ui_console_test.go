package adapters

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pubwatch/internal/types"
)

func TestConsoleUIDocumentAccessors(t *testing.T) {
	ui := NewConsoleUIAdapter(&bytes.Buffer{}, strings.NewReader(""))
	ui.OpenDocument("doc", "", "dependencies:\n  foo: 1.0.0\n", 7)

	text, err := ui.DocumentText("doc")
	require.NoError(t, err)
	assert.Contains(t, text, "foo")

	revision, err := ui.Revision("doc")
	require.NoError(t, err)
	assert.Equal(t, 7, revision)

	_, err = ui.DocumentText("missing")
	require.Error(t, err)
}

func TestConsoleUIRenderAnnotationIdempotent(t *testing.T) {
	out := &bytes.Buffer{}
	ui := NewConsoleUIAdapter(out, strings.NewReader(""))
	ui.OpenDocument("doc", "", "x", 1)

	annotation := types.Annotation{State: types.AnnotationStateOutdated, Label: "2.0.0"}
	ui.RenderAnnotation("doc", 2, annotation)
	ui.RenderAnnotation("doc", 2, annotation)

	rendered := ui.Annotations("doc")
	require.Len(t, rendered, 1)
	assert.Equal(t, annotation, rendered[2])
	assert.Contains(t, out.String(), "2.0.0")
}

func TestConsoleUIClearAnnotations(t *testing.T) {
	ui := NewConsoleUIAdapter(&bytes.Buffer{}, strings.NewReader(""))
	ui.OpenDocument("doc", "", "x", 1)
	ui.RenderAnnotation("doc", 1, types.Annotation{State: types.AnnotationStateUnknown})
	ui.ClearAnnotations("doc")
	assert.Empty(t, ui.Annotations("doc"))
}

func TestConsoleUIPromptInput(t *testing.T) {
	ui := NewConsoleUIAdapter(&bytes.Buffer{}, strings.NewReader("  http  \n"))
	value, ok := ui.PromptInput("package name")
	require.True(t, ok)
	assert.Equal(t, "http", value)
}

func TestConsoleUIPromptInputCancelled(t *testing.T) {
	ui := NewConsoleUIAdapter(&bytes.Buffer{}, strings.NewReader("\n"))
	_, ok := ui.PromptInput("package name")
	assert.False(t, ok)
}

func TestConsoleUIPromptSelect(t *testing.T) {
	ui := NewConsoleUIAdapter(&bytes.Buffer{}, strings.NewReader("2\n"))
	value, ok := ui.PromptSelect([]string{"2.0.0", "1.2.0"}, "pick")
	require.True(t, ok)
	assert.Equal(t, "1.2.0", value)
}

func TestConsoleUIPromptSelectOutOfRange(t *testing.T) {
	ui := NewConsoleUIAdapter(&bytes.Buffer{}, strings.NewReader("9\n"))
	_, ok := ui.PromptSelect([]string{"2.0.0"}, "pick")
	assert.False(t, ok)
}

func TestConsoleUIReplaceLine(t *testing.T) {
	ui := NewConsoleUIAdapter(&bytes.Buffer{}, strings.NewReader(""))
	ui.OpenDocument("doc", "", "dependencies:\n  foo: 1.0.0", 1)

	require.NoError(t, ui.ReplaceLine("doc", 2, "  foo: 2.0.0"))
	text, err := ui.DocumentText("doc")
	require.NoError(t, err)
	assert.Equal(t, "dependencies:\n  foo: 2.0.0", text)

	revision, err := ui.Revision("doc")
	require.NoError(t, err)
	assert.Equal(t, 2, revision)

	require.Error(t, ui.ReplaceLine("doc", 99, "x"))
}

func TestConsoleUIInsertLines(t *testing.T) {
	ui := NewConsoleUIAdapter(&bytes.Buffer{}, strings.NewReader(""))
	ui.OpenDocument("doc", "", "dependencies:\n  foo: 1.0.0", 1)

	require.NoError(t, ui.InsertLines("doc", 2, []string{"  bar: 2.0.0"}))
	text, err := ui.DocumentText("doc")
	require.NoError(t, err)
	assert.Equal(t, "dependencies:\n  foo: 1.0.0\n  bar: 2.0.0", text)
}
