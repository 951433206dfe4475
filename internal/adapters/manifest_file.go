package adapters

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"pubwatch/internal/types"
)

const ManifestFilename = "pubspec.yaml"

// defaultWalkDepth is how many parent directories Locate climbs before
// giving up.
const defaultWalkDepth = 5

const defaultEntryIndent = "  "

// ManifestFileAdapter locates and edits manifest files on disk.
type ManifestFileAdapter struct {
	Filename string
	MaxDepth int
}

func NewManifestFileAdapter() ManifestFileAdapter {
	return ManifestFileAdapter{
		Filename: ManifestFilename,
		MaxDepth: defaultWalkDepth,
	}
}

// Locate walks upward from startDir looking for the manifest file.
func (a ManifestFileAdapter) Locate(startDir string) (string, error) {
	dir := strings.TrimSpace(startDir)
	if dir == "" {
		dir = "."
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to resolve start directory").
			WithCause(err)
	}
	for depth := 0; depth <= a.MaxDepth; depth++ {
		candidate := filepath.Join(dir, a.Filename)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(fmt.Sprintf("no %s found within %d parent levels", a.Filename, a.MaxDepth))
}

func (a ManifestFileAdapter) Read(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("manifest file not found").
			WithCause(err)
	}
	return string(data), nil
}

// InsertDependency adds "<name>: <version>" to the given section,
// using the section's existing entry indentation and inserting after
// the last indented line following the section header. A missing
// section is appended at the end of the file first.
func (a ManifestFileAdapter) InsertDependency(path string, section types.Section, name string, version string) (int, error) {
	text, err := a.Read(path)
	if err != nil {
		return 0, err
	}
	lines := strings.Split(text, "\n")

	headerIdx := sectionHeaderIndex(lines, section)
	if headerIdx < 0 {
		lines = appendSectionHeader(lines, section)
		headerIdx = len(lines) - 1
	}

	indent := defaultEntryIndent
	insertAfter := headerIdx
	for i := headerIdx + 1; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" {
			continue
		}
		// Block ends when indentation returns to zero.
		if !strings.HasPrefix(lines[i], " ") && !strings.HasPrefix(lines[i], "\t") {
			break
		}
		indent = lines[i][:len(lines[i])-len(strings.TrimLeft(lines[i], " \t"))]
		insertAfter = i
	}

	entry := fmt.Sprintf("%s%s: %s", indent, name, version)
	updated := make([]string, 0, len(lines)+1)
	updated = append(updated, lines[:insertAfter+1]...)
	updated = append(updated, entry)
	updated = append(updated, lines[insertAfter+1:]...)

	if err := os.WriteFile(path, []byte(strings.Join(updated, "\n")), 0o644); err != nil {
		return 0, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write manifest").
			WithCause(err)
	}
	return insertAfter + 2, nil
}

func sectionHeaderIndex(lines []string, section types.Section) int {
	header := string(section) + ":"
	for i, line := range lines {
		if strings.TrimRight(line, " \t") == header {
			return i
		}
	}
	return -1
}

func appendSectionHeader(lines []string, section types.Section) []string {
	// Drop trailing blank lines so the new header lands directly after
	// the last content line.
	end := len(lines)
	for end > 0 && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	lines = lines[:end]
	return append(lines, string(section)+":")
}
