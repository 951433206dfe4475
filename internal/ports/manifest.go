package ports

import "pubwatch/internal/types"

// ManifestPort locates and edits manifest files on disk.
type ManifestPort interface {
	// Locate walks upward from startDir looking for the nearest
	// manifest file, up to a fixed depth limit.
	Locate(startDir string) (string, error)
	Read(path string) (string, error)
	// InsertDependency adds "<name>: <version>" to the given section,
	// returning the 1-based line number of the inserted entry.
	InsertDependency(path string, section types.Section, name string, version string) (int, error)
}
