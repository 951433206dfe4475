package app

import "pubwatch/internal/types"

type ReconcileRequest struct {
	DocumentID string
}

type ReconcileResult struct {
	// Skipped is true when the cached revision was already current and
	// no scan or fetch was performed.
	Skipped      bool
	Dependencies int
	Annotations  map[int]types.Annotation
}

type PickVersionRequest struct {
	DocumentID string
	Name       string
}

type PickVersionResult struct {
	Name     string
	Version  string
	Line     int
	Replaced bool
}

type AddDependencyRequest struct {
	// Name may be empty, in which case the UI is prompted for one.
	Name     string
	Section  types.Section
	StartDir string
}

type AddDependencyResult struct {
	Name         string
	Version      string
	ManifestPath string
	Line         int
	Cancelled    bool
}
