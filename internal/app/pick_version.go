package app

import (
	"context"
	"fmt"
	"strings"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"

	"pubwatch/internal/core"
	"pubwatch/internal/types"
)

// PickVersion presents a package's version history for single selection
// and rewrites the dependency's constraint line with the chosen
// version. The history comes from the cache when a previous round
// resolved it, and is fetched on demand otherwise. The compat marker is
// preserved when the existing constraint carried one.
func (s Service) PickVersion(ctx context.Context, req PickVersionRequest) (PickVersionResult, error) {
	docID := strings.TrimSpace(req.DocumentID)
	name := strings.TrimSpace(req.Name)
	if docID == "" {
		return PickVersionResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("document id is required")
	}
	if name == "" {
		return PickVersionResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("package name is required")
	}

	record, ok := s.Cache.Record(docID, name)
	if !ok || len(record.Versions) == 0 {
		fetched, err := s.Registry.FetchPackage(ctx, name)
		if err != nil {
			s.UI.Notify(fmt.Sprintf("failed to fetch package %s", name))
			return PickVersionResult{}, err
		}
		revision, revErr := s.UI.Revision(docID)
		if revErr != nil {
			return PickVersionResult{}, revErr
		}
		record = s.Cache.Upsert(docID, revision, fetched)
	}
	if len(record.Versions) == 0 {
		return PickVersionResult{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("no version history for %s", name))
	}

	options := make([]string, 0, len(record.Versions))
	for _, entry := range record.Versions {
		options = append(options, entry.Version)
	}
	choice, ok := s.UI.PromptSelect(options, fmt.Sprintf("select version for %s", name))
	if !ok {
		return PickVersionResult{Name: name}, nil
	}
	assert.NotEmpty(ctx, choice, "selected version must not be empty")

	text, err := s.UI.DocumentText(docID)
	if err != nil {
		return PickVersionResult{}, err
	}
	deps, err := core.ScanManifest(text)
	if err != nil {
		return PickVersionResult{}, err
	}
	dep, found := findDependency(deps, name)
	if !found || dep.Line < 1 {
		return PickVersionResult{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("dependency %s not found in manifest", name))
	}

	constraint := choice
	if core.HasCompatMarker(dep.Constraint) {
		constraint = core.CompatMarker + choice
	}
	lines := strings.Split(text, "\n")
	indent := lines[dep.Line-1][:len(lines[dep.Line-1])-len(strings.TrimLeft(lines[dep.Line-1], " \t"))]
	if err := s.UI.ReplaceLine(docID, dep.Line, fmt.Sprintf("%s%s: %s", indent, dep.Name, constraint)); err != nil {
		return PickVersionResult{}, err
	}
	return PickVersionResult{
		Name:     name,
		Version:  choice,
		Line:     dep.Line,
		Replaced: true,
	}, nil
}

func findDependency(deps []types.Dependency, name string) (types.Dependency, bool) {
	for _, dep := range deps {
		if dep.Name == name {
			return dep, true
		}
	}
	return types.Dependency{}, false
}
