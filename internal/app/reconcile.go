package app

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"pubwatch/internal/core"
	"pubwatch/internal/types"
)

// Reconcile runs one reconciliation round for a document: skip check
// against the cached revision, manifest scan, then one concurrent fetch
// per declared dependency. Each settle upserts into the cache and
// pushes an incremental annotation to the UI; the aggregated map is
// returned once every fetch has settled. A manifest parse failure
// returns silently with no annotation change. One package's failure
// never aborts its siblings.
func (s Service) Reconcile(ctx context.Context, req ReconcileRequest) (ReconcileResult, error) {
	docID := strings.TrimSpace(req.DocumentID)
	if docID == "" {
		return ReconcileResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("document id is required")
	}

	revision, err := s.UI.Revision(docID)
	if err != nil {
		return ReconcileResult{}, err
	}
	if s.Cache.ShouldSkip(docID, revision) {
		log.Debug().Str("document", docID).Int("revision", revision).Msg("reconciliation skipped")
		return ReconcileResult{Skipped: true}, nil
	}

	text, err := s.UI.DocumentText(docID)
	if err != nil {
		return ReconcileResult{}, err
	}
	deps, err := core.ScanManifest(text)
	if err != nil {
		log.Debug().Str("document", docID).Err(err).Msg("manifest scan failed")
		return ReconcileResult{}, nil
	}

	s.UI.ClearAnnotations(docID)

	result := ReconcileResult{
		Dependencies: len(deps),
		Annotations:  make(map[int]types.Annotation, len(deps)),
	}
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, dep := range deps {
		wg.Add(1)
		go func(dep types.Dependency) {
			defer wg.Done()
			started := s.Clock()
			record, fetchErr := s.Registry.FetchPackage(ctx, dep.Name)
			if fetchErr != nil {
				record = types.RegistryRecord{Name: dep.Name, FetchError: fetchErr}
				s.UI.Notify(fmt.Sprintf("failed to fetch package %s", dep.Name))
			}
			merged := s.Cache.Upsert(docID, revision, record)
			annotation := core.DeriveAnnotation(dep, merged)
			s.UI.RenderAnnotation(docID, dep.Line, annotation)
			log.Debug().
				Str("package", dep.Name).
				Str("state", string(annotation.State)).
				Dur("elapsed", s.Clock().Sub(started)).
				Msg("fetch settled")

			mu.Lock()
			result.Annotations[dep.Line] = annotation
			mu.Unlock()
		}(dep)
	}
	wg.Wait()
	return result, nil
}
