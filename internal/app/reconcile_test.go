package app

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pubwatch/internal/core"
	"pubwatch/internal/types"
)

// ---------- Port doubles ----------

type stubRegistry struct {
	mu      sync.Mutex
	calls   map[string]int
	records map[string]types.RegistryRecord
	errs    map[string]error
}

func newStubRegistry() *stubRegistry {
	return &stubRegistry{
		calls:   map[string]int{},
		records: map[string]types.RegistryRecord{},
		errs:    map[string]error{},
	}
}

func (s *stubRegistry) FetchPackage(_ context.Context, name string) (types.RegistryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[name]++
	if err, ok := s.errs[name]; ok {
		return types.RegistryRecord{}, err
	}
	record, ok := s.records[name]
	if !ok {
		return types.RegistryRecord{Name: name}, nil
	}
	return record, nil
}

func (s *stubRegistry) callCount(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[name]
}

type fakeUI struct {
	mu          sync.Mutex
	text        string
	revision    int
	rendered    map[int]types.Annotation
	notices     []string
	clearCount  int
	inputValue  string
	inputOK     bool
	selectValue string
	selectOK    bool
	selectSeen  []string
	replaced    map[int]string
	edited      []string
}

func newFakeUI(text string, revision int) *fakeUI {
	return &fakeUI{
		text:     text,
		revision: revision,
		rendered: map[int]types.Annotation{},
		replaced: map[int]string{},
	}
}

func (u *fakeUI) DocumentText(string) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.text, nil
}

func (u *fakeUI) Revision(string) (int, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.revision, nil
}

func (u *fakeUI) RenderAnnotation(_ string, line int, annotation types.Annotation) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.rendered[line] = annotation
}

func (u *fakeUI) ClearAnnotations(string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.clearCount++
	u.rendered = map[int]types.Annotation{}
}

func (u *fakeUI) Notify(message string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.notices = append(u.notices, message)
}

func (u *fakeUI) PromptInput(string) (string, bool) {
	return u.inputValue, u.inputOK
}

func (u *fakeUI) PromptSelect(options []string, _ string) (string, bool) {
	u.mu.Lock()
	u.selectSeen = options
	u.mu.Unlock()
	return u.selectValue, u.selectOK
}

func (u *fakeUI) EditFile(path string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.edited = append(u.edited, path)
	return nil
}

func (u *fakeUI) ReplaceLine(_ string, line int, text string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.replaced[line] = text
	lines := strings.Split(u.text, "\n")
	if line >= 1 && line <= len(lines) {
		lines[line-1] = text
		u.text = strings.Join(lines, "\n")
	}
	u.revision++
	return nil
}

func (u *fakeUI) InsertLines(_ string, afterLine int, inserted []string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	lines := strings.Split(u.text, "\n")
	updated := append(append(append([]string{}, lines[:afterLine]...), inserted...), lines[afterLine:]...)
	u.text = strings.Join(updated, "\n")
	u.revision++
	return nil
}

func (u *fakeUI) annotation(line int) (types.Annotation, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	annotation, ok := u.rendered[line]
	return annotation, ok
}

func newTestService(registry *stubRegistry, ui *fakeUI) Service {
	return Service{
		Registry: registry,
		UI:       ui,
		Manifest: nil,
		Cache:    core.NewReconciliationCache(0),
		Clock:    time.Now,
	}
}

const reconcileManifest = "dependencies:\n  foo: ^1.2.0\n"

// ---------- Reconcile ----------

func TestReconcileUpToDate(t *testing.T) {
	registry := newStubRegistry()
	registry.records["foo"] = types.RegistryRecord{Name: "foo", LatestVersion: "1.2.0"}
	ui := newFakeUI(reconcileManifest, 1)

	service := newTestService(registry, ui)
	result, err := service.Reconcile(t.Context(), ReconcileRequest{DocumentID: "doc"})
	require.NoError(t, err)
	assert.False(t, result.Skipped)
	assert.Equal(t, 1, result.Dependencies)

	annotation, ok := ui.annotation(2)
	require.True(t, ok)
	assert.Equal(t, types.AnnotationStateUpToDate, annotation.State)
	assert.Equal(t, "1.2.0", annotation.Label)
}

func TestReconcileOutdated(t *testing.T) {
	registry := newStubRegistry()
	registry.records["foo"] = types.RegistryRecord{Name: "foo", LatestVersion: "2.0.0"}
	ui := newFakeUI(reconcileManifest, 1)

	service := newTestService(registry, ui)
	_, err := service.Reconcile(t.Context(), ReconcileRequest{DocumentID: "doc"})
	require.NoError(t, err)

	annotation, ok := ui.annotation(2)
	require.True(t, ok)
	assert.Equal(t, types.AnnotationStateOutdated, annotation.State)
}

func TestReconcileSkipsWildcardDependency(t *testing.T) {
	registry := newStubRegistry()
	ui := newFakeUI("dependencies:\n  bar: any\n", 1)

	service := newTestService(registry, ui)
	result, err := service.Reconcile(t.Context(), ReconcileRequest{DocumentID: "doc"})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Dependencies)
	assert.Equal(t, 0, registry.callCount("bar"))
	assert.Empty(t, result.Annotations)
}

func TestReconcileFetchFailure(t *testing.T) {
	registry := newStubRegistry()
	registry.errs["foo"] = errors.New("http 500")
	ui := newFakeUI(reconcileManifest, 1)

	service := newTestService(registry, ui)
	_, err := service.Reconcile(t.Context(), ReconcileRequest{DocumentID: "doc"})
	require.NoError(t, err)

	annotation, ok := ui.annotation(2)
	require.True(t, ok)
	assert.Equal(t, types.AnnotationStateUnknown, annotation.State)

	record, ok := service.Cache.Record("doc", "foo")
	require.True(t, ok)
	assert.Error(t, record.FetchError)
	assert.Empty(t, record.LatestVersion)

	require.Len(t, ui.notices, 1)
	assert.Contains(t, ui.notices[0], "foo")
}

func TestReconcileSkipsUnchangedRevision(t *testing.T) {
	registry := newStubRegistry()
	registry.records["foo"] = types.RegistryRecord{Name: "foo", LatestVersion: "1.2.0"}
	ui := newFakeUI(reconcileManifest, 1)

	service := newTestService(registry, ui)
	first, err := service.Reconcile(t.Context(), ReconcileRequest{DocumentID: "doc"})
	require.NoError(t, err)
	assert.False(t, first.Skipped)

	second, err := service.Reconcile(t.Context(), ReconcileRequest{DocumentID: "doc"})
	require.NoError(t, err)
	assert.True(t, second.Skipped)
	assert.Equal(t, 1, registry.callCount("foo"))
}

func TestReconcileRefetchesOnNewRevision(t *testing.T) {
	registry := newStubRegistry()
	registry.records["foo"] = types.RegistryRecord{Name: "foo", LatestVersion: "1.2.0"}
	ui := newFakeUI(reconcileManifest, 1)

	service := newTestService(registry, ui)
	_, err := service.Reconcile(t.Context(), ReconcileRequest{DocumentID: "doc"})
	require.NoError(t, err)

	ui.mu.Lock()
	ui.revision = 2
	ui.mu.Unlock()

	result, err := service.Reconcile(t.Context(), ReconcileRequest{DocumentID: "doc"})
	require.NoError(t, err)
	assert.False(t, result.Skipped)
	assert.Equal(t, 2, registry.callCount("foo"))
}

func TestReconcileParseFailureIsSilent(t *testing.T) {
	registry := newStubRegistry()
	ui := newFakeUI("dependencies:\n\t- [broken\n  x: 1", 1)

	service := newTestService(registry, ui)
	result, err := service.Reconcile(t.Context(), ReconcileRequest{DocumentID: "doc"})
	require.NoError(t, err)
	assert.False(t, result.Skipped)
	assert.Equal(t, 0, result.Dependencies)
	assert.Equal(t, 0, ui.clearCount)
	assert.Empty(t, ui.notices)
}

func TestReconcileFailureIsolatedPerPackage(t *testing.T) {
	registry := newStubRegistry()
	registry.records["foo"] = types.RegistryRecord{Name: "foo", LatestVersion: "2.0.0"}
	registry.errs["bar"] = errors.New("connection refused")
	ui := newFakeUI("dependencies:\n  foo: ^1.2.0\n  bar: 1.0.0\n", 1)

	service := newTestService(registry, ui)
	result, err := service.Reconcile(t.Context(), ReconcileRequest{DocumentID: "doc"})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Dependencies)

	fooAnnotation, ok := ui.annotation(2)
	require.True(t, ok)
	assert.Equal(t, types.AnnotationStateOutdated, fooAnnotation.State)

	barAnnotation, ok := ui.annotation(3)
	require.True(t, ok)
	assert.Equal(t, types.AnnotationStateUnknown, barAnnotation.State)
}

func TestReconcileRequiresDocumentID(t *testing.T) {
	service := newTestService(newStubRegistry(), newFakeUI("", 1))
	_, err := service.Reconcile(t.Context(), ReconcileRequest{})
	require.Error(t, err)
}
