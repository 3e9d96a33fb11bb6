package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/liegraph/pkg/cache"
	lgerrors "github.com/matzehuels/liegraph/pkg/errors"
	"github.com/matzehuels/liegraph/pkg/observability"
	"github.com/matzehuels/liegraph/pkg/snapshot"
)

func link(level int, state snapshot.State, neighbor string, neighborLevel int) snapshot.Link {
	return snapshot.Link{LIE: snapshot.LieFSM{
		Level:    snapshot.LevelOf(level),
		State:    state,
		Neighbor: &snapshot.Neighbor{Name: neighbor, Level: snapshot.LevelOf(neighborLevel)},
	}}
}

func fabric() *snapshot.Snapshot {
	return &snapshot.Snapshot{Nodes: []snapshot.Node{
		{Name: "A", ConfiguredLevel: snapshot.LevelOf(2), Links: []snapshot.Link{link(2, snapshot.StateThreeWay, "B", 1)}},
		{Name: "B", ConfiguredLevel: snapshot.LevelOf(1), Links: []snapshot.Link{link(1, snapshot.StateThreeWay, "A", 2)}},
	}}
}

// memCache is an in-memory cache.Cache for tests.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

var _ cache.Cache = (*memCache)(nil)

// recorder captures pipeline and cache hook events.
type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(e string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) OnReconcileStart(context.Context, int) { r.add("reconcile") }
func (r *recorder) OnReconcileComplete(_ context.Context, _ int, _ time.Duration, err error) {
	r.add("reconcile:" + string(lgerrors.GetCode(err)))
}
func (r *recorder) OnRenderStart(_ context.Context, f string)                           { r.add("render " + f) }
func (r *recorder) OnRenderComplete(context.Context, string, int, time.Duration, error) {}
func (r *recorder) OnCacheHit(_ context.Context, f string)                              { r.add("hit " + f) }
func (r *recorder) OnCacheMiss(_ context.Context, f string)                             { r.add("miss " + f) }
func (r *recorder) OnCacheSet(context.Context, string, int)                             {}

func withRecorder(t *testing.T) *recorder {
	t.Helper()
	rec := &recorder{}
	observability.SetPipelineHooks(rec)
	observability.SetCacheHooks(rec)
	t.Cleanup(observability.Reset)
	return rec
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"dot", false},
		{"json", false},
		{"svg", false},
		{"png", false},
		{"pdf", true},
		{"SVG", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !lgerrors.Is(err, lgerrors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s, want %s", tt.format, lgerrors.GetCode(err), lgerrors.ErrCodeInvalidFormat)
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}
	if !reflect.DeepEqual(opts.Formats, []string{FormatDOT}) {
		t.Errorf("Formats = %v, want [dot]", opts.Formats)
	}
	if opts.ColorMode != "aligned" || opts.RankDir != "TB" {
		t.Errorf("ColorMode, RankDir = %q, %q, want aligned, TB", opts.ColorMode, opts.RankDir)
	}
	if opts.CacheTTL != DefaultArtifactTTL {
		t.Errorf("CacheTTL = %v, want %v", opts.CacheTTL, DefaultArtifactTTL)
	}

	dup := Options{Formats: []string{"dot", "json", "dot"}}
	if err := dup.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}
	if !reflect.DeepEqual(dup.Formats, []string{"dot", "json"}) {
		t.Errorf("Formats = %v, want [dot json]", dup.Formats)
	}
}

func TestOptionsInvalid(t *testing.T) {
	for _, opts := range []Options{
		{Formats: []string{"pdf"}},
		{ColorMode: "rainbow"},
		{RankDir: "diagonal"},
	} {
		if err := opts.ValidateAndSetDefaults(); !lgerrors.Is(err, lgerrors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateAndSetDefaults(%+v) error = %v, want %s", opts, err, lgerrors.ErrCodeInvalidFormat)
		}
	}
}

func TestExecute_DOTAndJSON(t *testing.T) {
	rec := withRecorder(t)
	r := NewRunner(nil, log.New(&bytes.Buffer{}))

	res, err := r.Execute(context.Background(), fabric(), Options{Formats: []string{FormatDOT, FormatJSON}})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if !strings.Contains(string(res.Artifacts[FormatDOT]), `"A" -> "B" [dir=both, color="black:black"];`) {
		t.Errorf("dot artifact:\n%s", res.Artifacts[FormatDOT])
	}
	if res.DOT != string(res.Artifacts[FormatDOT]) {
		t.Error("Result.DOT differs from dot artifact")
	}

	var exported map[string]any
	if err := json.Unmarshal(res.Artifacts[FormatJSON], &exported); err != nil {
		t.Errorf("json artifact is not JSON: %v", err)
	}

	if res.Stats.Nodes != 2 || res.Stats.Edges != 1 || res.Stats.Complete != 1 {
		t.Errorf("Stats = %+v", res.Stats.Stats)
	}

	want := []string{"reconcile", "reconcile:", "render dot", "render json"}
	if !reflect.DeepEqual(rec.events, want) {
		t.Errorf("hook events = %v, want %v", rec.events, want)
	}
}

func TestExecute_ViolationProducesNoOutput(t *testing.T) {
	rec := withRecorder(t)
	r := NewRunner(nil, log.New(&bytes.Buffer{}))

	snap := &snapshot.Snapshot{Nodes: []snapshot.Node{{
		Name: "A",
		Links: []snapshot.Link{
			link(2, snapshot.StateThreeWay, "B", 1),
			link(3, snapshot.StateThreeWay, "C", 1),
		},
	}}}

	res, err := r.Execute(context.Background(), snap, Options{Formats: []string{FormatDOT}})
	if !lgerrors.Is(err, lgerrors.ErrCodeLevelMismatch) {
		t.Fatalf("Execute() error = %v, want %s", err, lgerrors.ErrCodeLevelMismatch)
	}
	if res != nil {
		t.Errorf("Execute() result = %+v, want nil", res)
	}
	if want := []string{"reconcile", "reconcile:LEVEL_MISMATCH"}; !reflect.DeepEqual(rec.events, want) {
		t.Errorf("hook events = %v, want %v", rec.events, want)
	}
}

func TestExecute_CacheHit(t *testing.T) {
	rec := withRecorder(t)
	c := newMemCache()
	r := NewRunner(c, log.New(&bytes.Buffer{}))

	// Seed the cache with the artifact for the exact DOT text.
	first, err := r.Execute(context.Background(), fabric(), Options{})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	_ = c.Set(context.Background(), cache.ArtifactKey(FormatSVG, first.DOT), []byte("<svg>cached</svg>"), 0)
	rec.events = nil

	res, err := r.Execute(context.Background(), fabric(), Options{Formats: []string{FormatSVG}})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got := string(res.Artifacts[FormatSVG]); got != "<svg>cached</svg>" {
		t.Errorf("svg artifact = %q, want cached bytes", got)
	}
	if !res.CacheInfo.RenderHit() {
		t.Errorf("CacheInfo = %+v, want hit", res.CacheInfo)
	}
	if want := []string{"reconcile", "reconcile:", "render dot", "hit svg"}; !reflect.DeepEqual(rec.events, want) {
		t.Errorf("hook events = %v, want %v", rec.events, want)
	}
}

func TestExecute_ColorModeChangesCacheKey(t *testing.T) {
	c := newMemCache()
	r := NewRunner(c, log.New(&bytes.Buffer{}))

	snap := &snapshot.Snapshot{Nodes: []snapshot.Node{
		{Name: "leaf", Links: []snapshot.Link{link(0, snapshot.StateTwoWay, "spine", 1)}},
		{Name: "spine", Links: []snapshot.Link{link(1, snapshot.StateThreeWay, "leaf", 0)}},
	}}

	aligned, err := r.Execute(context.Background(), snap, Options{})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	recorded, err := r.Execute(context.Background(), snap, Options{ColorMode: "recorded"})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if cache.ArtifactKey(FormatSVG, aligned.DOT) == cache.ArtifactKey(FormatSVG, recorded.DOT) {
		t.Error("color modes share a cache key")
	}
}

func TestExecute_RenderSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("renders with Graphviz")
	}
	c := newMemCache()
	r := NewRunner(c, log.New(&bytes.Buffer{}))

	res, err := r.Execute(context.Background(), fabric(), Options{Formats: []string{FormatSVG}})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !bytes.Contains(res.Artifacts[FormatSVG], []byte("<svg")) {
		t.Errorf("svg artifact does not look like SVG: %.200s", res.Artifacts[FormatSVG])
	}
	if res.CacheInfo.RenderHit() {
		t.Error("first render reported a cache hit")
	}
	if c.sets != 1 {
		t.Errorf("cache sets = %d, want 1", c.sets)
	}
}

func TestExecute_Cancelled(t *testing.T) {
	r := NewRunner(nil, log.New(&bytes.Buffer{}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.Execute(ctx, fabric(), Options{}); err == nil {
		t.Error("Execute() with cancelled context error = nil")
	}
}

func TestRender(t *testing.T) {
	r := NewRunner(nil, log.New(&bytes.Buffer{}))
	topo, err := r.Reconcile(context.Background(), fabric())
	if err != nil {
		t.Fatalf("Reconcile() error = %v", err)
	}

	out, err := r.Render(context.Background(), topo, Options{RankDir: "LR"})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(string(out[FormatDOT]), "rankdir=LR;") {
		t.Errorf("dot artifact:\n%s", out[FormatDOT])
	}
}

func TestReconcile_NilSnapshot(t *testing.T) {
	r := NewRunner(nil, nil)
	if _, err := r.Reconcile(context.Background(), nil); !lgerrors.Is(err, lgerrors.ErrCodeInvalidSnapshot) {
		t.Errorf("Reconcile(nil) error = %v, want %s", err, lgerrors.ErrCodeInvalidSnapshot)
	}
}
