package stores

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/openfroyo/boardcfg/pkg/lpcconfig"
	"github.com/openfroyo/boardcfg/pkg/source"
)

// setupTestStore creates a migrated store in a temporary directory.
func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleLoad(id string, created time.Time) *Load {
	return &Load{
		ID:        id,
		Source:    "/sd/sys/board.txt",
		Board:     "rearm",
		Status:    "degraded",
		Features:  "lcd,aux",
		Duration:  1500 * time.Microsecond,
		Derived:   `{"stepDriverMask":263}`,
		CreatedAt: created,
	}
}

func TestStoreLifecycle(t *testing.T) {
	store, err := NewSQLiteStore(Config{Path: ":memory:"})
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	ctx := context.Background()
	if err := store.HealthCheck(ctx); err == nil {
		t.Error("expected health check to fail before Init")
	}
	if err := store.Migrate(ctx); err == nil {
		t.Error("expected migrate to fail before Init")
	}

	if err := store.Init(ctx); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate store: %v", err)
	}
	// Running migrations twice is a no-op.
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("second migrate failed: %v", err)
	}
	if err := store.HealthCheck(ctx); err != nil {
		t.Fatalf("health check failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("failed to close store: %v", err)
	}
}

func TestNewSQLiteStoreRequiresPath(t *testing.T) {
	if _, err := NewSQLiteStore(Config{}); err == nil {
		t.Error("expected error, got nil")
	}
}

func TestStoreMigrations(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	for _, table := range []string{"loads", "load_issues"} {
		var count int
		err := store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count)
		if err != nil {
			t.Errorf("table %s does not exist or is not accessible: %v", table, err)
		}
	}
}

func TestLoadCRUD(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	load := sampleLoad("load-1", created)
	issues := []*Issue{
		{Phase: "full", Class: "token", Reason: "pin_not_found", Line: 3, Key: "heat.tempSensePins", Token: "nowhere", Message: "pin not found"},
		{Phase: "full", Class: "semantic", Reason: "unknown_key", Line: 7, Key: "unknown.key", Message: "unknown key"},
	}

	if err := store.CreateLoad(ctx, load, issues); err != nil {
		t.Fatalf("failed to create load: %v", err)
	}
	if load.IssueCount != 2 {
		t.Errorf("expected issue count 2, got %d", load.IssueCount)
	}
	for _, issue := range issues {
		if issue.ID == 0 || issue.LoadID != "load-1" {
			t.Errorf("expected issue to be assigned an ID and load, got %+v", issue)
		}
	}

	got, err := store.GetLoad(ctx, "load-1")
	if err != nil {
		t.Fatalf("failed to get load: %v", err)
	}
	if diff := cmp.Diff(load, got, cmpopts.EquateApproxTime(time.Microsecond)); diff != "" {
		t.Errorf("load mismatch (-want +got):\n%s", diff)
	}

	gotIssues, err := store.ListIssues(ctx, "load-1")
	if err != nil {
		t.Fatalf("failed to list issues: %v", err)
	}
	if diff := cmp.Diff(issues, gotIssues); diff != "" {
		t.Errorf("issues mismatch (-want +got):\n%s", diff)
	}

	if err := store.DeleteLoad(ctx, "load-1"); err != nil {
		t.Fatalf("failed to delete load: %v", err)
	}
	if _, err := store.GetLoad(ctx, "load-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	gotIssues, err = store.ListIssues(ctx, "load-1")
	if err != nil {
		t.Fatalf("failed to list issues: %v", err)
	}
	if len(gotIssues) != 0 {
		t.Errorf("expected issues to be deleted with the load, got %d", len(gotIssues))
	}

	if err := store.DeleteLoad(ctx, "load-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLoadError(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	load := sampleLoad("load-err", time.Now())
	load.Status = "failed"
	msg := "[stream] open /sd/sys/board.txt: no such file or directory"
	load.Error = &msg

	if err := store.CreateLoad(ctx, load, nil); err != nil {
		t.Fatalf("failed to create load: %v", err)
	}

	got, err := store.GetLoad(ctx, "load-err")
	if err != nil {
		t.Fatalf("failed to get load: %v", err)
	}
	if got.Error == nil || *got.Error != msg {
		t.Errorf("expected error %q, got %v", msg, got.Error)
	}
}

func TestCreateLoadRejectsBadStatus(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	load := sampleLoad("load-bad", time.Now())
	load.Status = "maybe"
	if err := store.CreateLoad(ctx, load, nil); err == nil {
		t.Fatal("expected error, got nil")
	}

	// Nothing from the failed transaction is kept.
	if _, err := store.GetLoad(ctx, "load-bad"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListLoads(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c", "d"} {
		load := sampleLoad(id, base.Add(time.Duration(i)*time.Hour))
		if id == "d" {
			load.Source = "<stdin>"
			load.Status = "ok"
		}
		if err := store.CreateLoad(ctx, load, nil); err != nil {
			t.Fatalf("failed to create load %s: %v", id, err)
		}
	}

	tests := []struct {
		name string
		opts ListOptions
		want []string
	}{
		{"all newest first", ListOptions{}, []string{"d", "c", "b", "a"}},
		{"limit", ListOptions{Limit: 2}, []string{"d", "c"}},
		{"offset", ListOptions{Limit: 2, Offset: 2}, []string{"b", "a"}},
		{"source", ListOptions{Source: "/sd/sys/board.txt"}, []string{"c", "b", "a"}},
		{"status", ListOptions{Status: "ok"}, []string{"d"}},
		{"no match", ListOptions{Source: "nowhere"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loads, err := store.ListLoads(ctx, tt.opts)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := []string{}
			for _, l := range loads {
				got = append(got, l.ID)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ids mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPruneLoads(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "older", "new"} {
		created := base.Add(-time.Duration(i+1) * 24 * time.Hour)
		if id == "new" {
			created = base
		}
		issues := []*Issue{{Phase: "full", Class: "semantic", Reason: "unknown_key", Message: "unknown key"}}
		if err := store.CreateLoad(ctx, sampleLoad(id, created), issues); err != nil {
			t.Fatalf("failed to create load %s: %v", id, err)
		}
	}

	n, err := store.PruneLoads(ctx, base.Add(-time.Hour))
	if err != nil {
		t.Fatalf("failed to prune: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 pruned loads, got %d", n)
	}

	loads, err := store.ListLoads(ctx, ListOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(loads) != 1 || loads[0].ID != "new" {
		t.Errorf("expected only the new load to remain, got %+v", loads)
	}

	var orphans int
	if err := store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM load_issues WHERE load_id != 'new'").Scan(&orphans); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if orphans != 0 {
		t.Errorf("expected pruned issues to cascade, got %d left", orphans)
	}
}

func TestFromResult(t *testing.T) {
	board := `lpc.board = rearm
heat.tempSensePins = { t0 nowhere }
`
	res, err := lpcconfig.NewLoader().Load(context.Background(), source.Bytes("board.txt", []byte(board)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	load, issues, err := FromResult(res)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if load.ID != res.LoadID || load.Board != "rearm" || load.Status != "degraded" {
		t.Errorf("unexpected load %+v", load)
	}
	if load.Features != "lcd,aux" {
		t.Errorf("expected features lcd,aux, got %q", load.Features)
	}
	if load.Error != nil {
		t.Errorf("expected no error, got %q", *load.Error)
	}
	if !strings.Contains(load.Derived, `"stepDriverMask":`) {
		t.Errorf("expected derived JSON, got %s", load.Derived)
	}
	if len(issues) != 1 || issues[0].Reason != "pin_not_found" || issues[0].Line != 2 || issues[0].Token != "nowhere" {
		t.Errorf("unexpected issues %+v", issues)
	}

	store := setupTestStore(t)
	if err := store.CreateLoad(context.Background(), load, issues); err != nil {
		t.Fatalf("failed to record result: %v", err)
	}
}

func TestFromResultStreamError(t *testing.T) {
	res, err := lpcconfig.NewLoader().Load(context.Background(), source.File(filepath.Join(t.TempDir(), "missing.txt")))
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	load, issues, err := FromResult(res)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if load.Status != "failed" || load.Error == nil {
		t.Errorf("expected failed load with error, got %+v", load)
	}
	if len(issues) != 1 || issues[0].Class != "stream" {
		t.Errorf("expected one stream issue, got %+v", issues)
	}
}
