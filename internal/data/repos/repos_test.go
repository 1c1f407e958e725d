package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/qnadesk/gephi-export/internal/data/repos/testutil"
	"github.com/qnadesk/gephi-export/internal/domain"
	"github.com/qnadesk/gephi-export/internal/platform/dbctx"
)

func TestCatalogRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewCatalogRepo(db, testutil.Logger(t))

	version, err := repo.ServerVersion(dbc)
	if err != nil {
		t.Fatalf("ServerVersion: %v", err)
	}
	if version == "" {
		t.Fatalf("ServerVersion returned an empty string")
	}

	tables, err := repo.ListTables(dbc)
	if err != nil {
		t.Fatalf("ListTables: %v", err)
	}
	for _, want := range []string{"GephiNode", "GephiEdges", "qnaSubtopic", "Topic", "Macrotopic"} {
		if !containsString(tables, want) {
			t.Fatalf("ListTables missing %q, got %v", want, tables)
		}
	}
}

func TestTaxonomyRepoPull(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewTaxonomyRepo(db, testutil.Logger(t))

	testutil.SeedMacrotopic(t, ctx, tx, 9001, "Science", 0)
	testutil.SeedMacrotopic(t, ctx, tx, 9002, "Retired", 1)
	testutil.SeedTopic(t, ctx, tx, 9101, "Physics", 9001, 0)
	testutil.SeedTopic(t, ctx, tx, 9102, "Alchemy", 9001, 1)
	testutil.SeedTopic(t, ctx, tx, 9103, "Ghost", 9002, 0)
	testutil.SeedSubtopic(t, ctx, tx, 9201, "Optics", 9101, 0)
	testutil.SeedSubtopic(t, ctx, tx, 9202, "Spagyrics", 9102, 0)
	testutil.SeedSubtopic(t, ctx, tx, 9203, "Ectoplasm", 9103, 0)
	testutil.SeedSubtopic(t, ctx, tx, 9204, "Hidden", 9101, 1)

	rows, err := repo.Pull(dbc)
	if err != nil {
		t.Fatalf("Pull: %v", err)
	}

	// Only the fully active chain survives: a soft delete at any level
	// removes the whole row.
	var got []domain.TaxonomyRow
	for _, row := range rows {
		if row.MacroTopic == "Science" || row.MacroTopic == "Retired" {
			got = append(got, row)
		}
	}
	if len(got) != 1 {
		t.Fatalf("Pull returned %d seeded rows, want 1: %v", len(got), got)
	}
	want := domain.TaxonomyRow{SubTopic: "Optics", Topic: "Physics", MacroTopic: "Science"}
	if got[0] != want {
		t.Fatalf("Pull row = %v, want %v", got[0], want)
	}
}

func TestTaxonomyRepoPullHardDeletedRows(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewTaxonomyRepo(db, testutil.Logger(t))

	// Seed one active chain and hard-delete it again inside the transaction.
	// Pull must come back clean without the vanished labels; only this
	// test's labels are asserted because suites in other test binaries
	// commit rows to the same tables.
	testutil.SeedMacrotopic(t, ctx, tx, 9301, "Vanishing", 0)
	testutil.SeedTopic(t, ctx, tx, 9301, "Fleeting", 9301, 0)
	testutil.SeedSubtopic(t, ctx, tx, 9301, "Erased", 9301, 0)
	for _, stmt := range []string{
		`DELETE FROM "qnaSubtopic" WHERE id = 9301`,
		`DELETE FROM "Topic" WHERE id = 9301`,
		`DELETE FROM "Macrotopic" WHERE id = 9301`,
	} {
		if err := tx.WithContext(ctx).Exec(stmt).Error; err != nil {
			t.Fatalf("clear seeded rows: %v", err)
		}
	}

	rows, err := repo.Pull(dbc)
	if err != nil {
		t.Fatalf("Pull after deleting the chain should not error, got %v", err)
	}
	for _, row := range rows {
		if row.MacroTopic == "Vanishing" || row.Topic == "Fleeting" || row.SubTopic == "Erased" {
			t.Fatalf("hard-deleted row still visible in pull: %+v", row)
		}
	}
}

func TestGephiRepoInsertGraph(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewGephiRepo(db, testutil.Logger(t))

	nodes := []domain.GephiNode{
		{NodeLabel: "insert-macro"},
		{NodeLabel: "insert-topic"},
		{NodeLabel: "insert-sub"},
	}
	edges := []domain.GephiEdge{
		{Source: "insert-macro", Target: "insert-topic", Type: domain.EdgeTypeUndirected},
		{Source: "insert-topic", Target: "insert-sub", Type: domain.EdgeTypeUndirected},
		{Source: "insert-macro", Target: "insert-topic", Type: domain.EdgeTypeUndirected},
	}
	if err := repo.InsertGraph(dbc, nodes, edges, false); err != nil {
		t.Fatalf("InsertGraph: %v", err)
	}

	var nodeCount int64
	if err := tx.Model(&domain.GephiNode{}).Where(`"nodeLabel" LIKE ?`, "insert-%").Count(&nodeCount).Error; err != nil {
		t.Fatalf("count nodes: %v", err)
	}
	if nodeCount != 3 {
		t.Fatalf("node count = %d, want 3", nodeCount)
	}

	var dupes int64
	if err := tx.Model(&domain.GephiEdge{}).
		Where("source = ? AND target = ?", "insert-macro", "insert-topic").
		Count(&dupes).Error; err != nil {
		t.Fatalf("count edges: %v", err)
	}
	if dupes != 2 {
		t.Fatalf("duplicate edge rows = %d, want both kept", dupes)
	}

	var stored domain.GephiEdge
	if err := tx.Where("source = ? AND target = ?", "insert-topic", "insert-sub").First(&stored).Error; err != nil {
		t.Fatalf("load edge: %v", err)
	}
	if stored.Type != domain.EdgeTypeUndirected {
		t.Fatalf("edge type = %q, want %q", stored.Type, domain.EdgeTypeUndirected)
	}
}

func TestGephiRepoInsertGraphReplace(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewGephiRepo(db, testutil.Logger(t))

	first := []domain.GephiNode{{NodeLabel: "replace-old-1"}, {NodeLabel: "replace-old-2"}}
	firstEdges := []domain.GephiEdge{{Source: "replace-old-1", Target: "replace-old-2", Type: domain.EdgeTypeUndirected}}
	if err := repo.InsertGraph(dbc, first, firstEdges, false); err != nil {
		t.Fatalf("InsertGraph (append): %v", err)
	}

	second := []domain.GephiNode{{NodeLabel: "replace-new"}}
	secondEdges := []domain.GephiEdge{{Source: "replace-new", Target: "replace-new", Type: domain.EdgeTypeUndirected}}
	if err := repo.InsertGraph(dbc, second, secondEdges, true); err != nil {
		t.Fatalf("InsertGraph (replace): %v", err)
	}

	// Assertions stay scoped to this test's labels; suites in other test
	// binaries commit their own rows to the same tables.
	var nodeCount, edgeCount int64
	if err := tx.Model(&domain.GephiNode{}).Where(`"nodeLabel" LIKE ?`, "replace-%").Count(&nodeCount).Error; err != nil {
		t.Fatalf("count nodes: %v", err)
	}
	if err := tx.Model(&domain.GephiEdge{}).Where("source LIKE ?", "replace-%").Count(&edgeCount).Error; err != nil {
		t.Fatalf("count edges: %v", err)
	}
	if nodeCount != 1 || edgeCount != 1 {
		t.Fatalf("after replace: %d nodes %d edges, want only the new graph", nodeCount, edgeCount)
	}

	var node domain.GephiNode
	if err := tx.Where(`"nodeLabel" LIKE ?`, "replace-%").First(&node).Error; err != nil {
		t.Fatalf("load node: %v", err)
	}
	if node.NodeLabel != "replace-new" {
		t.Fatalf("surviving node = %q, want replace-new", node.NodeLabel)
	}
}

func TestGephiRepoInsertGraphEmpty(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewGephiRepo(db, testutil.Logger(t))

	if err := repo.InsertGraph(dbc, nil, nil, false); err != nil {
		t.Fatalf("InsertGraph with empty input should be a no-op, got %v", err)
	}
}

func TestExportRunRepoLifecycle(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewExportRunRepo(db, testutil.Logger(t))

	// Far-future start times keep GetLatest deterministic against rows
	// committed by other suites.
	older := &domain.ExportRun{Mode: domain.ModeAppend, StartedAt: time.Now().UTC().Add(23 * time.Hour)}
	newer := &domain.ExportRun{Mode: domain.ModeReplace, StartedAt: time.Now().UTC().Add(24 * time.Hour)}
	if err := repo.Create(dbc, older); err != nil {
		t.Fatalf("Create older: %v", err)
	}
	if err := repo.Create(dbc, newer); err != nil {
		t.Fatalf("Create newer: %v", err)
	}
	if older.ID == uuid.Nil || newer.ID == uuid.Nil {
		t.Fatalf("Create should assign IDs")
	}
	if older.Status != domain.RunStatusRunning {
		t.Fatalf("new run status = %q, want running", older.Status)
	}

	finished := time.Now().UTC()
	newer.Status = domain.RunStatusSucceeded
	newer.RowsPulled = 7
	newer.NodesWritten = 9
	newer.EdgesWritten = 14
	newer.FinishedAt = &finished
	if err := repo.Update(dbc, newer); err != nil {
		t.Fatalf("Update: %v", err)
	}

	latest, err := repo.GetLatest(dbc)
	if err != nil {
		t.Fatalf("GetLatest: %v", err)
	}
	if latest == nil || latest.ID != newer.ID {
		t.Fatalf("GetLatest = %v, want run %s", latest, newer.ID)
	}
	if latest.Status != domain.RunStatusSucceeded || latest.EdgesWritten != 14 {
		t.Fatalf("GetLatest row not updated: %+v", latest)
	}
	if latest.FinishedAt == nil {
		t.Fatalf("GetLatest row missing finished_at")
	}
}

func containsString(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
