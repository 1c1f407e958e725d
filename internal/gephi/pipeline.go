package gephi

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/qnadesk/gephi-export/internal/data/graph"
	"github.com/qnadesk/gephi-export/internal/data/repos"
	"github.com/qnadesk/gephi-export/internal/domain"
	"github.com/qnadesk/gephi-export/internal/observability"
	"github.com/qnadesk/gephi-export/internal/platform/dbctx"
	"github.com/qnadesk/gephi-export/internal/platform/logger"
	"github.com/qnadesk/gephi-export/internal/platform/neo4jdb"
	"github.com/qnadesk/gephi-export/internal/platform/pgdb"
)

// Options select the run mode. Zero value is a real append-mode export.
type Options struct {
	// DryRun pulls and restructures but rolls back without writing.
	DryRun bool
	// Replace clears both destination tables inside the export transaction
	// before inserting. Default is append (accrete onto existing rows).
	Replace bool
}

func (o Options) mode() string {
	if o.Replace {
		return domain.ModeReplace
	}
	return domain.ModeAppend
}

// RunStats summarizes one pipeline invocation.
type RunStats struct {
	RunID      uuid.UUID
	Mode       string
	DryRun     bool
	RowsPulled int
	Nodes      int
	Edges      int
	Duration   time.Duration
}

// Pipeline drives one export end to end: diagnostics, taxonomy pull,
// restructure, load, commit, optional Neo4j mirror. Reads and writes share
// one transaction scope, so the destination tables either gain the whole
// graph or stay untouched.
type Pipeline struct {
	session  *pgdb.Session
	catalog  repos.CatalogRepo
	taxonomy repos.TaxonomyRepo
	graphs   repos.GephiRepo
	runs     repos.ExportRunRepo
	neo      *neo4jdb.Client
	log      *logger.Logger
	opts     Options
}

func NewPipeline(
	session *pgdb.Session,
	catalog repos.CatalogRepo,
	taxonomy repos.TaxonomyRepo,
	graphs repos.GephiRepo,
	runs repos.ExportRunRepo,
	neo *neo4jdb.Client,
	logg *logger.Logger,
	opts Options,
) *Pipeline {
	return &Pipeline{
		session:  session,
		catalog:  catalog,
		taxonomy: taxonomy,
		graphs:   graphs,
		runs:     runs,
		neo:      neo,
		log:      logg.With("service", "ExportPipeline"),
		opts:     opts,
	}
}

// Run executes every stage in order and records the invocation in
// gephi_export_run. The returned stats are valid even when err is non-nil;
// they describe how far the run got.
func (p *Pipeline) Run(ctx context.Context) (RunStats, error) {
	started := time.Now()
	ctx, span := observability.Tracer().Start(ctx, "export.run")
	defer span.End()

	stats := RunStats{Mode: p.opts.mode(), DryRun: p.opts.DryRun}
	runLog := p.log.With("mode", stats.Mode, "dry_run", stats.DryRun)

	p.diagnostics(ctx, runLog)

	run := &domain.ExportRun{Mode: stats.Mode, DryRun: stats.DryRun}
	if err := p.runs.Create(dbctx.Context{Ctx: ctx}, run); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "run bookkeeping failed")
		return stats, err
	}
	stats.RunID = run.ID
	runLog = runLog.With("run_id", run.ID.String())

	tx, err := p.session.Begin(ctx)
	if err != nil {
		err = p.finish(ctx, span, run, &stats, started, err)
		return stats, err
	}

	rows, err := p.pull(ctx, tx, runLog)
	if err != nil {
		p.session.Rollback(tx)
		err = p.finish(ctx, span, run, &stats, started, err)
		return stats, err
	}
	stats.RowsPulled = len(rows)

	nodes, edges := p.restructure(ctx, rows, runLog)
	stats.Nodes = len(nodes)
	stats.Edges = len(edges)

	if p.opts.DryRun {
		p.session.Rollback(tx)
		runLog.Info("dry run complete, nothing written",
			"rows", stats.RowsPulled, "nodes", stats.Nodes, "edges", stats.Edges)
		err = p.finish(ctx, span, run, &stats, started, nil)
		return stats, err
	}

	if err := p.load(ctx, tx, nodes, edges, runLog); err != nil {
		p.session.Rollback(tx)
		err = p.finish(ctx, span, run, &stats, started, err)
		return stats, err
	}

	// A failed COMMIT already ends the transaction server-side; there is
	// nothing left to roll back.
	if err := tx.Commit().Error; err != nil {
		err = domain.Wrap(domain.CodeInsert, "pipeline.commit", err)
		err = p.finish(ctx, span, run, &stats, started, err)
		return stats, err
	}
	runLog.Info("graph committed", "nodes", stats.Nodes, "edges", stats.Edges)

	p.mirror(ctx, run.ID, nodes, edges, runLog)

	err = p.finish(ctx, span, run, &stats, started, nil)
	return stats, err
}

// diagnostics logs the server version and table inventory. Probe failures
// warn and continue; the pull decides whether the connection is usable.
func (p *Pipeline) diagnostics(ctx context.Context, runLog *logger.Logger) {
	ctx, span := observability.Tracer().Start(ctx, "export.diagnostics")
	defer span.End()

	dbc := dbctx.Context{Ctx: ctx}
	if version, err := p.catalog.ServerVersion(dbc); err != nil {
		runLog.Warn("server version probe failed (continuing)", "error", err)
	} else {
		runLog.Info("connected to postgres", "server_version", version)
	}
	if tables, err := p.catalog.ListTables(dbc); err != nil {
		runLog.Warn("table inventory failed (continuing)", "error", err)
	} else {
		runLog.Info("public tables visible to session", "count", len(tables), "tables", tables)
	}
}

func (p *Pipeline) pull(ctx context.Context, tx *gorm.DB, runLog *logger.Logger) ([]domain.TaxonomyRow, error) {
	ctx, span := observability.Tracer().Start(ctx, "export.pull")
	defer span.End()

	rows, err := p.taxonomy.Pull(dbctx.Context{Ctx: ctx, Tx: tx})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("rows", len(rows)))
	if len(rows) == 0 {
		runLog.Info("no data in the source taxonomy")
	} else {
		runLog.Info("taxonomy pulled", "rows", len(rows))
	}
	return rows, nil
}

func (p *Pipeline) restructure(ctx context.Context, rows []domain.TaxonomyRow, runLog *logger.Logger) ([]domain.GephiNode, []domain.GephiEdge) {
	_, span := observability.Tracer().Start(ctx, "export.restructure")
	defer span.End()

	nodes, edges := Restructure(rows)
	span.SetAttributes(attribute.Int("nodes", len(nodes)), attribute.Int("edges", len(edges)))
	runLog.Info("graph restructured", "nodes", len(nodes), "edges", len(edges))
	return nodes, edges
}

func (p *Pipeline) load(ctx context.Context, tx *gorm.DB, nodes []domain.GephiNode, edges []domain.GephiEdge, runLog *logger.Logger) error {
	ctx, span := observability.Tracer().Start(ctx, "export.load")
	defer span.End()

	if p.opts.Replace {
		runLog.Info("replace mode, clearing destination tables")
	}
	if err := p.graphs.InsertGraph(dbctx.Context{Ctx: ctx, Tx: tx}, nodes, edges, p.opts.Replace); err != nil {
		span.RecordError(err)
		return err
	}
	runLog.Info("data pushed successfully", "nodes", len(nodes), "edges", len(edges))
	return nil
}

// mirror pushes the committed graph into Neo4j when a client is configured.
// Mirror failures never fail the run; Postgres already holds the export.
func (p *Pipeline) mirror(ctx context.Context, runID uuid.UUID, nodes []domain.GephiNode, edges []domain.GephiEdge, runLog *logger.Logger) {
	if p.neo == nil {
		return
	}
	ctx, span := observability.Tracer().Start(ctx, "export.mirror")
	defer span.End()

	if err := graph.MirrorGephiGraph(ctx, p.neo, p.log, runID, nodes, edges, p.opts.Replace); err != nil {
		span.RecordError(err)
		runLog.Warn("neo4j mirror failed (continuing)", "error", err)
		return
	}
	runLog.Info("graph mirrored to neo4j", "nodes", len(nodes), "edges", len(edges))
}

// finish closes out the run record and the root span, passing err through so
// callers surface the original failure. Outcome bookkeeping is best-effort:
// by this point the export itself already succeeded or failed.
func (p *Pipeline) finish(ctx context.Context, span trace.Span, run *domain.ExportRun, stats *RunStats, started time.Time, err error) error {
	stats.Duration = time.Since(started)

	now := time.Now().UTC()
	run.FinishedAt = &now
	run.RowsPulled = stats.RowsPulled
	run.NodesWritten = stats.Nodes
	run.EdgesWritten = stats.Edges
	if err != nil {
		run.Status = domain.RunStatusFailed
		run.Error = err.Error()
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, string(domain.CodeOf(err)))
	} else {
		run.Status = domain.RunStatusSucceeded
		span.SetStatus(otelcodes.Ok, "")
	}
	if payload, merr := json.Marshal(map[string]any{
		"duration_ms": stats.Duration.Milliseconds(),
		"mode":        stats.Mode,
		"dry_run":     stats.DryRun,
	}); merr == nil {
		run.Stats = datatypes.JSON(payload)
	}
	if uerr := p.runs.Update(dbctx.Context{Ctx: ctx}, run); uerr != nil {
		p.log.Warn("failed to record run outcome", "run_id", run.ID.String(), "error", uerr)
	}

	span.SetAttributes(
		attribute.Int("rows", stats.RowsPulled),
		attribute.Int("nodes", stats.Nodes),
		attribute.Int("edges", stats.Edges),
		attribute.String("status", run.Status),
	)
	return err
}
