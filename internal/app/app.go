package app

import (
	"context"
	"fmt"

	"github.com/qnadesk/gephi-export/internal/data/repos"
	"github.com/qnadesk/gephi-export/internal/gephi"
	"github.com/qnadesk/gephi-export/internal/platform/envutil"
	"github.com/qnadesk/gephi-export/internal/platform/logger"
	"github.com/qnadesk/gephi-export/internal/platform/neo4jdb"
	"github.com/qnadesk/gephi-export/internal/platform/pgdb"
)

// App owns the exporter's wired dependencies for one invocation: logger,
// resolved config, the single database session, the optional Neo4j mirror
// client, and the pipeline built on top of them.
type App struct {
	Log      *logger.Logger
	Cfg      Config
	Session  *pgdb.Session
	Neo4j    *neo4jdb.Client
	Pipeline *gephi.Pipeline
}

func New(cfgPath string, opts gephi.Options) (*App, error) {
	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	cfg, err := LoadConfig(cfgPath, log)
	if err != nil {
		log.Sync()
		return nil, err
	}

	session, err := pgdb.Open(cfg.Database, log)
	if err != nil {
		log.Sync()
		return nil, err
	}

	// The mirror is optional; a broken Neo4j env never blocks the export.
	neo, err := neo4jdb.NewFromEnv(log)
	if err != nil {
		log.Warn("neo4j client init failed (continuing without mirror)", "error", err)
		neo = nil
	}

	pipeline := gephi.NewPipeline(
		session,
		repos.NewCatalogRepo(session.DB(), log),
		repos.NewTaxonomyRepo(session.DB(), log),
		repos.NewGephiRepo(session.DB(), log),
		repos.NewExportRunRepo(session.DB(), log),
		neo,
		log,
		opts,
	)

	return &App{
		Log:      log,
		Cfg:      cfg,
		Session:  session,
		Neo4j:    neo,
		Pipeline: pipeline,
	}, nil
}

// Close releases the session and the mirror client and flushes the logger.
// Safe on a nil or partially built App.
func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Neo4j != nil {
		if err := a.Neo4j.Close(context.Background()); err != nil {
			a.Log.Warn("neo4j close failed", "error", err)
		}
	}
	if a.Session != nil {
		if err := a.Session.Close(); err != nil {
			a.Log.Warn("session close failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
