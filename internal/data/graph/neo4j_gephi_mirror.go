package graph

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/qnadesk/gephi-export/internal/domain"
	"github.com/qnadesk/gephi-export/internal/platform/logger"
	"github.com/qnadesk/gephi-export/internal/platform/neo4jdb"
)

// MirrorGephiGraph pushes a committed export into Neo4j so the taxonomy can
// be browsed without loading the CSV tables into Gephi. The mirror is a
// lookup surface, not the system of record: nodes merge by label and MERGE
// collapses the duplicate edge pairs the relational export keeps.
//
// A nil client (mirroring not configured) is a no-op.
func MirrorGephiGraph(
	ctx context.Context,
	client *neo4jdb.Client,
	log *logger.Logger,
	runID uuid.UUID,
	nodes []domain.GephiNode,
	edges []domain.GephiEdge,
	replace bool,
) error {
	if client == nil || client.Driver == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	run := ""
	if runID != uuid.Nil {
		run = runID.String()
	}

	nodeRecs := make([]map[string]any, 0, len(nodes))
	for _, n := range nodes {
		label := strings.TrimSpace(n.NodeLabel)
		if label == "" {
			continue
		}
		nodeRecs = append(nodeRecs, map[string]any{
			"label":     label,
			"run_id":    run,
			"synced_at": now,
		})
	}

	edgeRecs := make([]map[string]any, 0, len(edges))
	for _, e := range edges {
		source := strings.TrimSpace(e.Source)
		target := strings.TrimSpace(e.Target)
		if source == "" || target == "" {
			continue
		}
		edgeRecs = append(edgeRecs, map[string]any{
			"source":    source,
			"target":    target,
			"type":      e.Type,
			"run_id":    run,
			"synced_at": now,
		})
	}

	session := client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: client.Database,
	})
	defer session.Close(ctx)

	// Best-effort schema init.
	{
		stmts := []string{
			`CREATE CONSTRAINT topic_node_label_unique IF NOT EXISTS FOR (n:TopicNode) REQUIRE n.label IS UNIQUE`,
		}
		for _, q := range stmts {
			if res, err := session.Run(ctx, q, nil); err != nil {
				if log != nil {
					log.Warn("neo4j schema init failed (continuing)", "error", err)
				}
			} else {
				_, _ = res.Consume(ctx)
			}
		}
	}

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if replace {
			res, err := tx.Run(ctx, `
MATCH (n:TopicNode)
DETACH DELETE n
`, nil)
			if err != nil {
				return nil, err
			}
			if _, err := res.Consume(ctx); err != nil {
				return nil, err
			}
		}

		if len(nodeRecs) > 0 {
			res, err := tx.Run(ctx, `
UNWIND $nodes AS n
MERGE (tn:TopicNode {label: n.label})
SET tn.run_id = n.run_id,
    tn.synced_at = n.synced_at
`, map[string]any{"nodes": nodeRecs})
			if err != nil {
				return nil, err
			}
			if _, err := res.Consume(ctx); err != nil {
				return nil, err
			}
		}

		if len(edgeRecs) > 0 {
			res, err := tx.Run(ctx, `
UNWIND $rels AS r
MATCH (a:TopicNode {label: r.source})
MATCH (b:TopicNode {label: r.target})
MERGE (a)-[e:CONNECTS]->(b)
SET e.type = r.type,
    e.run_id = r.run_id,
    e.synced_at = r.synced_at
`, map[string]any{"rels": edgeRecs})
			if err != nil {
				return nil, err
			}
			if _, err := res.Consume(ctx); err != nil {
				return nil, err
			}
		}

		return nil, nil
	})

	return err
}
