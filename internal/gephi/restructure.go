package gephi

import (
	"github.com/qnadesk/gephi-export/internal/domain"
)

// Restructure reshapes flattened taxonomy rows into Gephi's node and edge
// lists. Labels dedup into one node each, ordered by first appearance
// (macrotopic, then topic, then subtopic, row by row). Every row emits
// exactly two undirected edges, macrotopic->topic then topic->subtopic, and
// edges are NOT deduped: repeated pairs act as implicit edge weight when
// Gephi sums them.
//
// The transform is pure. It never touches the database and never fails;
// empty input yields empty (non-nil) slices.
func Restructure(rows []domain.TaxonomyRow) ([]domain.GephiNode, []domain.GephiEdge) {
	nodes := make([]domain.GephiNode, 0, len(rows))
	edges := make([]domain.GephiEdge, 0, 2*len(rows))

	seen := make(map[string]struct{}, len(rows))
	addNode := func(label string) {
		if _, ok := seen[label]; ok {
			return
		}
		seen[label] = struct{}{}
		nodes = append(nodes, domain.GephiNode{NodeLabel: label})
	}

	for _, row := range rows {
		addNode(row.MacroTopic)
		addNode(row.Topic)
		addNode(row.SubTopic)

		edges = append(edges,
			domain.GephiEdge{
				Source: row.MacroTopic,
				Target: row.Topic,
				Type:   domain.EdgeTypeUndirected,
			},
			domain.GephiEdge{
				Source: row.Topic,
				Target: row.SubTopic,
				Type:   domain.EdgeTypeUndirected,
			},
		)
	}

	return nodes, edges
}
