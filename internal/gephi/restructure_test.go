package gephi

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/qnadesk/gephi-export/internal/domain"
)

func TestRestructureWorkedExample(t *testing.T) {
	rows := []domain.TaxonomyRow{
		{SubTopic: "A", Topic: "B", MacroTopic: "C"},
		{SubTopic: "D", Topic: "B", MacroTopic: "C"},
	}

	nodes, edges := Restructure(rows)

	wantNodes := []domain.GephiNode{
		{NodeLabel: "C"},
		{NodeLabel: "B"},
		{NodeLabel: "A"},
		{NodeLabel: "D"},
	}
	if !reflect.DeepEqual(nodes, wantNodes) {
		t.Fatalf("nodes = %v, want %v", nodes, wantNodes)
	}

	wantEdges := []domain.GephiEdge{
		{Source: "C", Target: "B", Type: "undirected"},
		{Source: "B", Target: "A", Type: "undirected"},
		{Source: "C", Target: "B", Type: "undirected"},
		{Source: "B", Target: "D", Type: "undirected"},
	}
	if !reflect.DeepEqual(edges, wantEdges) {
		t.Fatalf("edges = %v, want %v", edges, wantEdges)
	}
}

func TestRestructureKeepsDuplicateEdges(t *testing.T) {
	rows := []domain.TaxonomyRow{
		{SubTopic: "A", Topic: "B", MacroTopic: "C"},
		{SubTopic: "D", Topic: "B", MacroTopic: "C"},
	}

	_, edges := Restructure(rows)

	dupes := 0
	for _, e := range edges {
		if e.Source == "C" && e.Target == "B" {
			dupes++
		}
	}
	if dupes != 2 {
		t.Fatalf("expected the C->B edge twice (one per row), got %d", dupes)
	}
}

func TestRestructureEmptyInput(t *testing.T) {
	nodes, edges := Restructure(nil)
	if nodes == nil || edges == nil {
		t.Fatalf("empty input should yield non-nil slices")
	}
	if len(nodes) != 0 || len(edges) != 0 {
		t.Fatalf("empty input should yield empty output, got %d nodes %d edges", len(nodes), len(edges))
	}
}

func TestRestructureCountBounds(t *testing.T) {
	var rows []domain.TaxonomyRow
	for i := 0; i < 17; i++ {
		rows = append(rows, domain.TaxonomyRow{
			SubTopic:   fmt.Sprintf("sub-%d", i),
			Topic:      fmt.Sprintf("topic-%d", i%5),
			MacroTopic: fmt.Sprintf("macro-%d", i%2),
		})
	}

	nodes, edges := Restructure(rows)

	if len(edges) != 2*len(rows) {
		t.Fatalf("edge count = %d, want exactly %d (two per row)", len(edges), 2*len(rows))
	}
	if len(nodes) < 1 || len(nodes) > 3*len(rows) {
		t.Fatalf("node count = %d, want within [1, %d]", len(nodes), 3*len(rows))
	}
	// 2 macros + 5 topics + 17 subs, no label shared across levels.
	if len(nodes) != 24 {
		t.Fatalf("node count = %d, want 24", len(nodes))
	}
	for _, e := range edges {
		if e.Type != domain.EdgeTypeUndirected {
			t.Fatalf("edge %v has type %q, want %q", e, e.Type, domain.EdgeTypeUndirected)
		}
	}
}

func TestRestructureDedupsAcrossLevels(t *testing.T) {
	// The same label at two hierarchy levels is still one node.
	rows := []domain.TaxonomyRow{
		{SubTopic: "Optics", Topic: "Physics", MacroTopic: "Science"},
		{SubTopic: "Physics", Topic: "Curriculum", MacroTopic: "Science"},
	}

	nodes, _ := Restructure(rows)

	count := map[string]int{}
	for _, n := range nodes {
		count[n.NodeLabel]++
	}
	if count["Physics"] != 1 {
		t.Fatalf("label used at two levels should dedup to one node, got %d", count["Physics"])
	}
	if len(nodes) != 4 {
		t.Fatalf("node count = %d, want 4 (Science, Physics, Optics, Curriculum)", len(nodes))
	}
}

func TestRestructureDeterministic(t *testing.T) {
	rows := []domain.TaxonomyRow{
		{SubTopic: "a", Topic: "b", MacroTopic: "c"},
		{SubTopic: "d", Topic: "e", MacroTopic: "c"},
		{SubTopic: "a2", Topic: "b", MacroTopic: "f"},
	}

	nodes1, edges1 := Restructure(rows)
	nodes2, edges2 := Restructure(rows)

	if !reflect.DeepEqual(nodes1, nodes2) {
		t.Fatalf("node output should be deterministic: %v vs %v", nodes1, nodes2)
	}
	if !reflect.DeepEqual(edges1, edges2) {
		t.Fatalf("edge output should be deterministic: %v vs %v", edges1, edges2)
	}
}
