package domain

// Destination graph tables consumed by Gephi. Neither table carries a
// surrogate key: GephiNode rows are unique by construction (the transform
// dedups labels) and GephiEdges intentionally keeps duplicate pairs.

// EdgeTypeUndirected is the only edge type the exporter emits. Gephi treats
// the column as an enum; the hierarchy is rendered without direction.
const EdgeTypeUndirected = "undirected"

type GephiNode struct {
	NodeLabel string `gorm:"column:nodeLabel;not null" json:"nodeLabel"`
}

func (GephiNode) TableName() string { return "GephiNode" }

type GephiEdge struct {
	Source string `gorm:"column:source;not null" json:"source"`
	Target string `gorm:"column:target;not null" json:"target"`
	Type   string `gorm:"column:type;not null" json:"type"`
}

func (GephiEdge) TableName() string { return "GephiEdges" }
