package domain

// Source taxonomy tables owned by the QnA platform. The exporter only reads
// them; table and column casing follows the upstream schema verbatim, so GORM
// names are pinned explicitly and mixed-case identifiers must be quoted in
// raw SQL.

type Macrotopic struct {
	ID     int64  `gorm:"column:id;primaryKey" json:"id"`
	Name   string `gorm:"column:name;not null" json:"name"`
	Status int    `gorm:"column:Status;not null;default:0" json:"status"`
}

func (Macrotopic) TableName() string { return "Macrotopic" }

type Topic struct {
	ID           int64  `gorm:"column:id;primaryKey" json:"id"`
	Name         string `gorm:"column:name;not null" json:"name"`
	MacrotopicID int64  `gorm:"column:macrotopicid;not null;index" json:"macrotopicid"`
	Status       int    `gorm:"column:Status;not null;default:0" json:"status"`
}

func (Topic) TableName() string { return "Topic" }

type QnaSubtopic struct {
	ID      int64  `gorm:"column:id;primaryKey" json:"id"`
	Name    string `gorm:"column:name;not null" json:"name"`
	TopicID int64  `gorm:"column:topicid;not null;index" json:"topicid"`
	Status  int    `gorm:"column:Status;not null;default:0" json:"status"`
}

func (QnaSubtopic) TableName() string { return "qnaSubtopic" }

// TaxonomyRow is one flattened row of the macrotopic -> topic -> subtopic
// join. It exists only in memory for the duration of a run.
type TaxonomyRow struct {
	SubTopic   string `gorm:"column:subtopic"`
	Topic      string `gorm:"column:topic"`
	MacroTopic string `gorm:"column:macrotopic"`
}
