package models

// Insight is one AI-generated observation. Detail rows have a dynamic shape
// decided by the generator, so they pass through untyped.
type Insight struct {
	Kind        string                   `json:"tipo"`
	Title       string                   `json:"titulo"`
	Description string                   `json:"descricao"`
	Suggestion  string                   `json:"sugestao"`
	Details     []map[string]interface{} `json:"detalhes"`
}

// InsightCategory groups insights for one area of the school.
type InsightCategory struct {
	Category string    `json:"categoria"`
	Color    string    `json:"cor"`
	Insights []Insight `json:"insights"`
}
