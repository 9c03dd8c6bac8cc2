package domain

// KPIMetric is one headline figure on the analytics dashboard.
type KPIMetric struct {
	Label  string  `json:"label"`
	Value  float64 `json:"value"`
	Unit   string  `json:"unit"`
	Status string  `json:"status"` // "excellent", "good", "fair", "poor"
}

// PerformanceTrend is the per-question score series.
type PerformanceTrend struct {
	Question int     `json:"question"`
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback"`
}

// SkillBreakdown is one slice of the skill distribution.
type SkillBreakdown struct {
	Skill      string  `json:"skill"`
	Percentage float64 `json:"percentage"`
	Color      string  `json:"color"`
}

// CategoryPerformance is one bar of the category score chart.
type CategoryPerformance struct {
	Category string  `json:"category"`
	Score    float64 `json:"score"`
	MaxScore float64 `json:"maxScore"`
}

// Dashboard is the full precomputed analytics report.
type Dashboard struct {
	KPIs                []KPIMetric           `json:"kpis"`
	PerformanceTrend    []PerformanceTrend    `json:"performanceTrend"`
	SkillBreakdown      []SkillBreakdown      `json:"skillBreakdown"`
	CategoryPerformance []CategoryPerformance `json:"categoryPerformance"`
	Strengths           []string              `json:"strengths"`
	Improvements        []string              `json:"improvements"`
	Recommendation      string                `json:"recommendation"`
	OverallScore        float64               `json:"overallScore"`
}

// Report bundles the end-of-session results. Feedback is the best-effort
// narrative; Dashboard may be nil when the analytics call failed.
type Report struct {
	Feedback         string             `json:"feedback"`
	Dashboard        *Dashboard         `json:"dashboard,omitempty"`
	DifficultyScores map[string]float64 `json:"difficultyScores,omitempty"`
}
