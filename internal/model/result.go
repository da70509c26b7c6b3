package model

// SimilarityResult is the transient judgment for one (claim, source) pair.
// It is folded into per-claim and per-source aggregates immediately and
// never stored beyond the scoring step that produced it.
type SimilarityResult struct {
	SimilarityScore float64 `json:"similarity_score"` // 0-1
	IsSupporting    bool    `json:"is_supporting"`    // always SimilarityScore > 0.3
	Explanation     string  `json:"explanation"`
}

// SourceScoreDetail records one supporting source for a claim with its
// source-type-weighted contribution.
type SourceScoreDetail struct {
	Source string     `json:"source"` // source title
	Score  float64    `json:"score"`  // weighted contribution
	Type   SourceType `json:"type"`
}

// ClaimScore aggregates scoring results for a single claim across all
// candidate sources.
type ClaimScore struct {
	TotalScore    float64             `json:"total_score"`  // best similarity achieved
	SourceCount   int                 `json:"source_count"` // supporting sources
	SourceDetails []SourceScoreDetail `json:"source_details"`
}

// FactCheckRequest is the inbound request shape for the check endpoint.
type FactCheckRequest struct {
	Text string `json:"text"`
	URL  string `json:"url,omitempty"`
}

// FactCheckResponse is the final analysis output. Constructed once per
// request and not mutated after return.
type FactCheckResponse struct {
	IsFact      bool    `json:"is_fact"`    // confidence > 0.6, strict
	Confidence  float64 `json:"confidence"` // 0-1
	Explanation string  `json:"explanation"`

	// Sources lists every source that supported at least one claim. A
	// source supporting multiple claims appears once per claim; duplicates
	// are deliberately preserved.
	Sources []*Source `json:"sources"`

	// AcademicSources is the subset of Sources with type academic.
	AcademicSources []*Source `json:"academic_sources"`
}
