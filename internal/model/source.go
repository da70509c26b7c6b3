package model

// SourceType classifies where a source came from
type SourceType string

const (
	SourceTypeNews       SourceType = "news"
	SourceTypeAcademic   SourceType = "academic"
	SourceTypeGovernment SourceType = "government"
	SourceTypeBlog       SourceType = "blog"
	SourceTypeWeb        SourceType = "web"
	SourceTypeWikipedia  SourceType = "wikipedia"
	SourceTypeOther      SourceType = "other"
)

// Source represents a piece of external evidence (article, paper, page)
// used to check claims against. Sources are passed by pointer so that the
// contribution score assigned after aggregation is visible through every
// list that references the same source.
type Source struct {
	Title      string     `json:"title"`
	Snippet    string     `json:"snippet"`
	Link       string     `json:"link"`
	SourceType SourceType `json:"source_type"`

	// Academic metadata, set only by scholarly connectors
	Authors   []string `json:"authors,omitempty"`
	Year      int      `json:"year,omitempty"`
	Journal   string   `json:"journal,omitempty"`
	Citations int      `json:"citations,omitempty"`
	Abstract  string   `json:"abstract,omitempty"`

	// ContributionScore is the maximum weighted similarity this source
	// achieved across all claims it supported. Undefined (zero) until the
	// orchestrator assigns it after aggregation.
	ContributionScore float64 `json:"contribution_score,omitempty"`
}
