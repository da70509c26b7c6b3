package model

// Claim represents an atomic, independently verifiable factual statement
// extracted from input text. Claims are immutable once created and live only
// for the duration of one analysis request.
type Claim struct {
	Text         string          `json:"claim"`        // The claim text, pronouns resolved
	Uncommonness int             `json:"uncommonness"` // 0-100, how unusual the claim is
	Tag          PlausibilityTag `json:"tag"`          // Display tag derived from uncommonness
}

// PlausibilityTag is the discrete plausibility bucket shown to users.
// Values are the original Chinese display strings.
type PlausibilityTag string

const (
	TagVeryCommon    PlausibilityTag = "非常常见" // very common
	TagQuestionable  PlausibilityTag = "存疑待考" // questionable, worth scrutiny
	TagLowLikelihood PlausibilityTag = "可能性较低" // low likelihood
	TagImplausible   PlausibilityTag = "几乎不可能" // almost impossible
)

// DefaultUncommonness is assigned to claims produced by the sentence
// segmentation fallback, where no model judgment is available.
const DefaultUncommonness = 50

// TagForUncommonness maps an uncommonness score to its plausibility bucket.
// Total on [0,100]: 30 and 60 belong to the lower bucket, 75 is the first
// value of the top bucket.
func TagForUncommonness(uncommonness int) PlausibilityTag {
	switch {
	case uncommonness <= 30:
		return TagVeryCommon
	case uncommonness <= 60:
		return TagQuestionable
	case uncommonness < 75:
		return TagLowLikelihood
	default:
		return TagImplausible
	}
}
