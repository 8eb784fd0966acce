package models

// ExcludedScore is the sentinel assigned to products the user purchased
// within the exclusion window; such products are dropped outright rather
// than down-weighted.
const ExcludedScore = -1

// ScoredProduct pairs a catalog product with its composite score and the
// diagnostic tags explaining where the score came from.
type ScoredProduct struct {
	Product Product  `json:"product"`
	Score   float64  `json:"score"`
	Reasons []string `json:"reasons,omitempty"`
}

// Excluded reports whether the product carries the exclusion sentinel.
func (s *ScoredProduct) Excluded() bool {
	return s.Score == ExcludedScore
}

// RecommendationResult is what the display layer consumes: a diversified
// personalized list and an independent trending list. The two may overlap.
type RecommendationResult struct {
	Recommended []Product `json:"recommended"`
	Trending    []Product `json:"trending"`
}
