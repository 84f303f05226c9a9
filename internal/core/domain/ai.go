package domain

type ReviewDraft struct {
	BikeID      string `json:"bike_id"`
	UserID      string `json:"user_id"`
	Content     string `json:"content"`
	AIGenerated bool   `json:"ai_generated"`
}

type ReviewAnalysis struct {
	ReviewID  string `json:"review_id"`
	Analysis  string `json:"analysis"`
	Sentiment string `json:"sentiment"`
}

type ReviewSummary struct {
	BikeID      string `json:"bike_id"`
	Summary     string `json:"summary"`
	ReviewCount int    `json:"review_count"`
}
