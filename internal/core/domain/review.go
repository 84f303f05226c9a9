package domain

// swagger:model domain.Review
type Review struct {
	Meta
	BikeID  string   `json:"bike_id" validate:"required"`
	UserID  string   `json:"user_id" validate:"required"`
	Title   string   `json:"title" validate:"max=200"`
	Content string   `json:"content"`
	Rating  float64  `json:"rating" validate:"gte=0,lte=5"`
	Pros    []string `json:"pros"`
	Cons    []string `json:"cons"`
}

type ReviewPatch struct {
	Title   *string   `json:"title,omitempty" validate:"omitempty,max=200"`
	Content *string   `json:"content,omitempty"`
	Rating  *float64  `json:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	Pros    *[]string `json:"pros,omitempty"`
	Cons    *[]string `json:"cons,omitempty"`
}
