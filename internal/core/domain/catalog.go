package domain

// swagger:model domain.Brand
type Brand struct {
	Meta
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description,omitempty"`
	Country     string `json:"country,omitempty"`
	LogoURL     string `json:"logo_url,omitempty" validate:"omitempty,url"`
}

type BrandPatch struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty"`
	Country     *string `json:"country,omitempty"`
	LogoURL     *string `json:"logo_url,omitempty" validate:"omitempty,url"`
}

// swagger:model domain.BikeType
type BikeType struct {
	Meta
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description,omitempty"`
}

type BikeTypePatch struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description,omitempty"`
}

// Resource is an article or guide linked from the platform.
//
// swagger:model domain.Resource
type Resource struct {
	Meta
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description,omitempty"`
	Content     string `json:"content,omitempty"`
	Type        string `json:"type,omitempty" validate:"max=50"` // article, video, guide
	URL         string `json:"url,omitempty" validate:"omitempty,url"`
}

type ResourcePatch struct {
	Title       *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description,omitempty"`
	Content     *string `json:"content,omitempty"`
	Type        *string `json:"type,omitempty" validate:"omitempty,max=50"`
	URL         *string `json:"url,omitempty" validate:"omitempty,url"`
}
