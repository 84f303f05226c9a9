package domain

import "strings"

// swagger:model domain.Bike
type Bike struct {
	Meta
	Name        string            `json:"name" validate:"required,max=200"`
	Brand       string            `json:"brand" validate:"required,max=100"`
	Model       string            `json:"model" validate:"max=100"` // CBR150R
	Year        int               `json:"year" validate:"gte=0"`
	Type        string            `json:"type" validate:"max=100"`
	Description string            `json:"description"`
	Price       float64           `json:"price" validate:"gte=0"`
	Specs       map[string]string `json:"specs"`
}

type BikePatch struct {
	Name        *string            `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Brand       *string            `json:"brand,omitempty" validate:"omitempty,min=1,max=100"`
	Model       *string            `json:"model,omitempty" validate:"omitempty,max=100"`
	Year        *int               `json:"year,omitempty" validate:"omitempty,gte=0"`
	Type        *string            `json:"type,omitempty" validate:"omitempty,max=100"`
	Description *string            `json:"description,omitempty"`
	Price       *float64           `json:"price,omitempty" validate:"omitempty,gte=0"`
	Specs       *map[string]string `json:"specs,omitempty"`
}

// BikeFilter narrows a bike listing. Empty fields match everything.
type BikeFilter struct {
	Brand string
	Type  string
	Query string
}

func (f BikeFilter) IsZero() bool {
	return f.Brand == "" && f.Type == "" && f.Query == ""
}

func (f BikeFilter) Match(b *Bike) bool {
	if f.Brand != "" && b.Brand != f.Brand {
		return false
	}
	if f.Type != "" && b.Type != f.Type {
		return false
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(b.Name), q) && !strings.Contains(strings.ToLower(b.Brand), q) {
			return false
		}
	}
	return true
}
