package domain

import "time"

// Website is a bookmark shown under exactly one category.
type Website struct {
	ID          string    `json:"id" validate:"required,max=64,recordid"`
	Name        string    `json:"name" validate:"required,max=100"`
	URL         string    `json:"url" validate:"required,url,max=2048"`
	Description string    `json:"description" validate:"required,max=500"`
	Category    string    `json:"category" validate:"required,max=64,recordid"`
	Icon        string    `json:"icon,omitempty" validate:"omitempty,max=64"`
	Color       string    `json:"color,omitempty" validate:"omitempty,hexcolor"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// WebsitePatch is the partial input of saveWebsite. ID selects the target;
// nil fields are left untouched on update.
type WebsitePatch struct {
	ID          string  `json:"id,omitempty" validate:"omitempty,max=64,recordid"`
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	URL         *string `json:"url,omitempty" validate:"omitempty,url,max=2048"`
	Description *string `json:"description,omitempty" validate:"omitempty,min=1,max=500"`
	Category    *string `json:"category,omitempty" validate:"omitempty,min=1,max=64"`
	Icon        *string `json:"icon,omitempty" validate:"omitempty,max=64"`
	Color       *string `json:"color,omitempty" validate:"omitempty,hexcolor"`
}

// Empty reports whether the patch changes no field.
func (p WebsitePatch) Empty() bool {
	return p.Name == nil && p.URL == nil && p.Description == nil &&
		p.Category == nil && p.Icon == nil && p.Color == nil
}

// Apply returns w with the patch applied. The id is never changed.
func (p WebsitePatch) Apply(w Website) Website {
	if p.Name != nil {
		w.Name = *p.Name
	}
	if p.URL != nil {
		w.URL = *p.URL
	}
	if p.Description != nil {
		w.Description = *p.Description
	}
	if p.Category != nil {
		w.Category = *p.Category
	}
	if p.Icon != nil {
		w.Icon = *p.Icon
	}
	if p.Color != nil {
		w.Color = *p.Color
	}
	return w
}

// Website builds a full record from the patch, for the create path.
func (p WebsitePatch) Website() Website {
	return p.Apply(Website{ID: p.ID})
}
