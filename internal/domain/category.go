package domain

import "time"

// Category groups websites on the navigation page. ID is a stable slug.
type Category struct {
	ID        string    `json:"id" validate:"required,max=64,recordid"`
	Name      string    `json:"name" validate:"required,max=100"`
	Icon      string    `json:"icon" validate:"required,max=64"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CategoryPatch carries the fields of a partial category update. Nil fields are left untouched.
type CategoryPatch struct {
	Name *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Icon *string `json:"icon,omitempty" validate:"omitempty,min=1,max=64"`
}

// Empty reports whether the patch changes nothing.
func (p CategoryPatch) Empty() bool {
	return p.Name == nil && p.Icon == nil
}

// Apply returns c with the patch applied.
func (p CategoryPatch) Apply(c Category) Category {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Icon != nil {
		c.Icon = *p.Icon
	}
	return c
}
