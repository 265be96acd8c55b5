package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestWebsitePatchApplyKeepsUntouchedFields(t *testing.T) {
	w := Website{ID: "w1", Name: "GitHub", URL: "https://github.com", Description: "Code", Category: "dev", Icon: "Github"}

	got := WebsitePatch{ID: "other", Description: strPtr("Where code lives"), Icon: strPtr("")}.Apply(w)

	assert.Equal(t, "w1", got.ID)
	assert.Equal(t, "GitHub", got.Name)
	assert.Equal(t, "Where code lives", got.Description)
	assert.Empty(t, got.Icon)
}

func TestWebsitePatchEmptyAndCreate(t *testing.T) {
	assert.True(t, WebsitePatch{ID: "w1"}.Empty())

	p := WebsitePatch{ID: "w1", Name: strPtr("Go"), URL: strPtr("https://go.dev"), Description: strPtr("Go"), Category: strPtr("dev")}
	assert.False(t, p.Empty())
	assert.Equal(t, Website{ID: "w1", Name: "Go", URL: "https://go.dev", Description: "Go", Category: "dev"}, p.Website())
}

func TestCategoryPatch(t *testing.T) {
	assert.True(t, CategoryPatch{}.Empty())

	c := CategoryPatch{Icon: strPtr("Terminal")}.Apply(Category{ID: "c1", Name: "Dev", Icon: "Code"})
	assert.Equal(t, Category{ID: "c1", Name: "Dev", Icon: "Terminal"}, c)
}
