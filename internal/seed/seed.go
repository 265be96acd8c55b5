package seed

import (
	"context"
	"fmt"

	"github.com/kedaya2025/FastNav/internal/repository"
)

// Summary counts the records written by Apply.
type Summary struct {
	Categories int `json:"categories"`
	Websites   int `json:"websites"`
	Settings   int `json:"settings"`
}

// Apply writes the default dataset through the durable stores. It is
// idempotent: every write is an upsert by primary key.
func Apply(ctx context.Context, stores repository.Stores) (Summary, error) {
	return ApplyDataset(ctx, stores, Defaults())
}

// ApplyDataset upserts categories first so websites can reference them.
func ApplyDataset(ctx context.Context, stores repository.Stores, ds Dataset) (Summary, error) {
	if err := stores.Categories.UpsertMany(ctx, ds.Categories); err != nil {
		return Summary{}, fmt.Errorf("seed categories: %w", err)
	}
	if err := stores.Websites.UpsertMany(ctx, ds.Websites); err != nil {
		return Summary{}, fmt.Errorf("seed websites: %w", err)
	}
	if err := stores.Settings.SetMultiple(ctx, ds.Settings); err != nil {
		return Summary{}, fmt.Errorf("seed settings: %w", err)
	}
	return Summary{
		Categories: len(ds.Categories),
		Websites:   len(ds.Websites),
		Settings:   len(ds.Settings),
	}, nil
}
