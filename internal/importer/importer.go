// Package importer loads bookmark CSV exports into the durable stores.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/kedaya2025/FastNav/internal/domain"
	"github.com/kedaya2025/FastNav/internal/logger"
	"github.com/kedaya2025/FastNav/internal/validator"
)

// DefaultCategoryIcon is used for categories declared without an icon.
const DefaultCategoryIcon = "Folder"

type CategoryWriter interface {
	UpsertMany(ctx context.Context, cs []domain.Category) error
}

type WebsiteWriter interface {
	UpsertMany(ctx context.Context, ws []domain.Website) error
}

// Summary counts the imported records.
type Summary struct {
	Categories int
	Websites   int
}

// CSVImporter reads bookmark rows and upserts them. Required columns are
// name, url and category; id, description, icon, color, category_name and
// category_icon are optional. A row with category_name also upserts its
// category.
type CSVImporter struct {
	reader     *csv.Reader
	categories CategoryWriter
	websites   WebsiteWriter
	validate   *validator.Validator
	newID      func() string
	log        *logger.Logger
}

func NewCSVImporter(r io.Reader, categories CategoryWriter, websites WebsiteWriter, log *logger.Logger) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	if log == nil {
		log = logger.Nop()
	}
	return &CSVImporter{
		reader:     csvr,
		categories: categories,
		websites:   websites,
		validate:   validator.New(),
		newID:      uuid.NewString,
		log:        log.Named("importer"),
	}
}

var requiredColumns = []string{"name", "url", "category"}

// Run parses every row, validates the whole file, then upserts categories
// before websites. Nothing is written when any row is invalid.
func (i *CSVImporter) Run(ctx context.Context) (Summary, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return Summary{}, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return Summary{}, domain.NewValidationError("missing required column %q", col)
		}
	}

	var (
		websites   []domain.Website
		categories []domain.Category
		seenSite   = map[string]int{}
		seenCat    = map[string]int{}
		line       = 1
	)
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return Summary{}, fmt.Errorf("read row %d: %w", line, err)
		}
		if blank(record) {
			continue
		}

		w := i.parseWebsite(record, index)
		if prev, ok := seenSite[w.ID]; ok {
			websites[prev] = w
		} else {
			seenSite[w.ID] = len(websites)
			websites = append(websites, w)
		}

		if name := pick(record, index, "category_name"); name != "" {
			c := domain.Category{ID: w.Category, Name: name, Icon: pick(record, index, "category_icon")}
			if c.Icon == "" {
				c.Icon = DefaultCategoryIcon
			}
			if prev, ok := seenCat[c.ID]; ok {
				categories[prev] = c
			} else {
				seenCat[c.ID] = len(categories)
				categories = append(categories, c)
			}
		}
	}

	if err := validator.ValidateAll(i.validate, "categories", categories); err != nil {
		return Summary{}, err
	}
	if err := validator.ValidateAll(i.validate, "websites", websites); err != nil {
		return Summary{}, err
	}

	if len(categories) > 0 {
		if err := i.categories.UpsertMany(ctx, categories); err != nil {
			return Summary{}, fmt.Errorf("upsert categories: %w", err)
		}
	}
	if len(websites) > 0 {
		if err := i.websites.UpsertMany(ctx, websites); err != nil {
			return Summary{Categories: len(categories)}, fmt.Errorf("upsert websites: %w", err)
		}
	}

	i.log.Info().Int("categories", len(categories)).Int("websites", len(websites)).Msg("csv import finished")
	return Summary{Categories: len(categories), Websites: len(websites)}, nil
}

// parseWebsite builds a website from one row. A missing id is generated and
// a missing description falls back to the name.
func (i *CSVImporter) parseWebsite(record []string, index map[string]int) domain.Website {
	w := domain.Website{
		ID:          pick(record, index, "id"),
		Name:        pick(record, index, "name"),
		URL:         pick(record, index, "url"),
		Description: pick(record, index, "description"),
		Category:    pick(record, index, "category"),
		Icon:        pick(record, index, "icon"),
		Color:       pick(record, index, "color"),
	}
	if w.ID == "" {
		w.ID = i.newID()
	}
	if w.Description == "" {
		w.Description = w.Name
	}
	return w
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	return idx
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
