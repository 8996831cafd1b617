package main

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"regexp"
	"strings"
)

// CatalogFile is the JSON layout accepted by the importer:
//
//	{"ingredients": [{"name": "flour", "measurement_unit": "g"}],
//	 "tags": [{"name": "Breakfast", "color": "#E26C2D", "slug": "breakfast"}]}
type CatalogFile struct {
	Ingredients []Ingredient `json:"ingredients"`
	Tags        []Tag        `json:"tags"`
}

type Ingredient struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

type Tag struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Slug  string `json:"slug"`
}

var (
	colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
	slugPattern  = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

func readCatalogFile(filename string) (*CatalogFile, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()
	return decodeCatalog(file)
}

func decodeCatalog(r io.Reader) (*CatalogFile, error) {
	var data CatalogFile
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}
	return &data, nil
}

// Validate normalizes the entries in place and reports every rule the server would reject.
func (c *CatalogFile) Validate() error {
	var errs []error
	seenProducts := make(map[string]bool, len(c.Ingredients))
	for i := range c.Ingredients {
		in := &c.Ingredients[i]
		in.Name = strings.TrimSpace(in.Name)
		in.MeasurementUnit = strings.TrimSpace(in.MeasurementUnit)
		switch {
		case in.Name == "" || in.MeasurementUnit == "":
			errs = append(errs, fmt.Errorf("ingredients[%d]: name and measurement_unit are required", i))
		case len(in.Name) > 200 || len(in.MeasurementUnit) > 200:
			errs = append(errs, fmt.Errorf("ingredients[%d]: values are limited to 200 characters", i))
		case seenProducts[in.Name]:
			errs = append(errs, fmt.Errorf("ingredients[%d]: duplicate name %q", i, in.Name))
		}
		seenProducts[in.Name] = true
	}

	seenSlugs := make(map[string]bool, len(c.Tags))
	for i := range c.Tags {
		t := &c.Tags[i]
		t.Name = strings.TrimSpace(t.Name)
		t.Color = strings.ToUpper(strings.TrimSpace(t.Color))
		switch {
		case t.Name == "":
			errs = append(errs, fmt.Errorf("tags[%d]: name is required", i))
		case !colorPattern.MatchString(t.Color):
			errs = append(errs, fmt.Errorf("tags[%d]: color %q is not #RRGGBB", i, t.Color))
		case !slugPattern.MatchString(t.Slug):
			errs = append(errs, fmt.Errorf("tags[%d]: slug %q is invalid", i, t.Slug))
		case seenSlugs[t.Slug]:
			errs = append(errs, fmt.Errorf("tags[%d]: duplicate slug %q", i, t.Slug))
		}
		seenSlugs[t.Slug] = true
	}
	return errors.Join(errs...)
}

// importProducts upserts by name. The unit of an existing product is overwritten.
func importProducts(tx *sql.Tx, ingredients []Ingredient) (int, error) {
	stmt, err := tx.Prepare(`
		INSERT INTO products (name, unit)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET unit = EXCLUDED.unit
		RETURNING id
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, in := range ingredients {
		var id int64
		if err := stmt.QueryRow(in.Name, in.MeasurementUnit).Scan(&id); err != nil {
			return i, fmt.Errorf("ingredient %s: %w", in.Name, err)
		}
		if (i+1)%100 == 0 || i == len(ingredients)-1 {
			log.Printf("  [%d/%d] ✓ %s (ID: %d)", i+1, len(ingredients), in.Name, id)
		}
	}
	return len(ingredients), nil
}

// importTags upserts by slug.
func importTags(tx *sql.Tx, tags []Tag) (int, error) {
	stmt, err := tx.Prepare(`
		INSERT INTO tags (name, color, slug)
		VALUES ($1, $2, $3)
		ON CONFLICT (slug) DO UPDATE SET
			name = EXCLUDED.name,
			color = EXCLUDED.color
		RETURNING id
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, t := range tags {
		var id int64
		if err := stmt.QueryRow(t.Name, t.Color, t.Slug).Scan(&id); err != nil {
			return i, fmt.Errorf("tag %s: %w", t.Slug, err)
		}
		log.Printf("  [%d/%d] ✓ %s (ID: %d)", i+1, len(tags), t.Slug, id)
	}
	return len(tags), nil
}
