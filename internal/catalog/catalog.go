// Package catalog holds the read-only reference table of foods and their
// per-100g nutrient coefficients.
package catalog

import (
	"bytes"
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/diewo77/food-tracker/internal/models"
)

//go:embed food_data.csv
var defaultData []byte

// ErrUnknownFood is returned when a food name is not present in the catalog.
var ErrUnknownFood = errors.New("unknown food")

// Entry is one catalog row. Macros are expressed per 100g.
type Entry struct {
	FoodName string
	models.Macros
}

// Catalog is an immutable, in-memory food table.
type Catalog struct {
	entries []Entry
	byName  map[string]int
	names   []string
}

var requiredColumns = []string{"food_name", "fats", "carbs", "proteins", "calories"}

// Default returns the catalog bundled with the binary.
func Default() (*Catalog, error) {
	return Parse(bytes.NewReader(defaultData))
}

// Load reads a catalog CSV from path. An empty path yields the default catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	c, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse reads a CSV with a header row naming at least the columns
// food_name, fats, carbs, proteins and calories (any order, extra columns
// ignored). When a name appears more than once the first row wins.
func Parse(r io.Reader) (*Catalog, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty catalog")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}
	cr.FieldsPerRecord = len(header)

	c := &Catalog{byName: map[string]int{}}
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		name := strings.TrimSpace(rec[idx["food_name"]])
		if name == "" {
			return nil, fmt.Errorf("line %d: empty food_name", line)
		}
		var vals [4]float64
		for i, col := range requiredColumns[1:] {
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[idx[col]]), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: column %s: %w", line, col, err)
			}
			vals[i] = v
		}
		c.entries = append(c.entries, Entry{
			FoodName: name,
			Macros:   models.Macros{Fats: vals[0], Carbs: vals[1], Proteins: vals[2], Calories: vals[3]},
		})
		if _, dup := c.byName[name]; !dup {
			c.byName[name] = len(c.entries) - 1
			c.names = append(c.names, name)
		}
	}
	return c, nil
}

// Lookup returns the entry for name.
func (c *Catalog) Lookup(name string) (Entry, error) {
	i, ok := c.byName[name]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownFood, name)
	}
	return c.entries[i], nil
}

// Names returns the distinct food names in file order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Entries returns one entry per distinct name, in file order.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, 0, len(c.names))
	for _, n := range c.names {
		out = append(out, c.entries[c.byName[n]])
	}
	return out
}

// Len reports the number of distinct foods.
func (c *Catalog) Len() int { return len(c.names) }
