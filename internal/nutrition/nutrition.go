// Package nutrition scales per-100g catalog coefficients to absolute amounts.
package nutrition

import (
	"errors"
	"math"

	"github.com/diewo77/food-tracker/internal/catalog"
	"github.com/diewo77/food-tracker/internal/models"
)

// ErrNegativeWeight is returned by Scale for weights below zero or NaN.
var ErrNegativeWeight = errors.New("weight must be a finite, non-negative number of grams")

// Scale returns the entry's macros for grams of food:
// each value is coefficient * grams / 100.
func Scale(entry catalog.Entry, grams float64) (models.Macros, error) {
	if grams < 0 || math.IsNaN(grams) || math.IsInf(grams, 0) {
		return models.Macros{}, ErrNegativeWeight
	}
	return models.Macros{
		Fats:     entry.Fats * grams / 100,
		Carbs:    entry.Carbs * grams / 100,
		Proteins: entry.Proteins * grams / 100,
		Calories: entry.Calories * grams / 100,
	}, nil
}

// Sum totals the macros of rows.
func Sum(rows []models.FoodLog) models.Macros {
	var total models.Macros
	for i := range rows {
		total = total.Add(rows[i].Macros())
	}
	return total
}
