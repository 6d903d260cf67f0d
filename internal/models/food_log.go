package models

import "time"

// Macros holds the four tracked nutrient amounts.
// Catalog entries express them per 100g, log rows as absolute values.
type Macros struct {
	Fats     float64 `json:"fats"`
	Carbs    float64 `json:"carbs"`
	Proteins float64 `json:"proteins"`
	Calories float64 `json:"calories"`
}

// Add returns the component-wise sum of m and o.
func (m Macros) Add(o Macros) Macros {
	return Macros{
		Fats:     m.Fats + o.Fats,
		Carbs:    m.Carbs + o.Carbs,
		Proteins: m.Proteins + o.Proteins,
		Calories: m.Calories + o.Calories,
	}
}

// FoodLog is one recorded consumption of a catalog food at a given weight.
// Rows are append-only: macros are frozen at insertion time.
type FoodLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	FoodName  string    `gorm:"size:255;not null" json:"food_name"`
	Weight    float64   `gorm:"not null" json:"weight"` // grams
	Fats      float64   `gorm:"not null" json:"fats"`
	Carbs     float64   `gorm:"not null" json:"carbs"`
	Proteins  float64   `gorm:"not null" json:"proteins"`
	Calories  float64   `gorm:"not null" json:"calories"`
}

// Macros returns the row's absolute nutrient amounts.
func (f *FoodLog) Macros() Macros {
	return Macros{Fats: f.Fats, Carbs: f.Carbs, Proteins: f.Proteins, Calories: f.Calories}
}

// SetMacros copies m into the row's nutrient columns.
func (f *FoodLog) SetMacros(m Macros) {
	f.Fats = m.Fats
	f.Carbs = m.Carbs
	f.Proteins = m.Proteins
	f.Calories = m.Calories
}
