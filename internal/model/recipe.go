package model

import (
	"database/sql/driver"
	"regexp"
	"strings"
)

var quotedSegment = regexp.MustCompile(`"([^"]*)"`)

// ParseQuoted extracts every quoted segment of s in left-to-right order.
// Input without quoted segments yields an empty, non-nil slice.
func ParseQuoted(s string) []string {
	matches := quotedSegment.FindAllStringSubmatch(s, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}

// ParseQuotedValue normalizes any stored representation of an ingredient or
// instruction field into an ordered list. Unknown types yield an empty list.
func ParseQuotedValue(value interface{}) []string {
	switch v := value.(type) {
	case string:
		return ParseQuoted(v)
	case []byte:
		return ParseQuoted(string(v))
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	default:
		return []string{}
	}
}

// QuotedList is an ordered list of strings persisted in the dataset's
// c("a", "b") encoding.
type QuotedList []string

// Value implements the driver.Valuer interface
func (l QuotedList) Value() (driver.Value, error) {
	return l.Encode(), nil
}

// Scan implements the sql.Scanner interface
func (l *QuotedList) Scan(value interface{}) error {
	*l = ParseQuotedValue(value)
	return nil
}

// Encode renders the list in the dataset encoding. Embedded double quotes
// cannot be represented and are replaced with single quotes.
func (l QuotedList) Encode() string {
	if len(l) == 0 {
		return "character(0)"
	}
	parts := make([]string, len(l))
	for i, s := range l {
		parts[i] = `"` + strings.ReplaceAll(s, `"`, `'`) + `"`
	}
	return "c(" + strings.Join(parts, ", ") + ")"
}

// Recipe is one row of the nutrition dataset.
type Recipe struct {
	ID                  uint       `gorm:"primaryKey" json:"-"`
	Name                string     `gorm:"type:text;not null" json:"Name"`
	CookTime            string     `gorm:"size:64" json:"CookTime"`
	PrepTime            string     `gorm:"size:64" json:"PrepTime"`
	TotalTime           string     `gorm:"size:64" json:"TotalTime"`
	Ingredients         QuotedList `gorm:"column:recipe_ingredient_parts;type:text;not null" json:"RecipeIngredientParts"`
	Calories            float64    `gorm:"type:float;not null" json:"Calories"`
	FatContent          float64    `gorm:"type:float;not null" json:"FatContent"`
	SaturatedFatContent float64    `gorm:"type:float;not null" json:"SaturatedFatContent"`
	CholesterolContent  float64    `gorm:"type:float;not null" json:"CholesterolContent"`
	SodiumContent       float64    `gorm:"type:float;not null" json:"SodiumContent"`
	CarbohydrateContent float64    `gorm:"type:float;not null" json:"CarbohydrateContent"`
	FiberContent        float64    `gorm:"type:float;not null" json:"FiberContent"`
	SugarContent        float64    `gorm:"type:float;not null" json:"SugarContent"`
	ProteinContent      float64    `gorm:"type:float;not null" json:"ProteinContent"`
	Instructions        QuotedList `gorm:"column:recipe_instructions;type:text;not null" json:"RecipeInstructions"`
}

// TableName pins the table name used by migrations and the seed command.
func (Recipe) TableName() string {
	return "recipes"
}

// Nutrients returns the recipe's nutrient values in NutrientColumns order.
func (r *Recipe) Nutrients() NutrientVector {
	return NutrientVector{
		r.Calories,
		r.FatContent,
		r.SaturatedFatContent,
		r.CholesterolContent,
		r.SodiumContent,
		r.CarbohydrateContent,
		r.FiberContent,
		r.SugarContent,
		r.ProteinContent,
	}
}

// SetNutrients assigns nutrient values from a vector in NutrientColumns order.
func (r *Recipe) SetNutrients(v NutrientVector) {
	r.Calories = v[0]
	r.FatContent = v[1]
	r.SaturatedFatContent = v[2]
	r.CholesterolContent = v[3]
	r.SodiumContent = v[4]
	r.CarbohydrateContent = v[5]
	r.FiberContent = v[6]
	r.SugarContent = v[7]
	r.ProteinContent = v[8]
}
