package model

import (
	"math"
	"time"
)

type Dimension string

const (
	DimensionOverall   Dimension = "overall"
	DimensionEnjoyment Dimension = "enjoyment"
	DimensionCritique  Dimension = "critique"
	DimensionPlot      Dimension = "plot"
	DimensionCharacter Dimension = "character"
	DimensionSetting   Dimension = "setting"
	DimensionTheme     Dimension = "theme"
	DimensionProse     Dimension = "prose"
)

// Dimensions in canonical order.
var Dimensions = []Dimension{
	DimensionOverall,
	DimensionEnjoyment,
	DimensionCritique,
	DimensionPlot,
	DimensionCharacter,
	DimensionSetting,
	DimensionTheme,
	DimensionProse,
}

var dimensionDisplay = map[Dimension]string{
	DimensionOverall:   "Overall",
	DimensionEnjoyment: "Enjoyment",
	DimensionCritique:  "Critique",
	DimensionPlot:      "Plot",
	DimensionCharacter: "Character Development",
	DimensionSetting:   "Setting/World Building",
	DimensionTheme:     "Themes",
	DimensionProse:     "Prose/Writing Style",
}

func (d Dimension) Valid() bool {
	_, ok := dimensionDisplay[d]
	return ok
}

func (d Dimension) Display() string {
	return dimensionDisplay[d]
}

// ValidRatingValue accepts 0.5 through 5.0 in half-point steps.
func ValidRatingValue(v float64) bool {
	if math.IsNaN(v) || v < 0.5 || v > 5.0 {
		return false
	}
	return v*2 == math.Trunc(v*2)
}

// RatingKeys are the rating distribution buckets, lowest first.
var RatingKeys = []string{"0.5", "1.0", "1.5", "2.0", "2.5", "3.0", "3.5", "4.0", "4.5", "5.0"}

type Rating struct {
	ID                int       `json:"id" db:"id"`
	RatingType        Dimension `json:"rating_type" db:"rating_type"`
	RatingTypeDisplay string    `json:"rating_type_display" db:"-"`
	Rating            float64   `json:"rating" db:"rating"`
	Review            string    `json:"review" db:"review"`
	BookTitle         string    `json:"book_title" db:"book_title"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

type RatingValue struct {
	Dimension Dimension
	Value     float64
	Review    string
}

type RateRequest struct {
	Ratings map[string]float64 `json:"ratings"`
	Review  string             `json:"review"`
}

type RatingsResponse struct {
	Message string   `json:"message,omitempty"`
	Ratings []Rating `json:"ratings"`
}
