package models

import (
	"sort"
	"strings"
	"time"
)

type PlantType string

const (
	PlantSunflower PlantType = "sunflower"
	PlantRose      PlantType = "rose"
	PlantCactus    PlantType = "cactus"
	PlantFern      PlantType = "fern"
	PlantTulip     PlantType = "tulip"
	PlantOrchid    PlantType = "orchid"
)

// PlantTypes returns every plant in display order.
func PlantTypes() []PlantType {
	return []PlantType{PlantSunflower, PlantRose, PlantCactus, PlantFern, PlantTulip, PlantOrchid}
}

// ParsePlantType accepts a plant name in any case.
func ParsePlantType(s string) (PlantType, bool) {
	p := PlantType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range PlantTypes() {
		if p == known {
			return p, true
		}
	}
	return "", false
}

// Glyph returns the emoji used to draw the plant.
func (p PlantType) Glyph() string {
	switch p {
	case PlantSunflower:
		return "🌻"
	case PlantRose:
		return "🌹"
	case PlantCactus:
		return "🌵"
	case PlantFern:
		return "🌿"
	case PlantTulip:
		return "🌷"
	case PlantOrchid:
		return "🌺"
	default:
		return "🌱"
	}
}

// Position places a habit on the garden canvas.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// CheckIn records that a habit was performed on a calendar day.
type CheckIn struct {
	Date string `json:"date"` // YYYY-MM-DD format
}

// Habit represents a tracked practice with a fixed target duration in days
type Habit struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Duration    int       `json:"duration"` // days
	PlantType   PlantType `json:"plant_type"`
	CreatedAt   time.Time `json:"created_at"`
	CheckIns    []CheckIn `json:"check_ins"` // chronological, one per day
	Position    Position  `json:"position"`
}

// HasCheckIn reports whether the habit was checked in on day.
func (h Habit) HasCheckIn(day string) bool {
	i := sort.Search(len(h.CheckIns), func(i int) bool { return h.CheckIns[i].Date >= day })
	return i < len(h.CheckIns) && h.CheckIns[i].Date == day
}
