package model

import "strings"

// Category is the fixed set of areas a task can belong to.
type Category string

const (
	CategoryWork     Category = "work"
	CategoryPersonal Category = "personal"
	CategoryHealth   Category = "health"
	CategoryOther    Category = "other"
)

// Categories lists every valid category in display order.
var Categories = []Category{CategoryWork, CategoryPersonal, CategoryHealth, CategoryOther}

// ParseCategory maps free text to a category. Anything unknown is other.
func ParseCategory(raw string) Category {
	switch Category(strings.ToLower(strings.TrimSpace(raw))) {
	case CategoryWork:
		return CategoryWork
	case CategoryPersonal:
		return CategoryPersonal
	case CategoryHealth:
		return CategoryHealth
	default:
		return CategoryOther
	}
}

func (c Category) Emoji() string {
	switch c {
	case CategoryWork:
		return "💼"
	case CategoryPersonal:
		return "🙋"
	case CategoryHealth:
		return "💪"
	default:
		return "📌"
	}
}
