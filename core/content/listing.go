package content

import (
	"sort"
	"time"
)

// FilterMode selects which content types the merged listing shows.
type FilterMode string

const (
	FilterAll         FilterMode = "all"
	FilterMaterials   FilterMode = "materials"
	FilterAssessments FilterMode = "assessments"
)

// SortOrder orders the listing by creation time.
type SortOrder string

const (
	SortNewest SortOrder = "newest"
	SortOldest SortOrder = "oldest"
)

// MergeItems combines materials and assessments into a single tagged list.
func MergeItems(materials []Material, assessments []Assessment) []Item {
	items := make([]Item, 0, len(materials)+len(assessments))
	for _, m := range materials {
		items = append(items, m.Item())
	}
	for _, a := range assessments {
		items = append(items, a.Item())
	}
	return items
}

// FilterItems keeps the items matching the mode; an unknown mode keeps all.
func FilterItems(items []Item, mode FilterMode) []Item {
	if mode == FilterAll || mode == "" {
		return items
	}
	filtered := make([]Item, 0, len(items))
	for _, it := range items {
		switch mode {
		case FilterMaterials:
			if it.Type == TypeMaterial {
				filtered = append(filtered, it)
			}
		case FilterAssessments:
			if it.Type == TypeAssessment {
				filtered = append(filtered, it)
			}
		default:
			filtered = append(filtered, it)
		}
	}
	return filtered
}

// SortItems orders items by creation time, stable so items with equal
// timestamps keep their merge order. An item missing its timestamp is
// treated as just created.
func SortItems(items []Item, order SortOrder) {
	now := time.Now().UTC()
	at := func(it Item) time.Time {
		if it.CreatedAt.IsZero() {
			return now
		}
		return it.CreatedAt
	}
	sort.SliceStable(items, func(i, j int) bool {
		if order == SortOldest {
			return at(items[i]).Before(at(items[j]))
		}
		return at(items[i]).After(at(items[j]))
	})
}
