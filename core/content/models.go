package content

import (
	"time"
)

// Content types
const (
	TypeMaterial   = "material"
	TypeAssessment = "assessment"
)

type (
	// Material is a standalone piece of learning content backed by an uploaded file.
	// ID and CreatedAt are assigned by the store; FileURL is set once at creation
	// and never changes afterwards (re-upload is not supported).
	Material struct {
		ID        string    `json:"id"`
		Title     string    `json:"title"`
		CoverURL  string    `json:"imageUrl"`
		FileURL   string    `json:"fileUrl"`
		CreatedAt time.Time `json:"createdAt"` // UTC
	}

	// Assessment is a quiz: a title, a cover and an ordered list of questions.
	// Insertion order of Questions is display order.
	Assessment struct {
		ID        string     `json:"id"`
		Title     string     `json:"title"`
		CoverURL  string     `json:"imageUrl"`
		Questions []Question `json:"questions"`
		CreatedAt time.Time  `json:"createdAt"` // UTC
	}

	// Item is a Material or an Assessment tagged with its variant,
	// as shown in the merged content listing.
	Item struct {
		ID        string     `json:"id"`
		Type      string     `json:"type"`
		Title     string     `json:"title"`
		CoverURL  string     `json:"imageUrl"`
		FileURL   string     `json:"fileUrl,omitempty"`
		Questions []Question `json:"questions,omitempty"`
		CreatedAt time.Time  `json:"createdAt"`
	}
)

func (m Material) Item() Item {
	return Item{
		ID:        m.ID,
		Type:      TypeMaterial,
		Title:     m.Title,
		CoverURL:  m.CoverURL,
		FileURL:   m.FileURL,
		CreatedAt: m.CreatedAt,
	}
}

func (a Assessment) Item() Item {
	return Item{
		ID:        a.ID,
		Type:      TypeAssessment,
		Title:     a.Title,
		CoverURL:  a.CoverURL,
		Questions: a.Questions,
		CreatedAt: a.CreatedAt,
	}
}

// Cover is an entry of the fixed cover-image catalogs.
type Cover struct {
	ID   int    `json:"id"`
	URL  string `json:"url"`
	Name string `json:"name"`
}

// IsZero reports whether no cover has been picked.
func (c Cover) IsZero() bool {
	return c == Cover{}
}

// Predefined cover images, one catalog per content type. Not persisted;
// only the selected URL ends up on the content document.
var (
	MaterialCovers = []Cover{
		{ID: 1, URL: "https://via.placeholder.com/80", Name: "Counting Stars"},
		{ID: 2, URL: "https://via.placeholder.com/80", Name: "ABC Blocks"},
		{ID: 3, URL: "https://via.placeholder.com/80", Name: "Happy Shapes"},
		{ID: 4, URL: "https://via.placeholder.com/80", Name: "Cute Animals"},
		{ID: 5, URL: "https://via.placeholder.com/80", Name: "Story Land"},
	}

	AssessmentCovers = []Cover{
		{ID: 6, URL: "https://via.placeholder.com/80", Name: "Quiz Stars"},
		{ID: 7, URL: "https://via.placeholder.com/80", Name: "Brain Games"},
		{ID: 8, URL: "https://via.placeholder.com/80", Name: "Math Magic"},
		{ID: 9, URL: "https://via.placeholder.com/80", Name: "Word Hunt"},
		{ID: 10, URL: "https://via.placeholder.com/80", Name: "Fun Challenge"},
	}
)

// Covers returns the catalog for the given content type.
func Covers(ctype string) []Cover {
	if ctype == TypeAssessment {
		return AssessmentCovers
	}
	return MaterialCovers
}

// CoverByID finds a catalog entry by id.
func CoverByID(catalog []Cover, id int) (Cover, bool) {
	for _, c := range catalog {
		if c.ID == id {
			return c, true
		}
	}
	return Cover{}, false
}

// CurrentCover is the synthetic catalog entry representing the present cover
// of an item being edited; offered alongside the fixed catalog.
func CurrentCover(url string) Cover {
	return Cover{URL: url, Name: "Current Cover"}
}
