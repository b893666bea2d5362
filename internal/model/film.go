package model

// Raw record field names, as emitted by the crawler.
const (
	FieldTitre       = "titre"
	FieldDuree       = "duree"
	FieldSalles      = "salles"
	FieldGenre       = "genre"
	FieldDateSortie  = "date_sortie"
	FieldPays        = "pays"
	FieldStudio      = "studio"
	FieldDescription = "description"
	FieldImage       = "image"
	FieldBudget      = "budget"
	FieldEntrees     = "entrees"
	FieldAnecdotes   = "anecdotes"
	FieldRealisateur = "realisateur"
	FieldActeurs     = "acteurs"
	FieldFilmURL     = "film_url"
)

// RawRecord is one scraped film page, keyed by field name. Values are strings,
// lists of strings, numbers, the "-" sentinel, or missing entirely. A RawRecord
// is never mutated once handed to the sanitizer.
type RawRecord map[string]any

// Film is the canonical record produced by the sanitizer. Optional fields are
// pointers; nil means the source had no data for them.
type Film struct {
	ID    int64  `json:"id_film"`
	Titre string `json:"titre"`

	Duree  *int    `json:"duree"`
	Salles *int    `json:"salles"`
	Genre  *string `json:"genre"`
	// ISO date (2006-01-02), or the raw scraped text when unparseable
	DateSortie  string  `json:"date_sortie"`
	Pays        string  `json:"pays"`
	Studio      *string `json:"studio"`
	Description string  `json:"description"`
	Image       *string `json:"image"`
	Budget      *int    `json:"budget"`
	Entrees     *int    `json:"entrees"`

	// First digit of the anecdotes blurb, plus the original text it was
	// derived from
	Anecdotes      *int    `json:"anecdotes"`
	AnecdotesTexte *string `json:"anecdotes_texte,omitempty"`

	FilmURL *string `json:"film_url,omitempty"`

	Realisateurs []string `json:"-"`
	Acteurs      []string `json:"-"`
}

// ReleaseYear returns the year from an ISO release date, or 0 if the date kept
// its raw fallback form.
func (f Film) ReleaseYear() int {
	if len(f.DateSortie) < 4 {
		return 0
	}
	year := 0
	for _, r := range f.DateSortie[:4] {
		if r < '0' || r > '9' {
			return 0
		}
		year = year*10 + int(r-'0')
	}
	return year
}
