package normalize

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/rs/zerolog/log"

	"github.com/cinapps/cinapps/internal/model"
)

// Leading tokens the source prepends to credit lists ("De Jane Doe",
// "Avec John Smith, ...").
const (
	directorMarker = "De"
	actorMarker    = "Avec"
)

// ErrMissingTitle signals a raw record without a usable titre field. Such a
// record is rejected before sanitization.
var ErrMissingTitle = errors.New("record is missing a title")

// MalformedFieldError reports a raw value its field normalizer could not make
// sense of.
type MalformedFieldError struct {
	Field string
	Value any
}

func (e *MalformedFieldError) Error() string {
	return fmt.Sprintf("malformed field %q: %v", e.Field, e.Value)
}

// Sanitize turns a raw scraped record into a canonical film. The input record
// is left untouched; sentinel markers are resolved first, then each field goes
// through its normalizer. Non-fatal parse failures (duration, sessions,
// entries, budget) degrade to absent; a non-numeric anecdotes blurb is fatal
// for the record.
func Sanitize(raw model.RawRecord) (*model.Film, error) {
	titre, ok := rawTitle(raw)
	if !ok {
		return nil, ErrMissingTitle
	}

	record := make(model.RawRecord, len(raw))
	for key, value := range raw {
		record[key] = StripSentinel(value)
	}

	film := &model.Film{Titre: titre}

	film.DateSortie = ParseReleaseDate(stringValue(record[model.FieldDateSortie]))

	if duree := stringValue(record[model.FieldDuree]); duree != "" {
		if film.Duree = ParseDuration(duree); film.Duree == nil {
			log.Warn().Str("titre", titre).Str("duree", duree).Msg("Could not parse film duration")
		}
	}

	// entrees and budget are only touched when the crawler emitted the key;
	// a missing key stays absent
	if value, ok := record[model.FieldEntrees]; ok {
		if film.Entrees = ParseThousandsInt(value); film.Entrees == nil && value != nil {
			log.Warn().Str("titre", titre).Interface("entrees", value).Msg("Could not parse entry count")
		}
	}
	if value, ok := record[model.FieldBudget]; ok {
		if film.Budget = ParseThousandsInt(value); film.Budget == nil && value != nil {
			log.Warn().Str("titre", titre).Interface("budget", value).Msg("Could not parse film budget")
		}
	}

	film.Description = CollapseWhitespace(stringValue(record[model.FieldDescription]))
	film.Pays = strings.TrimSpace(stringValue(record[model.FieldPays]))

	if studio := record[model.FieldStudio]; studio != nil {
		trimmed := strings.TrimSpace(stringValue(studio))
		film.Studio = &trimmed
	}

	if anecdotes := record[model.FieldAnecdotes]; anecdotes != nil {
		trimmed := strings.TrimSpace(stringValue(anecdotes))
		first := []rune(trimmed)
		if len(first) == 0 || !unicode.IsDigit(first[0]) {
			return nil, &MalformedFieldError{Field: model.FieldAnecdotes, Value: anecdotes}
		}
		count := int(first[0] - '0')
		film.Anecdotes = &count
		film.AnecdotesTexte = &trimmed
	}

	if value, ok := record[model.FieldSalles]; ok {
		if film.Salles = ParseSessionCount(value); film.Salles == nil && value != nil {
			log.Warn().Str("titre", titre).Interface("salles", value).Msg("Could not parse session count")
		}
	}

	if genre := record[model.FieldGenre]; genre != nil {
		g := stringValue(genre)
		film.Genre = &g
	}
	if image := record[model.FieldImage]; image != nil {
		i := stringValue(image)
		film.Image = &i
	}
	if filmURL := record[model.FieldFilmURL]; filmURL != nil {
		u := stringValue(filmURL)
		film.FilmURL = &u
	}

	film.Realisateurs = stripRoleMarker(stringSlice(record[model.FieldRealisateur]), directorMarker)
	film.Acteurs = stripRoleMarker(stringSlice(record[model.FieldActeurs]), actorMarker)

	return film, nil
}

func rawTitle(raw model.RawRecord) (string, bool) {
	titre := strings.TrimSpace(stringValue(StripSentinel(raw[model.FieldTitre])))
	return titre, titre != ""
}

// stripRoleMarker drops the leading role token the source keeps as the first
// list element
func stripRoleMarker(names []string, marker string) []string {
	if len(names) > 0 && names[0] == marker {
		return names[1:]
	}
	return names
}

func stringValue(value any) string {
	s, _ := value.(string)
	return s
}

func stringSlice(value any) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []any:
		names := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				names = append(names, s)
			}
		}
		return names
	}
	return nil
}
