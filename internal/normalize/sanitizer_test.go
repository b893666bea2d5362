package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinapps/cinapps/internal/model"
)

func TestSanitize(t *testing.T) {
	raw := model.RawRecord{
		"titre":       "Le Dernier Métro",
		"duree":       "2h11min",
		"date_sortie": "17 septembre 1980",
		"genre":       "Drame",
		"pays":        " France ",
		"studio":      " Les Films du Carrosse ",
		"description": "  Paris,\n\nseptembre   1942. ",
		"image":       "https://example.org/poster.jpg",
		"budget":      "4 500 000 €",
		"entrees":     "3 384 045",
		"salles":      "312 séances",
		"anecdotes":   " 8 secrets de tournage ",
		"realisateur": []string{"De", "François Truffaut"},
		"acteurs":     []string{"Avec", "Catherine Deneuve", "Gérard Depardieu"},
	}

	film, err := Sanitize(raw)
	require.NoError(t, err)

	assert.Equal(t, "Le Dernier Métro", film.Titre)
	require.NotNil(t, film.Duree)
	assert.Equal(t, 131, *film.Duree)
	assert.Equal(t, "1980-09-17", film.DateSortie)
	require.NotNil(t, film.Genre)
	assert.Equal(t, "Drame", *film.Genre)
	assert.Equal(t, "France", film.Pays)
	require.NotNil(t, film.Studio)
	assert.Equal(t, "Les Films du Carrosse", *film.Studio)
	assert.Equal(t, "Paris, septembre 1942.", film.Description)
	require.NotNil(t, film.Budget)
	assert.Equal(t, 4500000, *film.Budget)
	require.NotNil(t, film.Entrees)
	assert.Equal(t, 3384045, *film.Entrees)
	require.NotNil(t, film.Salles)
	assert.Equal(t, 312, *film.Salles)
	require.NotNil(t, film.Anecdotes)
	assert.Equal(t, 8, *film.Anecdotes)
	require.NotNil(t, film.AnecdotesTexte)
	assert.Equal(t, "8 secrets de tournage", *film.AnecdotesTexte)
	assert.Equal(t, []string{"François Truffaut"}, film.Realisateurs)
	assert.Equal(t, []string{"Catherine Deneuve", "Gérard Depardieu"}, film.Acteurs)
}

func TestSanitizeResolvesSentinels(t *testing.T) {
	raw := model.RawRecord{
		"titre":       "Sans Données",
		"duree":       "-",
		"genre":       "-",
		"studio":      "-",
		"entrees":     "-",
		"budget":      "-",
		"salles":      "-",
		"anecdotes":   "-",
		"realisateur": []string{},
		"acteurs":     []string{},
	}

	film, err := Sanitize(raw)
	require.NoError(t, err)

	assert.Nil(t, film.Duree)
	assert.Nil(t, film.Genre)
	assert.Nil(t, film.Studio)
	assert.Nil(t, film.Entrees)
	assert.Nil(t, film.Budget)
	assert.Nil(t, film.Salles)
	assert.Nil(t, film.Anecdotes)
	assert.Nil(t, film.AnecdotesTexte)
	assert.Empty(t, film.Realisateurs)
	assert.Empty(t, film.Acteurs)
}

func TestSanitizeLeavesInputUntouched(t *testing.T) {
	raw := model.RawRecord{
		"titre":       "X",
		"duree":       "-",
		"realisateur": []string{"De", "A"},
	}
	_, err := Sanitize(raw)
	require.NoError(t, err)

	assert.Equal(t, "-", raw["duree"])
	assert.Equal(t, []string{"De", "A"}, raw["realisateur"])
}

func TestSanitizeKeepsListsWithoutMarker(t *testing.T) {
	raw := model.RawRecord{
		"titre":       "X",
		"realisateur": []string{"Jane Doe"},
		"acteurs":     []string{"John Smith", "De Niro"},
	}
	film, err := Sanitize(raw)
	require.NoError(t, err)

	assert.Equal(t, []string{"Jane Doe"}, film.Realisateurs)
	assert.Equal(t, []string{"John Smith", "De Niro"}, film.Acteurs)
}

func TestSanitizeMissingKeysStayAbsent(t *testing.T) {
	film, err := Sanitize(model.RawRecord{"titre": "X"})
	require.NoError(t, err)

	assert.Nil(t, film.Entrees)
	assert.Nil(t, film.Budget)
	assert.Nil(t, film.Salles)
	assert.Nil(t, film.Studio)
	assert.Equal(t, "", film.DateSortie)
	assert.Equal(t, "", film.Description)
}

func TestSanitizeUnparseableDateFallsBack(t *testing.T) {
	film, err := Sanitize(model.RawRecord{
		"titre":       "X",
		"date_sortie": "Prochainement",
	})
	require.NoError(t, err)
	assert.Equal(t, "Prochainement", film.DateSortie)
	assert.Equal(t, 0, film.ReleaseYear())
}

func TestSanitizeBadDurationDegradesToAbsent(t *testing.T) {
	film, err := Sanitize(model.RawRecord{
		"titre": "X",
		"duree": "environ deux heures",
	})
	require.NoError(t, err)
	assert.Nil(t, film.Duree)
}

func TestSanitizeBadNumericFieldsDegradeToAbsent(t *testing.T) {
	film, err := Sanitize(model.RawRecord{
		"titre":   "X",
		"entrees": "inconnu",
		"budget":  "confidentiel",
		"salles":  "aucune",
	})
	require.NoError(t, err)
	assert.Nil(t, film.Entrees)
	assert.Nil(t, film.Budget)
	assert.Nil(t, film.Salles)
}

func TestSanitizeRejectsMissingTitle(t *testing.T) {
	_, err := Sanitize(model.RawRecord{"duree": "1h40min"})
	assert.ErrorIs(t, err, ErrMissingTitle)

	_, err = Sanitize(model.RawRecord{"titre": "-"})
	assert.ErrorIs(t, err, ErrMissingTitle)

	_, err = Sanitize(model.RawRecord{"titre": "   "})
	assert.ErrorIs(t, err, ErrMissingTitle)
}

func TestSanitizeRejectsNonNumericAnecdotes(t *testing.T) {
	_, err := Sanitize(model.RawRecord{
		"titre":     "X",
		"anecdotes": "aucune anecdote",
	})
	require.Error(t, err)

	var malformed *MalformedFieldError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "anecdotes", malformed.Field)
}

func TestSanitizeJSONDecodedRecord(t *testing.T) {
	// Records arriving through the inbox decode lists as []any and numbers
	// as float64
	raw := model.RawRecord{
		"titre":       "X",
		"entrees":     float64(100000),
		"salles":      float64(250),
		"realisateur": []any{"De", "A"},
		"acteurs":     []any{"B", "C"},
	}
	film, err := Sanitize(raw)
	require.NoError(t, err)

	require.NotNil(t, film.Entrees)
	assert.Equal(t, 100000, *film.Entrees)
	require.NotNil(t, film.Salles)
	assert.Equal(t, 250, *film.Salles)
	assert.Equal(t, []string{"A"}, film.Realisateurs)
	assert.Equal(t, []string{"B", "C"}, film.Acteurs)
}
