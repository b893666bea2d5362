package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinapps/cinapps/internal/model"
	"github.com/cinapps/cinapps/internal/service/server"
)

type stubFilmStore struct {
	films map[int64]model.Film
}

func (s stubFilmStore) GetFilms(ctx context.Context) ([]model.Film, error) {
	var films []model.Film
	for _, film := range s.films {
		films = append(films, film)
	}
	return films, nil
}

func (s stubFilmStore) GetFilmsFiltered(ctx context.Context, genre, pays string, year int) ([]model.Film, error) {
	var films []model.Film
	for _, film := range s.films {
		if pays != "" && film.Pays != pays {
			continue
		}
		films = append(films, film)
	}
	return films, nil
}

func (s stubFilmStore) GetFilm(ctx context.Context, filmID int64) (*model.Film, error) {
	film, ok := s.films[filmID]
	if !ok {
		return nil, errors.New("film not found")
	}
	return &film, nil
}

func (s stubFilmStore) GetFilmCredits(ctx context.Context, filmID int64) (*model.Credits, error) {
	return &model.Credits{
		Realisateurs: []model.Person{{ID: 1, Nom: "A"}},
		Acteurs:      []model.Person{{ID: 2, Nom: "B"}, {ID: 3, Nom: "C"}},
	}, nil
}

type stubPredictor struct {
	prediction int
}

func (s stubPredictor) PredictAdmissions(ctx context.Context, film *model.Film) (int, error) {
	return s.prediction, nil
}

func newTestRouter(t *testing.T, predictor server.AdmissionsPredictor) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := stubFilmStore{films: map[int64]model.Film{
		1: {ID: 1, Titre: "Le Samouraï", Pays: "France"},
	}}
	router := gin.New()
	filmHandler := server.NewFilmHandler(store, store, predictor)
	router.GET("/api/films/:id", filmHandler.GETFilm)
	router.GET("/api/films/:id/credits", filmHandler.GETFilmCredits)
	router.GET("/api/films/:id/prediction", filmHandler.GETFilmPrediction)
	return router
}

func TestGETFilm(t *testing.T) {
	router := newTestRouter(t, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/films/1", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Le Samouraï", body["titre"])
	// Country code resolved from the country name
	assert.Equal(t, "FR", body["pays_code"])
}

func TestGETFilmNotFound(t *testing.T) {
	router := newTestRouter(t, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/films/999", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/films/abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGETFilmCredits(t *testing.T) {
	router := newTestRouter(t, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/films/1/credits", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var credits model.Credits
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &credits))
	assert.Len(t, credits.Realisateurs, 1)
	assert.Len(t, credits.Acteurs, 2)
}

func TestGETFilmPrediction(t *testing.T) {
	router := newTestRouter(t, stubPredictor{prediction: 420000})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/films/1/prediction", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(420000), body["prediction_entrees"])
}

func TestGETFilmPredictionWithoutService(t *testing.T) {
	router := newTestRouter(t, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/films/1/prediction", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
