package server

import (
	"context"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pariz/gountries"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/cinapps/cinapps/internal/model"
	"github.com/cinapps/cinapps/internal/utilities"
)

type FilmGetter interface {
	GetFilms(ctx context.Context) ([]model.Film, error)
	GetFilmsFiltered(ctx context.Context, genre, pays string, year int) ([]model.Film, error)
	GetFilm(ctx context.Context, filmID int64) (*model.Film, error)
}

type CreditsGetter interface {
	GetFilmCredits(ctx context.Context, filmID int64) (*model.Credits, error)
}

type AdmissionsPredictor interface {
	PredictAdmissions(ctx context.Context, film *model.Film) (int, error)
}

type FilmHandler struct {
	FilmGetter
	CreditsGetter

	predictor AdmissionsPredictor
	countries *gountries.Query
}

// NewFilmHandler initializes a FilmHandler. The predictor may be nil when no
// prediction service is configured.
func NewFilmHandler(fg FilmGetter, cg CreditsGetter, predictor AdmissionsPredictor) *FilmHandler {
	return &FilmHandler{
		FilmGetter:    fg,
		CreditsGetter: cg,
		predictor:     predictor,
		countries:     gountries.New(),
	}
}

type filmResponse struct {
	model.Film
	PaysCode string `json:"pays_code,omitempty"`
}

// GETFilms returns all films, optionally filtered by genre, country or
// release year, and optionally sorted by title
func (fh *FilmHandler) GETFilms(c *gin.Context) {
	var (
		films []model.Film
		err   error
	)
	genre := c.Query("genre")
	pays := c.Query("pays")
	year, _ := strconv.Atoi(c.Query("annee"))
	if genre != "" || pays != "" || year != 0 {
		films, err = fh.FilmGetter.GetFilmsFiltered(c.Request.Context(), genre, pays, year)
	} else {
		films, err = fh.FilmGetter.GetFilms(c.Request.Context())
	}
	if err != nil {
		log.Error().Err(err).Msg("Could not retrieve films")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not retrieve films"})
		return
	}

	if c.Query("tri") == "titre" {
		sort.Slice(films, func(i, j int) bool {
			return strings.ToLower(utilities.RemoveArticle(films[i].Titre)) <
				strings.ToLower(utilities.RemoveArticle(films[j].Titre))
		})
	}

	c.JSON(http.StatusOK, lo.Map(films, func(film model.Film, _ int) filmResponse {
		return fh.toResponse(film)
	}))
}

// GETFilm returns a film from its ID
func (fh *FilmHandler) GETFilm(c *gin.Context) {
	filmID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "incorrect film ID"})
		return
	}
	film, err := fh.FilmGetter.GetFilm(c.Request.Context(), filmID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "film not found"})
		return
	}
	c.JSON(http.StatusOK, fh.toResponse(*film))
}

// GETFilmCredits returns the directors and actors of a film
func (fh *FilmHandler) GETFilmCredits(c *gin.Context) {
	filmID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "incorrect film ID"})
		return
	}
	credits, err := fh.CreditsGetter.GetFilmCredits(c.Request.Context(), filmID)
	if err != nil {
		log.Error().Int64("id_film", filmID).Err(err).Msg("Could not retrieve film credits")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not retrieve credits"})
		return
	}
	c.JSON(http.StatusOK, credits)
}

// GETFilmPrediction returns the predicted admissions for a film
func (fh *FilmHandler) GETFilmPrediction(c *gin.Context) {
	if fh.predictor == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no prediction service configured"})
		return
	}
	filmID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "incorrect film ID"})
		return
	}
	film, err := fh.FilmGetter.GetFilm(c.Request.Context(), filmID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "film not found"})
		return
	}
	prediction, err := fh.predictor.PredictAdmissions(c.Request.Context(), film)
	if err != nil {
		log.Error().Int64("id_film", filmID).Err(err).Msg("Could not get prediction")
		c.JSON(http.StatusBadGateway, gin.H{"error": "prediction service unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id_film": film.ID, "titre": film.Titre, "prediction_entrees": prediction})
}

func (fh *FilmHandler) toResponse(film model.Film) filmResponse {
	response := filmResponse{Film: film}
	if film.Pays != "" {
		if country, err := fh.countries.FindCountryByName(film.Pays); err == nil {
			response.PaysCode = country.Alpha2
		}
	}
	return response
}
