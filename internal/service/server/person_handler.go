package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/cinapps/cinapps/internal/model"
)

type PersonGetter interface {
	GetPeople(ctx context.Context) ([]model.Person, error)
	GetPerson(ctx context.Context, personID int64) (*model.Person, error)
	GetPersonFilmography(ctx context.Context, personID int64) (directed, playedIn []model.Film, err error)
}

type PersonHandler struct {
	PersonGetter
}

func NewPersonHandler(pg PersonGetter) *PersonHandler {
	return &PersonHandler{
		PersonGetter: pg,
	}
}

// GETPersons returns all persons
func (ph *PersonHandler) GETPersons(c *gin.Context) {
	people, err := ph.PersonGetter.GetPeople(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("Could not retrieve persons")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not retrieve persons"})
		return
	}
	c.JSON(http.StatusOK, people)
}

// GETPerson returns a person with their filmography
func (ph *PersonHandler) GETPerson(c *gin.Context) {
	personID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "incorrect person ID"})
		return
	}
	person, err := ph.PersonGetter.GetPerson(c.Request.Context(), personID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "person not found"})
		return
	}
	directed, playedIn, err := ph.PersonGetter.GetPersonFilmography(c.Request.Context(), personID)
	if err != nil {
		log.Error().Int64("id_personne", personID).Err(err).Msg("Could not retrieve filmography")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not retrieve filmography"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id_personne":       person.ID,
		"nom":               person.Nom,
		"films_realisateur": directed,
		"films_acteur":      playedIn,
	})
}
