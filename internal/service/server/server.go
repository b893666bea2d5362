package server

import (
	"github.com/gin-gonic/gin"
)

// NewServer initializes the JSON API server
func NewServer(filmHandler *FilmHandler, personHandler *PersonHandler) *gin.Engine {
	router := gin.Default()
	router.SetTrustedProxies(nil)

	api := router.Group("/api")
	{
		api.GET("/films", filmHandler.GETFilms)
		api.GET("/films/:id", filmHandler.GETFilm)
		api.GET("/films/:id/credits", filmHandler.GETFilmCredits)
		api.GET("/films/:id/prediction", filmHandler.GETFilmPrediction)
		api.GET("/persons", personHandler.GETPersons)
		api.GET("/persons/:id", personHandler.GETPerson)
	}

	return router
}
