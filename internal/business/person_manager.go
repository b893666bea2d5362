package business

import (
	"context"
	"fmt"

	"github.com/agnivade/levenshtein"
	"github.com/rs/zerolog/log"

	"github.com/cinapps/cinapps/internal/model"
)

type PersonStorer interface {
	GetPeople(ctx context.Context) ([]model.Person, error)
	GetPersonFromID(ctx context.Context, personID int64) (*model.Person, error)
	GetPeopleFromFilm(ctx context.Context, filmID int64, role string) ([]model.Person, error)
	GetFilmsWithPerson(ctx context.Context, personID int64, role string) ([]model.Film, error)
}

type PersonManager struct {
	PersonStorer
}

func NewPersonManager(ps PersonStorer) *PersonManager {
	return &PersonManager{
		PersonStorer: ps,
	}
}

// GetPeople returns all persons in the store
func (pm PersonManager) GetPeople(ctx context.Context) ([]model.Person, error) {
	return pm.PersonStorer.GetPeople(ctx)
}

// GetPerson returns a person from their identifier
func (pm PersonManager) GetPerson(ctx context.Context, personID int64) (*model.Person, error) {
	return pm.PersonStorer.GetPersonFromID(ctx, personID)
}

// GetFilmCredits returns the directors and actors attached to a film
func (pm PersonManager) GetFilmCredits(ctx context.Context, filmID int64) (*model.Credits, error) {
	realisateurs, err := pm.PersonStorer.GetPeopleFromFilm(ctx, filmID, model.RoleRealisateur)
	if err != nil {
		return nil, fmt.Errorf("could not get directors for film %d: %w", filmID, err)
	}
	acteurs, err := pm.PersonStorer.GetPeopleFromFilm(ctx, filmID, model.RoleActeur)
	if err != nil {
		return nil, fmt.Errorf("could not get actors for film %d: %w", filmID, err)
	}
	return &model.Credits{Realisateurs: realisateurs, Acteurs: acteurs}, nil
}

// GetPersonFilmography returns the films a person directed and the films they
// played in
func (pm PersonManager) GetPersonFilmography(ctx context.Context, personID int64) (directed, playedIn []model.Film, err error) {
	directed, err = pm.PersonStorer.GetFilmsWithPerson(ctx, personID, model.RoleRealisateur)
	if err != nil {
		return nil, nil, fmt.Errorf("could not get directed films for person %d: %w", personID, err)
	}
	playedIn, err = pm.PersonStorer.GetFilmsWithPerson(ctx, personID, model.RoleActeur)
	if err != nil {
		return nil, nil, fmt.Errorf("could not get acted films for person %d: %w", personID, err)
	}
	return directed, playedIn, nil
}

// WarnSimilarNames logs person names within a levenshtein distance of 2 of
// each other. Scraped credits occasionally spell the same person two ways;
// this only surfaces the suspects, it never merges rows.
func (pm PersonManager) WarnSimilarNames(ctx context.Context) error {
	people, err := pm.PersonStorer.GetPeople(ctx)
	if err != nil {
		return err
	}
	for i := 0; i < len(people); i++ {
		for j := i + 1; j < len(people); j++ {
			distance := levenshtein.ComputeDistance(people[i].Nom, people[j].Nom)
			if distance > 0 && distance <= 2 {
				log.Warn().
					Str("nom", people[i].Nom).
					Str("autre", people[j].Nom).
					Msg("Possible duplicate person names")
			}
		}
	}
	return nil
}
