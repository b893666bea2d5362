package business

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/cinapps/cinapps/internal/model"
	"github.com/cinapps/cinapps/internal/normalize"
)

type FilmStorer interface {
	Begin(ctx context.Context) (*sql.Tx, error)
	UpsertFilm(ctx context.Context, tx *sql.Tx, film *model.Film) (int64, error)
	ResolvePerson(ctx context.Context, tx *sql.Tx, name string) (int64, error)
	UpsertParticipation(ctx context.Context, tx *sql.Tx, filmID, personID int64, role string) error

	GetFilms(ctx context.Context) ([]model.Film, error)
	GetFilmsFiltered(ctx context.Context, genre, pays string, year int) ([]model.Film, error)
	GetFilmFromID(ctx context.Context, filmID int64) (*model.Film, error)

	Reset(ctx context.Context) error
}

type FilmMetadataGetter interface {
	FetchPosterURL(title string, year int) (string, error)
}

// FilmManager drives one scraped record through sanitization and storage.
type FilmManager struct {
	FilmStorer
	FilmMetadataGetter
}

// NewFilmManager initializes a FilmManager. The metadata getter may be nil,
// in which case films without a scraped image stay without one.
func NewFilmManager(fs FilmStorer, mg FilmMetadataGetter) *FilmManager {
	return &FilmManager{
		FilmStorer:         fs,
		FilmMetadataGetter: mg,
	}
}

// ImportRecord sanitizes a raw record and upserts the resulting film with its
// participations. The film row, the person rows and the role links are written
// in a single transaction; any failure rolls the whole item back.
func (fm *FilmManager) ImportRecord(ctx context.Context, raw model.RawRecord) (int64, error) {
	film, err := normalize.Sanitize(raw)
	if err != nil {
		return 0, fmt.Errorf("could not sanitize record: %w", err)
	}

	if film.Image == nil && fm.FilmMetadataGetter != nil {
		if poster, err := fm.FilmMetadataGetter.FetchPosterURL(film.Titre, film.ReleaseYear()); err == nil {
			film.Image = &poster
		} else {
			log.Debug().Str("titre", film.Titre).Err(err).Msg("No poster found for film")
		}
	}

	tx, err := fm.FilmStorer.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("could not start import transaction: %w", err)
	}
	defer tx.Rollback()

	filmID, err := fm.FilmStorer.UpsertFilm(ctx, tx, film)
	if err != nil {
		return 0, err
	}

	// Both role groups are linked in the same pass
	roleGroups := []struct {
		role  string
		names []string
	}{
		{model.RoleRealisateur, film.Realisateurs},
		{model.RoleActeur, film.Acteurs},
	}
	for _, group := range roleGroups {
		for _, name := range group.names {
			personID, err := fm.FilmStorer.ResolvePerson(ctx, tx, name)
			if err != nil {
				return 0, err
			}
			if err := fm.FilmStorer.UpsertParticipation(ctx, tx, filmID, personID, group.role); err != nil {
				return 0, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("could not commit import of %q: %w", film.Titre, err)
	}

	log.Info().Str("titre", film.Titre).Int64("id_film", filmID).Msg("Film imported")
	return filmID, nil
}

// ImportBatch runs every record through ImportRecord. A record failure is
// logged with the record's raw title and does not stop the batch; the number
// of imported films is returned.
func (fm *FilmManager) ImportBatch(ctx context.Context, records []model.RawRecord) int {
	imported := 0
	for _, raw := range records {
		if _, err := fm.ImportRecord(ctx, raw); err != nil {
			titre, _ := raw[model.FieldTitre].(string)
			log.Error().Str("titre", titre).Err(err).Msg("Could not import record")
			continue
		}
		imported++
	}
	return imported
}

// GetFilms returns all films in the store
func (fm *FilmManager) GetFilms(ctx context.Context) ([]model.Film, error) {
	return fm.FilmStorer.GetFilms(ctx)
}

// GetFilmsFiltered returns the films matching a genre, country or release
// year filter
func (fm *FilmManager) GetFilmsFiltered(ctx context.Context, genre, pays string, year int) ([]model.Film, error) {
	return fm.FilmStorer.GetFilmsFiltered(ctx, genre, pays, year)
}

// GetFilm returns a film from its identifier
func (fm *FilmManager) GetFilm(ctx context.Context, filmID int64) (*model.Film, error) {
	return fm.FilmStorer.GetFilmFromID(ctx, filmID)
}

// ResetStore empties the film, person and participation tables. Destructive;
// only meant to run right before a full crawl batch.
func (fm *FilmManager) ResetStore(ctx context.Context) error {
	return fm.FilmStorer.Reset(ctx)
}
