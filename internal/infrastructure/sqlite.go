package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/glebarez/go-sqlite"
	"github.com/rs/zerolog/log"

	"github.com/cinapps/cinapps/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS films (
	id_film INTEGER PRIMARY KEY AUTOINCREMENT,
	titre TEXT NOT NULL UNIQUE,
	duree INTEGER,
	salles INTEGER,
	genre TEXT,
	date_sortie TEXT,
	pays TEXT,
	studio TEXT,
	description TEXT,
	image TEXT,
	budget INTEGER,
	entrees INTEGER,
	anecdotes INTEGER,
	anecdotes_texte TEXT,
	film_url TEXT
);
CREATE TABLE IF NOT EXISTS personnes (
	id_personne INTEGER PRIMARY KEY AUTOINCREMENT,
	nom TEXT NOT NULL UNIQUE
);
CREATE TABLE IF NOT EXISTS participations (
	id_film INTEGER NOT NULL REFERENCES films(id_film) ON DELETE CASCADE,
	id_personne INTEGER NOT NULL REFERENCES personnes(id_personne) ON DELETE CASCADE,
	role TEXT NOT NULL,
	UNIQUE(id_film, id_personne)
);`

// SQLite stores films, persons and their participations.
type SQLite struct {
	db   *sql.DB
	path string
}

// NewSQLite opens or creates the database at dbPath and ensures the schema
func NewSQLite(dbPath string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("could not open database %q: %w", dbPath, err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("could not apply %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not create schema: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("Using film database")
	return &SQLite{db: db, path: dbPath}, nil
}

// Close closes the database connection
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Begin opens the transaction covering one imported record
func (s *SQLite) Begin(ctx context.Context) (*sql.Tx, error) {
	return s.db.BeginTx(ctx, nil)
}

// UpsertFilm inserts the film or, when a film with the same title exists,
// updates every field of that row in place. Returns the film's identifier in
// both cases.
func (s *SQLite) UpsertFilm(ctx context.Context, tx *sql.Tx, film *model.Film) (int64, error) {
	var filmID int64
	err := tx.QueryRowContext(ctx, `
		INSERT INTO films (titre, duree, salles, genre, date_sortie, pays, studio,
			description, image, budget, entrees, anecdotes, anecdotes_texte, film_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(titre) DO UPDATE SET
			duree = excluded.duree, salles = excluded.salles, genre = excluded.genre,
			date_sortie = excluded.date_sortie, pays = excluded.pays, studio = excluded.studio,
			description = excluded.description, image = excluded.image, budget = excluded.budget,
			entrees = excluded.entrees, anecdotes = excluded.anecdotes,
			anecdotes_texte = excluded.anecdotes_texte, film_url = excluded.film_url
		RETURNING id_film`,
		film.Titre, film.Duree, film.Salles, film.Genre, film.DateSortie, film.Pays,
		film.Studio, film.Description, film.Image, film.Budget, film.Entrees,
		film.Anecdotes, film.AnecdotesTexte, film.FilmURL).Scan(&filmID)
	if err != nil {
		return 0, fmt.Errorf("could not upsert film %q: %w", film.Titre, err)
	}
	return filmID, nil
}

// ResolvePerson returns the identifier for a person name, creating the person
// on first sight. The insert ignores a conflicting concurrent create and
// re-fetches, so a name never ends up with two rows.
func (s *SQLite) ResolvePerson(ctx context.Context, tx *sql.Tx, name string) (int64, error) {
	var personID int64
	err := tx.QueryRowContext(ctx, "SELECT id_personne FROM personnes WHERE nom = ?", name).Scan(&personID)
	if err == nil {
		return personID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("could not look up person %q: %w", name, err)
	}

	if _, err := tx.ExecContext(ctx, "INSERT INTO personnes (nom) VALUES (?) ON CONFLICT(nom) DO NOTHING", name); err != nil {
		return 0, fmt.Errorf("could not create person %q: %w", name, err)
	}
	if err := tx.QueryRowContext(ctx, "SELECT id_personne FROM personnes WHERE nom = ?", name).Scan(&personID); err != nil {
		return 0, fmt.Errorf("could not fetch created person %q: %w", name, err)
	}
	return personID, nil
}

// UpsertParticipation links a person to a film with a role. A second write for
// the same (film, person) pair replaces the role instead of adding a row.
func (s *SQLite) UpsertParticipation(ctx context.Context, tx *sql.Tx, filmID, personID int64, role string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO participations (id_film, id_personne, role) VALUES (?, ?, ?)
		ON CONFLICT(id_film, id_personne) DO UPDATE SET role = excluded.role`,
		filmID, personID, role)
	if err != nil {
		return fmt.Errorf("could not link person %d to film %d: %w", personID, filmID, err)
	}
	return nil
}

// Reset empties the three tables and resets their identifier sequences. Only
// ever called explicitly before a crawl batch.
func (s *SQLite) Reset(ctx context.Context) error {
	statements := []string{
		"DELETE FROM participations",
		"DELETE FROM films",
		"DELETE FROM personnes",
		"DELETE FROM sqlite_sequence WHERE name IN ('films', 'personnes')",
	}
	for _, statement := range statements {
		if _, err := s.db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("could not reset database: %w", err)
		}
	}
	log.Info().Msg("Film database cleared before crawl")
	return nil
}

const filmColumns = `id_film, titre, duree, salles, genre, date_sortie, pays, studio,
	description, image, budget, entrees, anecdotes, anecdotes_texte, film_url`

// Table-qualified variant for queries joining participations, which carries
// its own id_film column
const filmColumnsQualified = `films.id_film, films.titre, films.duree, films.salles,
	films.genre, films.date_sortie, films.pays, films.studio, films.description,
	films.image, films.budget, films.entrees, films.anecdotes, films.anecdotes_texte,
	films.film_url`

// GetFilms returns every stored film, most recent insertions last
func (s *SQLite) GetFilms(ctx context.Context) ([]model.Film, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+filmColumns+" FROM films ORDER BY id_film")
	if err != nil {
		return nil, fmt.Errorf("could not retrieve films: %w", err)
	}
	defer rows.Close()
	return scanFilms(rows)
}

// GetFilmsFiltered returns the films matching the given genre, country and
// release year. Zero values leave the corresponding constraint out.
func (s *SQLite) GetFilmsFiltered(ctx context.Context, genre, pays string, year int) ([]model.Film, error) {
	query := "SELECT " + filmColumns + " FROM films"
	var (
		conditions []string
		args       []any
	)
	if genre != "" {
		conditions = append(conditions, "genre = ?")
		args = append(args, genre)
	}
	if pays != "" {
		conditions = append(conditions, "pays = ?")
		args = append(args, pays)
	}
	if year != 0 {
		conditions = append(conditions, "date_sortie LIKE ?")
		args = append(args, fmt.Sprintf("%04d-%%", year))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id_film"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("could not retrieve filtered films: %w", err)
	}
	defer rows.Close()
	return scanFilms(rows)
}

// GetFilmFromID gets a film from its ID
func (s *SQLite) GetFilmFromID(ctx context.Context, filmID int64) (*model.Film, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+filmColumns+" FROM films WHERE id_film = ?", filmID)
	film, err := scanFilm(row)
	if err != nil {
		return nil, fmt.Errorf("could not retrieve film %d: %w", filmID, err)
	}
	return film, nil
}

// GetPeopleFromFilm returns the persons attached to a film with the given role
func (s *SQLite) GetPeopleFromFilm(ctx context.Context, filmID int64, role string) ([]model.Person, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id_personne, p.nom
		FROM personnes p
		JOIN participations part ON p.id_personne = part.id_personne
		WHERE part.id_film = ? AND part.role = ?
		ORDER BY p.id_personne`, filmID, role)
	if err != nil {
		return nil, fmt.Errorf("could not retrieve people for film %d: %w", filmID, err)
	}
	defer rows.Close()

	var people []model.Person
	for rows.Next() {
		var person model.Person
		if err := rows.Scan(&person.ID, &person.Nom); err != nil {
			return nil, fmt.Errorf("could not scan person: %w", err)
		}
		people = append(people, person)
	}
	return people, rows.Err()
}

// GetPeople returns every stored person
func (s *SQLite) GetPeople(ctx context.Context) ([]model.Person, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id_personne, nom FROM personnes ORDER BY id_personne")
	if err != nil {
		return nil, fmt.Errorf("could not retrieve people: %w", err)
	}
	defer rows.Close()

	var people []model.Person
	for rows.Next() {
		var person model.Person
		if err := rows.Scan(&person.ID, &person.Nom); err != nil {
			return nil, fmt.Errorf("could not scan person: %w", err)
		}
		people = append(people, person)
	}
	return people, rows.Err()
}

// GetPersonFromID gets a person from their ID
func (s *SQLite) GetPersonFromID(ctx context.Context, personID int64) (*model.Person, error) {
	var person model.Person
	err := s.db.QueryRowContext(ctx,
		"SELECT id_personne, nom FROM personnes WHERE id_personne = ?", personID).
		Scan(&person.ID, &person.Nom)
	if err != nil {
		return nil, fmt.Errorf("could not retrieve person %d: %w", personID, err)
	}
	return &person, nil
}

// GetFilmsWithPerson returns the films a person participated in with the
// given role
func (s *SQLite) GetFilmsWithPerson(ctx context.Context, personID int64, role string) ([]model.Film, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+filmColumnsQualified+`
		FROM films
		JOIN participations part ON films.id_film = part.id_film
		WHERE part.id_personne = ? AND part.role = ?
		ORDER BY films.id_film`, personID, role)
	if err != nil {
		return nil, fmt.Errorf("could not retrieve films for person %d: %w", personID, err)
	}
	defer rows.Close()
	return scanFilms(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFilm(row rowScanner) (*model.Film, error) {
	var (
		film           model.Film
		duree          sql.NullInt64
		salles         sql.NullInt64
		genre          sql.NullString
		dateSortie     sql.NullString
		pays           sql.NullString
		studio         sql.NullString
		description    sql.NullString
		image          sql.NullString
		budget         sql.NullInt64
		entrees        sql.NullInt64
		anecdotes      sql.NullInt64
		anecdotesTexte sql.NullString
		filmURL        sql.NullString
	)
	err := row.Scan(&film.ID, &film.Titre, &duree, &salles, &genre, &dateSortie, &pays,
		&studio, &description, &image, &budget, &entrees, &anecdotes, &anecdotesTexte, &filmURL)
	if err != nil {
		return nil, err
	}
	film.Duree = nullableInt(duree)
	film.Salles = nullableInt(salles)
	film.Genre = nullableString(genre)
	film.DateSortie = dateSortie.String
	film.Pays = pays.String
	film.Studio = nullableString(studio)
	film.Description = description.String
	film.Image = nullableString(image)
	film.Budget = nullableInt(budget)
	film.Entrees = nullableInt(entrees)
	film.Anecdotes = nullableInt(anecdotes)
	film.AnecdotesTexte = nullableString(anecdotesTexte)
	film.FilmURL = nullableString(filmURL)
	return &film, nil
}

func scanFilms(rows *sql.Rows) ([]model.Film, error) {
	var films []model.Film
	for rows.Next() {
		film, err := scanFilm(rows)
		if err != nil {
			return nil, fmt.Errorf("could not scan film: %w", err)
		}
		films = append(films, *film)
	}
	return films, rows.Err()
}

func nullableInt(value sql.NullInt64) *int {
	if !value.Valid {
		return nil
	}
	n := int(value.Int64)
	return &n
}

func nullableString(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	return &value.String
}
