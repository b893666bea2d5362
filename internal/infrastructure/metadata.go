package infrastructure

import (
	"errors"
	"strconv"

	"github.com/agnivade/levenshtein"
	tmdb "github.com/cyruzin/golang-tmdb"
)

// MetadataWrapper looks up film artwork on TMDB when the scraped page carried
// none.
type MetadataWrapper struct {
	client *tmdb.Client
}

// NewMetadataWrapper initializes a MetadataWrapper
func NewMetadataWrapper(tmdbAPIKey string) (*MetadataWrapper, error) {
	client, err := tmdb.Init(tmdbAPIKey)
	if err != nil {
		return nil, err
	}
	return &MetadataWrapper{
		client: client,
	}, nil
}

// FetchPosterURL searches TMDB for a film by title and release year and
// returns its poster URL
func (mw MetadataWrapper) FetchPosterURL(title string, year int) (string, error) {
	urlOptions := make(map[string]string)
	if year != 0 {
		urlOptions["year"] = strconv.Itoa(year)
	}
	tmdbSearchRes, err := mw.client.GetSearchMovies(title, urlOptions)
	if err != nil {
		return "", err
	}
	if len(tmdbSearchRes.Results) == 0 {
		return "", errors.New("film not found")
	}

	posterPath := ""
	mostPopular := float32(0)
	for _, res := range tmdbSearchRes.Results {
		if res.Popularity > mostPopular {
			// Levenshtein distance so that the name corresponds at least a little bit
			if levenshtein.ComputeDistance(title, res.Title) < len(title)/3 || mostPopular == 0 {
				posterPath = res.PosterPath
				mostPopular = res.Popularity
			}
		}
	}
	if posterPath == "" {
		return "", errors.New("film has no poster")
	}
	return tmdb.GetImageURL(posterPath, tmdb.W342), nil
}
