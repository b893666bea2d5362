package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cinapps/cinapps/internal/model"
)

// Feature defaults sent when a film is missing the corresponding field,
// mirroring what the dashboard historically sent.
const (
	defaultBudget = 25000000
	defaultDuree  = 107
	defaultSalles = 100
	defaultYear   = 2024
	missingLabel  = "missing"
)

// Predictor calls the external admission-prediction service. The service is a
// black box: it takes a fixed feature payload and returns a number.
type Predictor struct {
	url    string
	client *http.Client
}

// NewPredictor initializes a Predictor targeting the given endpoint
func NewPredictor(url string) *Predictor {
	return &Predictor{
		url:    url,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

type predictionRequest struct {
	Budget                     int    `json:"budget"`
	Duree                      int    `json:"duree"`
	Genre                      string `json:"genre"`
	Pays                       string `json:"pays"`
	SallesPremiereSemaine      int    `json:"salles_premiere_semaine"`
	ScoringActeursRealisateurs int    `json:"scoring_acteurs_realisateurs"`
	CoeffStudio                int    `json:"coeff_studio"`
	Year                       int    `json:"year"`
}

type predictionResponse struct {
	Prediction float64 `json:"prediction"`
}

// PredictAdmissions asks the prediction service for the expected admission
// count of a film
func (p *Predictor) PredictAdmissions(ctx context.Context, film *model.Film) (int, error) {
	payload := predictionRequest{
		Budget:                defaultBudget,
		Duree:                 defaultDuree,
		Genre:                 missingLabel,
		Pays:                  missingLabel,
		SallesPremiereSemaine: defaultSalles,
		Year:                  defaultYear,
	}
	if film.Budget != nil {
		payload.Budget = *film.Budget
	}
	if film.Duree != nil {
		payload.Duree = *film.Duree
	}
	if film.Genre != nil {
		payload.Genre = *film.Genre
	}
	if film.Pays != "" {
		payload.Pays = film.Pays
	}
	if film.Salles != nil {
		payload.SallesPremiereSemaine = *film.Salles
	}
	if year := film.ReleaseYear(); year != 0 {
		payload.Year = year
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("could not encode prediction payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("could not build prediction request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := p.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("could not reach prediction service: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("prediction service answered with status %d", res.StatusCode)
	}

	var prediction predictionResponse
	if err := json.NewDecoder(res.Body).Decode(&prediction); err != nil {
		return 0, fmt.Errorf("could not decode prediction response: %w", err)
	}
	return int(prediction.Prediction), nil
}
