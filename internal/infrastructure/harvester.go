package infrastructure

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/cinapps/cinapps/internal/model"
)

// Film page selectors. The source keeps the credit labels ("De", "Avec")
// inside the credit spans, so they land in the raw lists and are stripped by
// the sanitizer.
const (
	selectorTitle       = "div.titlebar-title"
	selectorMetaInfo    = "div.meta-body-info"
	selectorDate        = "div.meta-body-info span.date"
	selectorGenre       = "div.meta-body-info span.genre"
	selectorDirection   = "div.meta-body-direction span"
	selectorActors      = "div.meta-body-actor span"
	selectorDescription = "section.synopsis div.content-txt"
	selectorPoster      = "div.card-movie img.thumbnail-img"
	selectorStats       = "div.stats-item"
)

// Harvester extracts raw film records from scraped pages.
type Harvester struct {
	client     *http.Client
	titleCaser cases.Caser
}

// NewHarvester initializes a Harvester
func NewHarvester() *Harvester {
	return &Harvester{
		client:     &http.Client{Timeout: 30 * time.Second},
		titleCaser: cases.Title(language.French),
	}
}

// HarvestFilmPage fetches a film page and extracts its raw record
func (h *Harvester) HarvestFilmPage(pageURL string) (model.RawRecord, error) {
	res, err := h.client.Get(pageURL)
	if err != nil {
		return nil, fmt.Errorf("could not fetch film page %q: %w", pageURL, err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("could not fetch film page %q: status %d", pageURL, res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("could not parse film page %q: %w", pageURL, err)
	}
	return h.ExtractRecord(doc, pageURL), nil
}

// ExtractRecord reads the raw field values out of a parsed film page. Values
// are kept as scraped; normalization is the sanitizer's job.
func (h *Harvester) ExtractRecord(doc *goquery.Document, pageURL string) model.RawRecord {
	record := model.RawRecord{
		model.FieldTitre:       strings.TrimSpace(doc.Find(selectorTitle).First().Text()),
		model.FieldDateSortie:  strings.TrimSpace(doc.Find(selectorDate).First().Text()),
		model.FieldDescription: doc.Find(selectorDescription).First().Text(),
		model.FieldFilmURL:     pageURL,
	}

	if genre := strings.TrimSpace(doc.Find(selectorGenre).First().Text()); genre != "" {
		record[model.FieldGenre] = h.titleCaser.String(genre)
	}

	// The info line holds date, duration and genre separated by slashes
	if info := doc.Find(selectorMetaInfo).First().Text(); info != "" {
		for _, part := range strings.Split(info, "/") {
			if strings.Contains(part, "min") {
				record[model.FieldDuree] = strings.TrimSpace(part)
				break
			}
		}
	}

	record[model.FieldRealisateur] = selectionTexts(doc.Find(selectorDirection))
	record[model.FieldActeurs] = selectionTexts(doc.Find(selectorActors))

	if poster, exists := doc.Find(selectorPoster).First().Attr("src"); exists {
		record[model.FieldImage] = poster
	}

	doc.Find(selectorStats).Each(func(i int, stat *goquery.Selection) {
		label := strings.ToLower(stat.Find("div.stats-label").Text())
		value := strings.TrimSpace(stat.Find("div.stats-number").Text())
		if value == "" {
			return
		}
		switch {
		case strings.Contains(label, "entrées"):
			record[model.FieldEntrees] = value
		case strings.Contains(label, "budget"):
			record[model.FieldBudget] = value
		case strings.Contains(label, "séances"):
			record[model.FieldSalles] = value
		case strings.Contains(label, "pays"):
			record[model.FieldPays] = value
		case strings.Contains(label, "studio"):
			record[model.FieldStudio] = value
		case strings.Contains(label, "anecdotes"):
			record[model.FieldAnecdotes] = value
		}
	})

	return record
}

func selectionTexts(selection *goquery.Selection) []string {
	var texts []string
	selection.Each(func(i int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			texts = append(texts, text)
		}
	})
	return texts
}
