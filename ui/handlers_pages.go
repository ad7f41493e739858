package ui

import (
	"errors"
	"net/http"
	"strconv"

	"heartdash/domain/core"
	"heartdash/domain/dataset"
	"heartdash/internal/analysis"

	"github.com/gin-gonic/gin"
)

const (
	defaultDistributionColumn = "age"
	defaultBreakdownColumn    = "num"
	defaultBins               = 10
	maxBins                   = 50
	previewRows               = 10
)

// basePage holds what the layout needs on every page
func (s *Server) basePage(page Page) gin.H {
	return gin.H{
		"AppTitle": AppTitle,
		"Nav":      Pages,
		"Page":     page,
	}
}

func (s *Server) handleIndex(c *gin.Context) {
	s.renderPage(c, HomePage)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"dataset": s.dataset != nil,
		"rows":    s.dataset.Len(),
		"mode":    string(s.mode),
	})
}

func (s *Server) handleNotFound(c *gin.Context) {
	data := s.basePage(Page{Title: "Page introuvable"})
	data["Error"] = "La page demandée n'existe pas."
	s.renderTemplate(c, http.StatusNotFound, "unavailable.html", data)
}

func (s *Server) handlePage(c *gin.Context) {
	page, err := Dispatch(c.Param("slug"))
	if err != nil {
		s.logger.Debug("%v", err)
		s.handleNotFound(c)
		return
	}
	s.renderPage(c, page)
}

func (s *Server) renderPage(c *gin.Context, page Page) {
	switch page.Kind {
	case KindText:
		s.showText(c, page)
	case KindPrediction:
		s.showPredictionForm(c, page)
	case KindImportance:
		data := s.basePage(page)
		data["Error"] = "Aucun modèle n'est chargé : l'importance des caractéristiques n'est pas disponible."
		s.renderTemplate(c, http.StatusOK, "unavailable.html", data)
	case KindCharacteristics:
		s.withDataset(c, page, s.showCharacteristics)
	case KindCorrelation:
		s.withDataset(c, page, s.showCorrelation)
	case KindDistribution:
		s.withDataset(c, page, s.showDistribution)
	case KindBreakdown:
		s.withDataset(c, page, s.showBreakdown)
	default:
		s.handleNotFound(c)
	}
}

func (s *Server) showText(c *gin.Context, page Page) {
	data := s.basePage(page)
	data["Body"] = s.content[page.Slug]
	s.renderTemplate(c, http.StatusOK, "text.html", data)
}

type datasetView func(c *gin.Context, page Page, t *dataset.Table) (string, gin.H, error)

// withDataset renders an analysis page, or an explanation when the dataset
// could not be loaded or the view failed
func (s *Server) withDataset(c *gin.Context, page Page, view datasetView) {
	if s.dataset == nil {
		data := s.basePage(page)
		data["Error"] = "Jeu de données indisponible : " + s.datasetErr.Error()
		s.renderTemplate(c, http.StatusServiceUnavailable, "unavailable.html", data)
		return
	}

	name, data, err := view(c, page, s.dataset)
	if err != nil {
		s.logger.Warn("Page %s failed: %v", page.Slug, err)
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, core.ErrDatasetUnavailable):
			status = http.StatusServiceUnavailable
		case core.IsDatasetError(err):
			status = http.StatusBadRequest
		}
		data = s.basePage(page)
		data["Error"] = err.Error()
		s.renderTemplate(c, status, "unavailable.html", data)
		return
	}
	for k, v := range s.basePage(page) {
		data[k] = v
	}
	data["Source"] = s.dataset.Source
	data["Rows"] = s.dataset.Len()
	s.renderTemplate(c, http.StatusOK, name, data)
}

func (s *Server) showCharacteristics(_ *gin.Context, _ Page, t *dataset.Table) (string, gin.H, error) {
	summaries, err := analysis.Describe(t)
	if err != nil {
		return "", nil, err
	}
	var numeric, categorical []dataset.ColumnSummary
	for _, sum := range summaries {
		if sum.Kind == dataset.KindNumeric {
			numeric = append(numeric, sum)
		} else {
			categorical = append(categorical, sum)
		}
	}
	return "characteristics.html", gin.H{
		"Headers":     t.Headers,
		"Head":        t.Head(previewRows),
		"Numeric":     numeric,
		"Categorical": categorical,
	}, nil
}

func (s *Server) showCorrelation(_ *gin.Context, _ Page, t *dataset.Table) (string, gin.H, error) {
	var cols []string
	for _, col := range t.NumericColumns() {
		if col != "id" {
			cols = append(cols, col)
		}
	}
	matrix, err := analysis.Correlate(t, cols)
	if err != nil {
		return "", nil, err
	}
	return "correlation.html", gin.H{"Matrix": matrix}, nil
}

func (s *Server) showDistribution(c *gin.Context, _ Page, t *dataset.Table) (string, gin.H, error) {
	column := c.DefaultQuery("column", defaultDistributionColumn)
	bins, err := strconv.Atoi(c.DefaultQuery("bins", strconv.Itoa(defaultBins)))
	if err != nil || bins < 1 || bins > maxBins {
		bins = defaultBins
	}
	hist, err := analysis.Histogram(t, column, bins)
	if err != nil {
		return "", nil, err
	}
	var total float64
	for _, b := range hist {
		total += b.Count
	}
	return "distribution.html", gin.H{
		"Columns":   t.NumericColumns(),
		"Column":    column,
		"Bins":      bins,
		"Histogram": hist,
		"Total":     total,
	}, nil
}

func (s *Server) showBreakdown(c *gin.Context, _ Page, t *dataset.Table) (string, gin.H, error) {
	column := c.DefaultQuery("column", defaultBreakdownColumn)
	counts, missing, err := analysis.ValueCounts(t, column)
	if err != nil {
		return "", nil, err
	}
	return "repartition.html", gin.H{
		"Columns": t.Headers,
		"Column":  column,
		"Counts":  counts,
		"Missing": missing,
	}, nil
}
