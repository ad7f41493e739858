package ui

import (
	"fmt"
	"strings"

	"heartdash/domain/core"
)

// PageKind selects the handler that renders a page
type PageKind int

const (
	KindText PageKind = iota
	KindPrediction
	KindCharacteristics
	KindImportance
	KindCorrelation
	KindDistribution
	KindBreakdown
)

// Page is one entry of the sidebar navigation
type Page struct {
	Slug  string
	Title string
	Kind  PageKind
}

// Path returns the page URL
func (p Page) Path() string {
	return "/pages/" + p.Slug
}

// Pages lists the navigation in display order. The first page is the home page.
var Pages = []Page{
	{Slug: "descriptif", Title: "Descriptif", Kind: KindText},
	{Slug: "dictionnaire", Title: "Dictionnaire", Kind: KindText},
	{Slug: "prediction", Title: "Prédiction", Kind: KindPrediction},
	{Slug: "caracteristiques", Title: "Caractéristiques", Kind: KindCharacteristics},
	{Slug: "importance", Title: "Importance des caractéristiques", Kind: KindImportance},
	{Slug: "correlation", Title: "Corrélation", Kind: KindCorrelation},
	{Slug: "distribution", Title: "Distribution", Kind: KindDistribution},
	{Slug: "repartition", Title: "Répartition", Kind: KindBreakdown},
}

// HomePage is rendered at /
var HomePage = Pages[0]

// Dispatch resolves a page slug. Matching ignores case and surrounding slashes.
func Dispatch(slug string) (Page, error) {
	slug = strings.ToLower(strings.Trim(slug, "/ "))
	for _, p := range Pages {
		if p.Slug == slug {
			return p, nil
		}
	}
	return Page{}, fmt.Errorf("%w: %q", core.ErrPageNotFound, slug)
}
