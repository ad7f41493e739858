package ui

import (
	"embed"
)

//go:embed templates/*.html static/css/*.css content/*.md
var embeddedFiles embed.FS

// AppTitle is shown in the header of every page
const AppTitle = "Analyse des Données de Santé Cardiaque"
