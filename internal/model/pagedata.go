package model

import (
	"html/template"
	"net/http"

	"github.com/debemdeboas/minimal-blog/internal/config"
	"github.com/debemdeboas/minimal-blog/internal/theme"
)

type PageData struct {
	SiteName string
	Heading  string

	PageURL string

	Theme               string
	AllowThemeSwitching bool

	SyntaxCSS   template.CSS
	SyntaxTheme string
}

func NewPageData(r *http.Request) *PageData {
	cfg := config.Current()
	syntaxTheme := theme.GetSyntaxThemeFromRequest(r)

	return &PageData{
		SiteName:            cfg.Site.Name,
		Heading:             cfg.Site.Heading,
		PageURL:             r.URL.Path,
		Theme:               theme.GetThemeFromRequest(r),
		AllowThemeSwitching: cfg.Theme.AllowSwitching,
		SyntaxTheme:         syntaxTheme,
		SyntaxCSS:           theme.GenerateSyntaxCSS(syntaxTheme),
	}
}

func (pd *PageData) IsDark() bool {
	return pd.Theme == config.DarkTheme
}
