// Package theme handles the light/dark page theme and syntax highlighting CSS.
package theme

import (
	"html/template"
	"net/http"
	"slices"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/debemdeboas/minimal-blog/internal/cache"
	"github.com/debemdeboas/minimal-blog/internal/config"
)

func GetThemeFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(config.CookieTheme); err == nil {
		if cookie.Value == config.LightTheme || cookie.Value == config.DarkTheme {
			return cookie.Value
		}
	}
	return config.Current().Theme.Default
}

// Opposite returns the theme a toggle switches to.
func Opposite(theme string) string {
	if theme == config.DarkTheme {
		return config.LightTheme
	}
	return config.DarkTheme
}

func GetDefaultSyntaxTheme(theme string) string {
	syntax := config.Current().Theme.SyntaxHighlighting
	if theme == config.LightTheme {
		return syntax.DefaultLight
	}
	return syntax.DefaultDark
}

func GetSyntaxThemeFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(config.CookieSyntaxTheme); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return GetDefaultSyntaxTheme(GetThemeFromRequest(r))
}

// GetSyntaxThemes lists chroma's styles in sorted order.
func GetSyntaxThemes() []string {
	styleNames := styles.Names()
	slices.Sort(styleNames)
	return styleNames
}

// IsSyntaxTheme reports whether chroma ships a style called name.
func IsSyntaxTheme(name string) bool {
	_, found := slices.BinarySearch(GetSyntaxThemes(), name)
	return found
}

func GetFormatter() *html.Formatter {
	return html.New(
		html.WithClasses(true),
		html.TabWidth(4),
		html.WithLineNumbers(true),
		html.WrapLongLines(true),
	)
}

func GenerateSyntaxCSS(theme string) template.CSS {
	if css, ok := cache.GetSyntaxCSS(theme); ok {
		return css
	}

	var buf strings.Builder
	style := styles.Get(theme)

	bg := style.Get(chroma.Background)
	if !bg.Colour.IsSet() {
		// Chroma themes without a text colour get one picked from the background luminance
		luminance := (0.299*float64(bg.Background.Red()) +
			0.587*float64(bg.Background.Green()) +
			0.114*float64(bg.Background.Blue())) / 255
		if luminance > 0.5 {
			buf.WriteString(".chroma { color: #181818; }\n")
		}
	}

	GetFormatter().WriteCSS(&buf, style)

	css := template.CSS(buf.String())
	cache.SetSyntaxCSS(theme, css)
	return css
}
