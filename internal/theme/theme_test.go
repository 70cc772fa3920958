package theme

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/debemdeboas/minimal-blog/internal/cache"
	"github.com/debemdeboas/minimal-blog/internal/config"
)

func TestGenerateSyntaxCSS(t *testing.T) {
	testCases := []struct {
		name  string
		theme string
	}{
		{name: "Valid Theme - Monokai", theme: "monokai"},
		{name: "Valid Theme - Github", theme: "github"},
		{name: "Valid Theme - Gruvbox", theme: "gruvbox"},
		{name: "Non-existent Theme - Fallback", theme: "nonexistent-theme-12345"},
		{name: "Empty Theme Name", theme: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			css1 := GenerateSyntaxCSS(tc.theme)
			if css1 == "" {
				t.Fatal("Expected CSS content, but got empty")
			}
			if !strings.Contains(string(css1), ".chroma") {
				t.Errorf("Expected CSS to contain '.chroma' class")
			}

			cachedCSS, found := cache.GetSyntaxCSS(tc.theme)
			if !found {
				t.Errorf("Expected CSS to be in cache, but it wasn't")
			}
			if found && cachedCSS != css1 {
				t.Errorf("Cached CSS does not match generated CSS")
			}

			if css2 := GenerateSyntaxCSS(tc.theme); css1 != css2 {
				t.Errorf("Expected second call to return identical CSS from cache")
			}
		})
	}
}

func TestGetSyntaxThemes(t *testing.T) {
	themes := GetSyntaxThemes()
	if len(themes) == 0 {
		t.Fatal("Expected at least one syntax theme")
	}

	for i := 1; i < len(themes); i++ {
		if themes[i-1] > themes[i] {
			t.Errorf("Themes are not sorted: %s > %s", themes[i-1], themes[i])
		}
	}

	for _, want := range []string{"github", "monokai", "gruvbox"} {
		found := false
		for _, availableTheme := range themes {
			if availableTheme == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected common theme %s to be available", want)
		}
	}
}

func TestIsSyntaxTheme(t *testing.T) {
	if !IsSyntaxTheme("monokai") {
		t.Error("Expected monokai to be a syntax theme")
	}
	if IsSyntaxTheme("nonexistent-theme-12345") {
		t.Error("Expected unknown name to be rejected")
	}
}

func TestGetThemeFromRequest(t *testing.T) {
	setupMockConfig(t)

	testCases := []struct {
		name          string
		cookieValue   string
		hasCookie     bool
		expectedTheme string
	}{
		{
			name:          "No cookie - use default",
			expectedTheme: "dark",
		},
		{
			name:          "Valid light theme cookie",
			cookieValue:   "light",
			hasCookie:     true,
			expectedTheme: "light",
		},
		{
			name:          "Valid dark theme cookie",
			cookieValue:   "dark",
			hasCookie:     true,
			expectedTheme: "dark",
		},
		{
			name:          "Unknown theme cookie - use default",
			cookieValue:   "custom",
			hasCookie:     true,
			expectedTheme: "dark",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.hasCookie {
				req.AddCookie(&http.Cookie{Name: config.CookieTheme, Value: tc.cookieValue})
			}

			if got := GetThemeFromRequest(req); got != tc.expectedTheme {
				t.Errorf("Expected theme %s, got %s", tc.expectedTheme, got)
			}
		})
	}
}

func TestGetSyntaxThemeFromRequest(t *testing.T) {
	setupMockConfig(t)

	testCases := []struct {
		name          string
		themeCookie   string
		syntaxCookie  string
		expectedTheme string
	}{
		{
			name:          "No cookies - use default for default theme",
			expectedTheme: "gruvbox",
		},
		{
			name:          "Only theme cookie - use default syntax for that theme",
			themeCookie:   "light",
			expectedTheme: "catppuccin-latte",
		},
		{
			name:          "Both cookies - use syntax cookie",
			themeCookie:   "dark",
			syntaxCookie:  "monokai",
			expectedTheme: "monokai",
		},
		{
			name:          "Only syntax cookie - use syntax cookie",
			syntaxCookie:  "github",
			expectedTheme: "github",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.themeCookie != "" {
				req.AddCookie(&http.Cookie{Name: config.CookieTheme, Value: tc.themeCookie})
			}
			if tc.syntaxCookie != "" {
				req.AddCookie(&http.Cookie{Name: config.CookieSyntaxTheme, Value: tc.syntaxCookie})
			}

			if got := GetSyntaxThemeFromRequest(req); got != tc.expectedTheme {
				t.Errorf("Expected syntax theme %s, got %s", tc.expectedTheme, got)
			}
		})
	}
}

func TestOpposite(t *testing.T) {
	if got := Opposite(config.DarkTheme); got != config.LightTheme {
		t.Errorf("Expected light after dark, got %s", got)
	}
	if got := Opposite(config.LightTheme); got != config.DarkTheme {
		t.Errorf("Expected dark after light, got %s", got)
	}
	if got := Opposite("unknown"); got != config.DarkTheme {
		t.Errorf("Expected dark for unknown theme, got %s", got)
	}
}

func setupMockConfig(t *testing.T) {
	t.Helper()

	original := config.AppConfig
	t.Cleanup(func() { config.AppConfig = original })

	config.AppConfig = &config.Config{
		Theme: config.ThemeConfig{
			Default: "dark",
			SyntaxHighlighting: config.SyntaxConfig{
				DefaultDark:  "gruvbox",
				DefaultLight: "catppuccin-latte",
			},
		},
	}
}

func BenchmarkGenerateSyntaxCSS(b *testing.B) {
	GenerateSyntaxCSS("monokai")
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		GenerateSyntaxCSS("monokai")
	}
}
