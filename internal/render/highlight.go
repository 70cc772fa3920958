package render

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/debemdeboas/minimal-blog/internal/theme"
)

// HighlightCode returns code as chroma HTML using CSS classes, so the page's
// syntax stylesheet decides the colours. Unknown languages fall back to plain
// text, and on any formatter error the code comes back escaped but unhighlighted.
func HighlightCode(code, language, highlightTheme string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "<pre>" + escape(code) + "</pre>"
	}

	var buf strings.Builder
	if err := theme.GetFormatter().Format(&buf, styles.Get(highlightTheme), iterator); err != nil {
		renderLogger.Warn().Err(err).Str("language", language).Msg("Failed to highlight code block")
		return "<pre>" + escape(code) + "</pre>"
	}
	return buf.String()
}
