// Package render turns post content into HTML and the small text snippets the
// list view needs.
package render

import (
	"fmt"
	"html"
	"io"
	"sync"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	md_html "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/mmarkdown/mmark/v2/lang"
	"github.com/mmarkdown/mmark/v2/mparser"
	"github.com/mmarkdown/mmark/v2/render/mhtml"
	"github.com/rs/zerolog"

	"github.com/debemdeboas/minimal-blog/internal/cache"
	"github.com/debemdeboas/minimal-blog/internal/config"
	"github.com/debemdeboas/minimal-blog/internal/util"
)

var renderLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	renderLogger = l
}

func escape(s string) string {
	return html.EscapeString(s)
}

// Post content comes from the backend, so raw HTML in it is dropped and file
// includes are never enabled.
const classicExtensions = parser.Tables | parser.FencedCode | parser.Autolink | parser.Strikethrough |
	parser.SpaceHeadings | parser.HeadingIDs | parser.BackslashLineBreak | parser.DefinitionLists |
	parser.AutoHeadingIDs | parser.Footnotes | parser.OrderedListStart | parser.NoIntraEmphasis

// codeBlockHook renders fenced code through chroma.
func codeBlockHook(highlightTheme string) md_html.RenderNodeFunc {
	return func(w io.Writer, node ast.Node, entering bool) (ast.WalkStatus, bool) {
		code, ok := node.(*ast.CodeBlock)
		if !ok || !entering {
			return ast.GoToNext, false
		}
		var language string
		if code.Info != nil {
			language = string(code.Info)
		}
		fmt.Fprintf(w, "<div class=\"highlight\">%s</div>", HighlightCode(string(code.Literal), language, highlightTheme))
		return ast.GoToNext, true
	}
}

// Markdown renders md with the named renderer. Unknown names use the classic one.
func Markdown(md []byte, renderer, highlightTheme string) []byte {
	switch renderer {
	case config.MarkdownMmark:
		return MarkdownMmark(md, highlightTheme)
	default:
		return MarkdownClassic(md, highlightTheme)
	}
}

func MarkdownClassic(md []byte, highlightTheme string) []byte {
	opts := md_html.RendererOptions{
		Flags:          md_html.CommonFlags | md_html.HrefTargetBlank | md_html.FootnoteReturnLinks | md_html.SkipHTML,
		RenderNodeHook: codeBlockHook(highlightTheme),
	}

	doc := parser.NewWithExtensions(classicExtensions).Parse(markdown.NormalizeNewlines(md))
	return markdown.Render(doc, md_html.NewRenderer(opts))
}

func MarkdownMmark(md []byte, highlightTheme string) []byte {
	md = markdown.NormalizeNewlines(md)

	p := parser.NewWithExtensions(mparser.Extensions&^parser.Includes | parser.NoIntraEmphasis)
	p.Opts = parser.Options{
		ParserHook: mparser.Hook,
		Flags:      parser.FlagsNone,
	}
	doc := markdown.Parse(md, p)

	mhtmlOpts := mhtml.RendererOptions{
		Language: lang.New("en"),
	}
	codeHook := codeBlockHook(highlightTheme)

	opts := md_html.RendererOptions{
		Flags: md_html.CommonFlags | md_html.FootnoteNoHRTag | md_html.FootnoteReturnLinks | md_html.SkipHTML,
		RenderNodeHook: func(w io.Writer, node ast.Node, entering bool) (ast.WalkStatus, bool) {
			if status, handled := codeHook(w, node, entering); handled {
				return status, true
			}
			return mhtmlOpts.RenderHook(w, node, entering)
		},
	}

	return markdown.Render(doc, md_html.NewRenderer(opts))
}

// Serialises check-render-set in MarkdownCached
var renderCacheMutex sync.Mutex

// MarkdownCached renders md once per content, renderer and syntax theme.
func MarkdownCached(md []byte, renderer, highlightTheme string) []byte {
	contentHash := util.ContentHash(md)

	if cached, found := cache.GetRenderedMarkdown(contentHash, renderer, highlightTheme); found {
		renderLogger.Debug().Str("contentHash", contentHash).Str("highlightTheme", highlightTheme).Msg("Cache hit for rendered markdown")
		return cached
	}

	renderCacheMutex.Lock()
	defer renderCacheMutex.Unlock()

	if cached, found := cache.GetRenderedMarkdown(contentHash, renderer, highlightTheme); found {
		return cached
	}

	renderLogger.Debug().Str("contentHash", contentHash).Str("highlightTheme", highlightTheme).Msg("Cache miss for rendered markdown")
	rendered := Markdown(md, renderer, highlightTheme)
	cache.SetRenderedMarkdown(contentHash, renderer, highlightTheme, rendered)
	return rendered
}
