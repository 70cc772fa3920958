package config

// Renderers accepted by content.markdown_renderer.
const (
	MarkdownClassic = "classic"
	MarkdownMmark   = "mmark"
)
