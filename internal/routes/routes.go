// Package routes defines HTTP route constants for the application.
package routes

const (
	// Static and assets
	RobotsPath     = "/robots.txt"
	ThemeToggle    = "/theme/toggle"
	SyntaxThemeGet = "/syntax-theme/{theme}"
	PartialsPost   = "/partials/post"

	// Root
	RootPath = "/"

	// Form actions
	Posts       = "/posts"
	PostsCancel = "/posts/cancel"
	PostEdit    = "/posts/{id}/edit"
	PostDelete  = "/posts/{id}/delete"
)
