package config

const (
	HCType        = "Content-Type"
	HETag         = "ETag"
	HCacheControl = "Cache-Control"

	CTypeCSS  = "text/css"
	CTypeHTML = "text/html; charset=utf-8"
	CTypeJSON = "application/json"
	CTypeText = "text/plain; charset=utf-8"
)

const (
	HTTPErrPostNotFound = "Post not found"
	HTTPErrSession      = "Session unavailable"
)

const (
	CookieTheme       = "theme"
	CookieSyntaxTheme = "syntax-theme"
)

const (
	// FlashNotifications is the session flash bucket holding notification kinds.
	FlashNotifications = "notifications"

	// SessionKeyID is the session value holding the browser's session id.
	SessionKeyID = "sid"
)
