// Default values mirrored from the Config struct tags. TestConfigConstantsMatch keeps them in sync.

package config

import "time"

const (
	DefaultVersion               = "1"
	DefaultSiteName              = "Minimal Blog"
	DefaultSiteHeading           = "My Blog"
	DefaultServerHost            = "0.0.0.0"
	DefaultServerPort            = "8080"
	DefaultBackendBaseURL        = "http://localhost:3000"
	DefaultBackendCollectionPath = "/api/blogs"
	DefaultBackendTimeout        = 10 * time.Second
	DefaultThemeDefault          = "dark"
	DefaultThemeAllowSwitching   = true
	DefaultContentPreviewLength  = 100
	DefaultContentDateFormat     = "Jan 2, 2006"
	DefaultContentMarkdown       = "classic"
	DefaultSessionName           = "blog_session"
	DefaultSessionIdleTimeout    = 30 * time.Minute
	DefaultSessionSweepInterval  = time.Minute
	DefaultLoggingLevel          = "info"
	DefaultLoggingFormat         = "console"
)
