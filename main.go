package main

import (
	"context"
	"embed"
	"flag"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/klauspost/compress/gzhttp"
	"github.com/rs/zerolog"

	"github.com/debemdeboas/minimal-blog/internal/api"
	"github.com/debemdeboas/minimal-blog/internal/blog"
	"github.com/debemdeboas/minimal-blog/internal/cache"
	"github.com/debemdeboas/minimal-blog/internal/config"
	"github.com/debemdeboas/minimal-blog/internal/logger"
	"github.com/debemdeboas/minimal-blog/internal/render"
	"github.com/debemdeboas/minimal-blog/internal/routes"
	"github.com/debemdeboas/minimal-blog/internal/session"
	"github.com/debemdeboas/minimal-blog/internal/theme"
	"github.com/debemdeboas/minimal-blog/internal/util"
	"github.com/debemdeboas/minimal-blog/internal/web"
)

//go:embed static/* templates/*
var content embed.FS

var mainLogger = zerolog.Nop()

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	envErr := godotenv.Load()

	// Until the config is read only the environment can pick the level
	mainLogger = logger.New(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"), os.Stderr)
	if envErr != nil {
		mainLogger.Debug().Err(envErr).Msg("No .env file loaded")
	}

	config.SetLogger(mainLogger)
	if err := config.LoadConfig(*configPath); err != nil {
		mainLogger.Fatal().Err(err).Str("path", *configPath).Msg("Failed to load configuration")
	}
	cfg := config.AppConfig

	mainLogger = logger.New(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
	config.SetLogger(mainLogger.With().Str("component", "config").Logger())
	api.SetLogger(mainLogger.With().Str("component", "api").Logger())
	blog.SetLogger(mainLogger.With().Str("component", "blog").Logger())
	session.SetLogger(mainLogger.With().Str("component", "session").Logger())
	render.SetLogger(mainLogger.With().Str("component", "render").Logger())
	web.SetLogger(mainLogger.With().Str("component", "web").Logger())

	client, err := api.NewClient(cfg.Backend.BaseURL, cfg.Backend.CollectionPath, cfg.Backend.Timeout)
	if err != nil {
		mainLogger.Fatal().Err(err).Msg("Invalid backend configuration")
	}

	store, err := session.NewStore(cfg.Session)
	if err != nil {
		mainLogger.Fatal().Err(err).Msg("Failed to create session store")
	}
	manager := session.NewManager(store, cfg.Session.Name, cfg.Session.IdleTimeout, func(n blog.Notifier) *blog.Controller {
		return blog.NewController(client, n)
	})

	handler, err := web.NewHandler(manager, content, cfg.Content)
	if err != nil {
		mainLogger.Fatal().Err(err).Msg("Error loading templates")
	}

	static, _ := fs.Sub(content, config.StaticLocalDir)
	hashStatic(static)

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+routes.RobotsPath, serveRobots)
	mux.HandleFunc("POST "+routes.ThemeToggle, serveThemeToggle)
	mux.HandleFunc("GET "+routes.SyntaxThemeGet, serveSyntaxTheme)
	mux.Handle("GET "+config.StaticUrlPath, http.StripPrefix(config.StaticUrlPath, http.FileServer(http.FS(static))))
	handler.Register(mux)

	securedMux := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == routes.RobotsPath { // Ignore robots.txt
			mux.ServeHTTP(w, r)
		} else {
			secureHeaders(mux.ServeHTTP)(w, r)
		}
	})

	srv := &http.Server{
		Addr:              cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:           gzhttp.GzipHandler(web.WithRequestLogger(cacheIt(securedMux))),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go manager.Run(ctx, cfg.Session.SweepInterval)

	go func() {
		mainLogger.Info().
			Str("addr", srv.Addr).
			Str("backend", client.CollectionURL()).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			mainLogger.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-ctx.Done()
	mainLogger.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		mainLogger.Error().Err(err).Msg("Graceful shutdown failed")
	}
}

// hashStatic records an ETag for every embedded static file, keyed by URL path.
func hashStatic(static fs.FS) {
	_ = fs.WalkDir(static, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(static, path)
		if err != nil {
			return err
		}
		cache.SetStaticHash(config.StaticUrlPath+path, util.ETag(data))
		return nil
	})
}

func serveRobots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(config.HCType, config.CTypeText)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("User-agent: *\nDisallow:"))
}

func cacheIt(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(config.HCacheControl, "no-cache")
		w.Header().Set("Vary", "Cookie")

		// Add etag header to response if it's a static file
		if hash, ok := cache.GetStaticHash(r.URL.Path); ok {
			w.Header().Set(config.HCacheControl, "public, max-age=3600")
			w.Header().Set(config.HETag, hash)
		}

		h(w, r)
	}
}

func secureHeaders(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Frame-Options", "deny")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "same-origin")

		h(w, r)
	}
}

func serveThemeToggle(w http.ResponseWriter, r *http.Request) {
	newTheme := theme.Opposite(theme.GetThemeFromRequest(r))

	http.SetCookie(w, &http.Cookie{
		Name:     config.CookieTheme,
		Value:    newTheme,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, routes.RootPath, http.StatusSeeOther)
}

func serveSyntaxTheme(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("theme")
	if !theme.IsSyntaxTheme(name) {
		http.NotFound(w, r)
		return
	}
	themeStyle := []byte(theme.GenerateSyntaxCSS(name))

	w.Header().Set(config.HCType, config.CTypeCSS)
	w.Header().Set(config.HETag, util.ETag(themeStyle))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(themeStyle)
}
