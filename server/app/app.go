package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/KerianM/music-search-api/server/catalog"
	"github.com/KerianM/music-search-api/server/config"
	"github.com/KerianM/music-search-api/server/httpd"
	logpkg "github.com/KerianM/music-search-api/server/logger"
	"github.com/KerianM/music-search-api/server/lyrics"
	"github.com/KerianM/music-search-api/server/provider"
	"github.com/KerianM/music-search-api/server/resolver"
	"github.com/KerianM/music-search-api/server/worker"
)

// App wires all application dependencies.
type App struct {
	Config   *config.Config
	Logger   *logpkg.Logger
	Pool     *worker.Pool
	Catalog  *catalog.Catalog
	Lyrics   *lyrics.Store
	Resolver *resolver.Resolver
	Build    BuildInfo

	server *http.Server
}

// BuildInfo provides build-time metadata.
type BuildInfo struct {
	RuntimeVer string
	BinVersion string
	CommitSHA  string
	BuildTime  string
}

// New builds the application container.
func New(ctx context.Context, configPath string, build BuildInfo) (*App, error) {
	conf, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	log, err := logpkg.New(conf.GetString("LogLevel"), conf.GetString("LogFormat"), conf.GetBool("LogSource"))
	if err != nil {
		return nil, err
	}

	pool := worker.New(conf.GetInt("ScanConcurrency"))
	lyricStore := lyrics.NewStore(conf.GetString("LyricsDirectory"), log)
	cat := catalog.New(conf.GetString("MusicDirectory"), lyricStore, pool, log)

	serverURL := strings.TrimRight(conf.GetString("ServerURL"), "/")
	timeout := time.Duration(conf.GetInt("HTTPTimeoutSec")) * time.Second

	clientOpts := provider.Options{
		Timeout:   timeout,
		ServerURL: serverURL,
		Lyrics:    lyricStore,
		Logger:    log,
	}
	qqClient := provider.NewClient(provider.QQAdapter(
		conf.GetProviderString("qq", "endpoint"),
		conf.GetProviderString("qq", "key"),
	), clientOpts)
	miguClient := provider.NewClient(provider.MiguAdapter(
		conf.GetProviderString("migu", "endpoint"),
	), clientOpts)

	localSearch := func(ctx context.Context, keyword string) (*provider.TrackRef, error) {
		entry, err := cat.SearchKeyword(ctx, keyword)
		if err != nil {
			return nil, err
		}
		var lyricURL string
		if entry.LyricName != "" {
			lyricURL = serverURL + "/lyrics/" + url.PathEscape(entry.LyricName)
		}
		return &provider.TrackRef{
			Title:    entry.Title,
			Artist:   entry.Artist,
			SongURL:  serverURL + "/music/" + escapePath(entry.RelPath),
			LyricURL: lyricURL,
		}, nil
	}

	stages := []resolver.Stage{
		{Name: "qq", Enabled: providerEnabled(conf, "qq"), Search: qqClient.Search},
		{Name: "migu", Enabled: providerEnabled(conf, "migu"), Search: miguClient.Search},
		{Name: "local", Enabled: conf.GetBool("SearchEnabledLocal"), Search: localSearch},
	}
	res := resolver.New(stages, log)
	log.Info("search stages configured", "enabled", res.EnabledStages())

	handler := &httpd.Handler{
		Resolver:  res,
		Catalog:   cat,
		Lyrics:    lyricStore,
		ServerURL: serverURL,
		Logger:    log,
		StartedAt: time.Now(),
	}

	var limiter *httpd.RateLimiter
	if perSecond := conf.GetFloat64("RateLimitPerSecond"); perSecond > 0 {
		limiter = httpd.NewRateLimiter(perSecond, conf.GetInt("RateLimitBurst"))
	}

	engine := httpd.NewEngine(handler, limiter, log)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", conf.GetInt("Port")),
		Handler:           engine,
		ReadHeaderTimeout: time.Duration(conf.GetInt("ReadHeaderTimeoutSec")) * time.Second,
	}

	return &App{
		Config:   conf,
		Logger:   log,
		Pool:     pool,
		Catalog:  cat,
		Lyrics:   lyricStore,
		Resolver: res,
		Build:    build,
		server:   server,
	}, nil
}

// providerEnabled reports whether a remote provider is switched on. Providers
// default to enabled; only an explicit enabled key in their config section
// can turn them off.
func providerEnabled(conf *config.Config, name string) bool {
	if cfg, ok := conf.GetProviderConfig(name); ok {
		if _, hasKey := cfg["enabled"]; hasKey {
			return conf.GetProviderBool(name, "enabled")
		}
	}
	return true
}

// escapePath percent-encodes each segment of a slash-separated relative path
// while keeping the separators routable.
func escapePath(rel string) string {
	segments := strings.Split(rel, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}

// Run serves HTTP until the context is canceled, then drains in-flight
// requests.
func (a *App) Run(ctx context.Context) error {
	a.Logger.Info("music search api listening",
		"addr", a.server.Addr,
		"version", a.Build.BinVersion,
		"music_dir", a.Catalog.Root(),
		"lyrics_dir", a.Lyrics.Dir(),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Shutdown releases resources.
func (a *App) Shutdown(ctx context.Context) error {
	var firstErr error

	if a.Pool != nil {
		if err := a.Pool.Shutdown(ctx); err != nil {
			a.Pool.StopNow()
			if firstErr == nil {
				firstErr = fmt.Errorf("shutdown worker pool: %w", err)
			}
		}
	}

	if a.Logger != nil {
		if err := a.Logger.Close(); err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("close logger: %w", err)
			}
		}
	}

	return firstErr
}
