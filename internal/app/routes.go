package app

import (
	"net/http"
	"strings"

	"github.com/betheshoe/draftin-core/internal/middleware"
	"github.com/betheshoe/draftin-core/internal/modules/content/collection"
	"github.com/betheshoe/draftin-core/internal/modules/content/draft"
	"github.com/betheshoe/draftin-core/internal/modules/content/publication"
	"github.com/betheshoe/draftin-core/internal/modules/ingest"
	"github.com/betheshoe/draftin-core/internal/modules/intake"
	"github.com/betheshoe/draftin-core/internal/modules/processing/gist"
	"github.com/betheshoe/draftin-core/internal/modules/storage/media"
	"github.com/betheshoe/draftin-core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes() {
	r := a.router
	db := a.db
	cfg := a.cfg

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	appInfo := gin.H{
		"name":    "draftin-core",
		"version": "1.0.0",
	}

	// Ingestion pipeline
	fetcher := ingest.NewFetcher(cfg.FetchTimeoutDuration())
	gists := gist.NewResolver(fetcher.Client())
	localizer := media.NewLocalizer(media.Options{
		Root:      cfg.Media.Root,
		URLPrefix: cfg.Media.URL,
		MaxWidth:  cfg.Media.MaxImageWidth,
		MaxHeight: cfg.Media.MaxImageHeight,
	}, fetcher, a.logger)
	pipeline := ingest.NewPipeline(fetcher, gists, localizer, a.logger)

	// Services
	collectionSvc := collection.NewService(db)
	publicationSvc := publication.NewService(db)
	draftSvc := draft.NewService(db, pipeline)
	intakeSvc := intake.NewService(db, draftSvc)

	// Webhook endpoint, at the root so tokens form short URLs.
	root := r.Group("")
	intakeHandler := intake.NewHandler(intakeSvc, collectionSvc, a.logger)
	if a.rdb != nil {
		intakeHandler.RegisterRoutes(root, middleware.RateLimit(a.rdb), middleware.DeliveryDedupe(a.rdb))
	} else {
		intakeHandler.RegisterRoutes(root)
	}

	// Localized images are served straight from the media root.
	r.Static(strings.TrimSuffix(cfg.Media.URL, "/"), cfg.Media.Root)

	// Admin JSON API
	api := r.Group("/api/v1")
	api.GET("", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"data": "pong"}) })

	collection.NewHandler(collectionSvc).RegisterRoutes(api)
	publication.NewHandler(publicationSvc).RegisterRoutes(api)
	draft.NewHandler(draftSvc).RegisterRoutes(api)
}
