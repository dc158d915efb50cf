package router

import (
	"context"
	"errors"

	guidesvc "offerings-backend/internal/application/guides"
	healthsvc "offerings-backend/internal/application/health"
	lesvc "offerings-backend/internal/application/listingevents"
	listsvc "offerings-backend/internal/application/listings"
	"offerings-backend/internal/application/notifications"
	"offerings-backend/internal/config"
	"offerings-backend/internal/infrastructure/database"
	"offerings-backend/internal/infrastructure/messaging"
	"offerings-backend/internal/infrastructure/metrics"
	guidehandler "offerings-backend/internal/interfaces/handlers/guides"
	healthhandler "offerings-backend/internal/interfaces/handlers/health"
	lehandler "offerings-backend/internal/interfaces/handlers/listingevents"
	listhandler "offerings-backend/internal/interfaces/handlers/listings"
	"offerings-backend/internal/middleware"
	"offerings-backend/internal/pkg/constants"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Resources are the connections opened by CreateApp. main closes them on shutdown.
type Resources struct {
	DB         *gorm.DB
	Redis      *redis.Client
	NATS       *nats.Conn
	Dispatcher *notifications.Dispatcher
	Metrics    *metrics.Recorder
}

// Close waits for in-flight notifications, then drains the broker and closes the stores.
func (r *Resources) Close(ctx context.Context) error {
	if r == nil {
		return nil
	}
	done := make(chan struct{})
	go func() {
		r.Dispatcher.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		log.Warn().Msg("shutdown deadline reached with notifications still in flight")
	}

	var errs []error
	if r.NATS != nil {
		errs = append(errs, r.NATS.Drain())
	}
	if r.Redis != nil {
		errs = append(errs, r.Redis.Close())
	}
	if r.DB != nil {
		if sqlDB, err := r.DB.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	return errors.Join(errs...)
}

// brokerStatus reports "disconnected" instead of panicking when NATS was never configured.
type brokerStatus struct {
	nc *nats.Conn
}

func (b brokerStatus) IsConnected() bool {
	return b.nc != nil && b.nc.IsConnected()
}

// buildNotifier composes the review gateways from config. The log gateway is always on.
func buildNotifier(cfg *config.Config, nc *nats.Conn) (notifications.Notifier, error) {
	renderer, err := notifications.NewRenderer(cfg.NotifyTemplateNew, cfg.NotifyTemplateUpdated)
	if err != nil {
		return nil, err
	}
	fanout := notifications.Fanout{notifications.LogNotifier{Renderer: renderer}}
	if cfg.SendinblueAPIKey != "" && len(cfg.OperatorEmails) > 0 {
		fanout = append(fanout, &notifications.EmailNotifier{
			APIKey:   cfg.SendinblueAPIKey,
			MailFrom: cfg.MailFrom,
			To:       cfg.OperatorEmails,
			Renderer: renderer,
		})
	}
	if nc != nil {
		fanout = append(fanout, &messaging.Publisher{Conn: nc, Subject: cfg.NATSSubject})
	}
	return fanout, nil
}

func CreateApp(cfg *config.Config) (*fiber.App, *Resources, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})
	res := &Resources{Metrics: metrics.New("offerings")}

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	hh := &healthhandler.Handlers{HealthAdminKey: cfg.HealthAdminKey}
	if cfg.RedisURL != "" {
		sessionHandler, rdb, err := middleware.Session(middleware.SessionConfig{RedisURL: cfg.RedisURL})
		if err != nil {
			return nil, nil, err
		}
		res.Redis = rdb
		hh.Rdb = rdb
		app.Use(sessionHandler)
		app.Use(middleware.HealthMarker(rdb))
	} else {
		log.Warn().Msg("REDIS_URL not set: sessions and traffic stats are disabled")
	}

	app.Get("/", hh.Dashboard)
	app.Get("/reset", hh.Reset)
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)
	app.Get("/metrics", adaptor.HTTPHandler(res.Metrics.Handler()))

	if cfg.NATSURL != "" {
		nc, err := messaging.Connect(cfg.NATSURL)
		if err != nil {
			log.Warn().Err(err).Msg("review notifications will not be published to NATS")
		} else {
			res.NATS = nc
		}
		hh.Broker = brokerStatus{nc: res.NATS}
	}

	if cfg.DatabaseURL == "" {
		log.Warn().Msg("DATABASE_URL not set: listing routes are disabled")
		return app, res, nil
	}
	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		_ = res.Close(context.Background())
		return nil, nil, err
	}
	res.DB = db
	store := &database.Store{DB: db}
	hh.DB = store

	notifier, err := buildNotifier(cfg, res.NATS)
	if err != nil {
		_ = res.Close(context.Background())
		return nil, nil, err
	}
	res.Dispatcher = &notifications.Dispatcher{Notifier: notifier, Failures: res.Metrics}

	ls := &listsvc.Service{
		Store:         store,
		Notifier:      res.Dispatcher,
		Metrics:       res.Metrics,
		ReviewBaseURL: cfg.ReviewBaseURL,
	}
	lh := &listhandler.Handlers{Service: ls}

	// Public storefront
	pg := app.Group("/api/v1/public/listings")
	pg.Get("/", lh.ListPublished)
	pg.Get("/:slug", lh.GetBySlug)
	pg.Post("/:listing_id/whatsapp-click", lh.RecordWhatsAppClick)

	// Owner
	og := app.Group("/api/v1/listings", middleware.RequireAuth(), middleware.AuthorizePermission(constants.ManageOwnListings))
	og.Post("/", lh.CreateListing)
	og.Get("/mine", lh.ListMine)
	og.Get("/:listing_id", lh.GetListing)
	og.Patch("/:listing_id", lh.UpdateListing)
	og.Delete("/:listing_id", lh.DeleteListing)

	// Operator
	les := &lesvc.Service{Store: store}
	leh := &lehandler.Handlers{Service: les}
	ag := app.Group("/api/v1/admin/listings", middleware.RequireAuth())
	ag.Get("/", middleware.AuthorizePermission(constants.ModerateListings), lh.ListCatalog)
	ag.Post("/:listing_id/approve", middleware.AuthorizePermission(constants.ModerateListings), lh.Approve)
	ag.Post("/:listing_id/reject", middleware.AuthorizePermission(constants.ModerateListings), lh.Reject)
	ag.Patch("/:listing_id/status", middleware.AuthorizePermission(constants.ModerateListings), lh.SetStatus)
	ag.Patch("/:listing_id/availability", middleware.AuthorizePermission(constants.ManageAvailability), lh.UpdateAvailability)
	ag.Post("/:listing_id/reorder", middleware.AuthorizePermission(constants.ReorderListings), lh.Reorder)
	ag.Delete("/:listing_id", middleware.AuthorizePermission(constants.PurgeListings), lh.Purge)
	ag.Get("/:listing_id/events", middleware.AuthorizePermission(constants.ViewAudit), leh.GetListingEvents)

	// Guide profiles
	gs := &guidesvc.Service{Store: store, Listings: ls}
	gh := &guidehandler.Handlers{Service: gs}
	mg := app.Group("/api/v1/guides/me", middleware.RequireAuth(), middleware.AuthorizePermission(constants.EditProfile))
	mg.Get("/", gh.ViewProfile)
	mg.Put("/", gh.UpdateProfile)
	app.Put("/api/v1/admin/guides/:guide_id", middleware.RequireAuth(), middleware.AuthorizePermission(constants.ModerateListings), gh.UpdateGuide)

	return app, res, nil
}

var _ healthsvc.DBPinger = (*database.Store)(nil)
