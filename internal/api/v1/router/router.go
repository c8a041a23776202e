package router

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"gurukul/internal/access"
	"gurukul/internal/api/v1/handler"
	"gurukul/internal/cache"
	"gurukul/internal/config"
	"gurukul/internal/database"
	"gurukul/internal/middleware"
	"gurukul/internal/pgmq"
	"gurukul/internal/pubsub"
	"gurukul/internal/repository"
	"gurukul/internal/service"
	"gurukul/internal/storage"

	_ "gurukul/docs"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/swaggo/swag"
)

// Deps are the external systems the API talks to
type Deps struct {
	DB        *sql.DB
	Store     storage.ObjectStore
	Catalog   *cache.Catalog
	Publisher pubsub.Publisher
	Queue     service.JobQueue
}

// New connects to Postgres, storage, Redis and Pub/Sub and builds the HTTP
// handler. The returned func releases those connections.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (http.Handler, func(), error) {
	logger.Info().Str("environment", cfg.Environment).Msg("App environment loaded")

	db, err := database.Open(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	closers := []func() error{db.Close}
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				logger.Warn().Err(err).Msg("Failed to close dependency")
			}
		}
	}

	s3Client, err := storage.NewS3Client(ctx, cfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	// Redis is optional; without it every catalog read goes to Postgres.
	catalog := cache.NewCatalog(nil, cfg.CatalogCacheTTL(), logger)
	if cfg.RedisURL != "" {
		client, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn().Err(err).Msg("Catalog cache disabled")
		} else {
			closers = append(closers, client.Close)
			catalog = cache.NewCatalog(client, cfg.CatalogCacheTTL(), logger)
		}
	}

	var publisher pubsub.Publisher = pubsub.NewLogPublisher(logger)
	if cfg.GCPProjectID != "" {
		p, err := pubsub.NewPublisher(ctx, cfg)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		closers = append(closers, p.Close)
		publisher = p
	}

	h := NewHandler(cfg, Deps{
		DB:        db,
		Store:     storage.NewS3Store(s3Client, cfg.S3Bucket, cfg.S3PublicURL),
		Catalog:   catalog,
		Publisher: publisher,
		Queue:     pgmq.NewQueue(db, cfg.MediaQueueName),
	}, logger)
	logger.Info().Msg("Router initialized")
	return h, cleanup, nil
}

// NewHandler wires repositories, services and handlers over deps
func NewHandler(cfg *config.Config, deps Deps, logger zerolog.Logger) http.Handler {
	validate := validator.New(validator.WithRequiredStructEnabled())
	emitter := pubsub.NewEmitter(deps.Publisher, cfg.PubSubEventsTopic, logger)

	userRepo := repository.NewUserRepo(deps.DB)
	courseRepo := repository.NewCourseRepo(deps.DB)
	enrollmentRepo := repository.NewEnrollmentRepo(deps.DB)
	moduleRepo := repository.NewModuleRepo(deps.DB)
	assessmentRepo := repository.NewAssessmentRepo(deps.DB)
	mediaRepo := repository.NewMediaRepo(deps.DB)
	forumRepo := repository.NewForumRepo(deps.DB)
	eventRepo := repository.NewEventRepo(deps.DB)
	dashboardRepo := repository.NewDashboardRepo(deps.DB)

	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL(), logger)
	userSvc := service.NewUserService(userRepo)
	courseSvc := service.NewCourseService(courseRepo, deps.Catalog, logger)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, courseRepo, deps.Catalog, emitter, logger)
	moduleSvc := service.NewModuleService(moduleRepo, courseRepo, enrollmentRepo, emitter, logger)
	assessmentSvc := service.NewAssessmentService(assessmentRepo, courseRepo, enrollmentRepo)
	mediaSvc := service.NewMediaService(mediaRepo, courseRepo, deps.Store, deps.Queue, emitter, cfg.MaxUploadBytes(), logger)
	forumSvc := service.NewForumService(forumRepo)
	eventSvc := service.NewEventService(eventRepo, emitter, logger)
	dashboardSvc := service.NewDashboardService(dashboardRepo, courseRepo, enrollmentRepo, userRepo)

	authMiddleware := middleware.AuthMiddleware(cfg.JWTSecret, logger)
	optionalAuth := middleware.OptionalAuthMiddleware(cfg.JWTSecret)

	apiV1Mux := http.NewServeMux()
	handler.NewAuthHandler(authSvc, validate).RegisterRoutes(apiV1Mux)
	handler.NewUserHandler(userSvc, validate).RegisterRoutes(apiV1Mux, authMiddleware)
	handler.NewCourseHandler(courseSvc, moduleSvc, validate).RegisterRoutes(apiV1Mux, authMiddleware)
	handler.NewEnrollmentHandler(enrollmentSvc, moduleSvc, validate).RegisterRoutes(apiV1Mux, authMiddleware)
	handler.NewAssessmentHandler(assessmentSvc, validate).RegisterRoutes(apiV1Mux, authMiddleware)
	handler.NewMediaHandler(mediaSvc, validate).RegisterRoutes(apiV1Mux, authMiddleware)
	handler.NewCommunityHandler(forumSvc, eventSvc, validate).RegisterRoutes(apiV1Mux, authMiddleware)
	handler.NewDashboardHandler(dashboardSvc).RegisterRoutes(apiV1Mux, authMiddleware)
	handler.NewPortalHandler(access.NewTable(access.DefaultRoutes)).RegisterRoutes(apiV1Mux, optionalAuth)

	mux := http.NewServeMux()
	mux.Handle("/v1/", http.StripPrefix("/v1", apiV1Mux))

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := deps.DB.PingContext(ctx); err != nil {
			logger.Error().Err(err).Msg("Health check failed")
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		doc, err := swag.ReadDoc()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(doc))
	})

	// Legacy clients still call the /api base path.
	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/api/")
		target := "/v1/" + rest
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		// 308 keeps the method and body for POST/PUT clients
		http.Redirect(w, r, target, http.StatusPermanentRedirect)
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   corsOrigins(cfg),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return middleware.LoggerMiddleware(logger)(c.Handler(mux))
}

func corsOrigins(cfg *config.Config) []string {
	if cfg.CORSAllowedOrigins == "" {
		return []string{"*"}
	}
	var origins []string
	for _, o := range strings.Split(cfg.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
