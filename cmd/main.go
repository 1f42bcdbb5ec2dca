package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lshigami/reansql/config"
	_ "github.com/lshigami/reansql/docs" // Swagger docs
	"github.com/lshigami/reansql/internal/archive"
	"github.com/lshigami/reansql/internal/controller"
	"github.com/lshigami/reansql/internal/database"
	"github.com/lshigami/reansql/internal/document"
	"github.com/lshigami/reansql/internal/llm"
	"github.com/lshigami/reansql/internal/metrics"
	"github.com/lshigami/reansql/internal/pipeline"
	"github.com/lshigami/reansql/internal/refine"
	"github.com/lshigami/reansql/internal/repository"
	"github.com/lshigami/reansql/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title ReanSQL Practice API
// @version 1.0
// @description Upload SQL exercise documents, get AI generated answers with bullet explanations, and practice with graded submissions.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp assembles the HTTP application around an already loaded config.
func newApp(cfg *config.Config) *fx.App {
	return fx.New(
		fx.NopLogger,
		fx.Supply(cfg),

		fx.Provide(
			database.NewDatabase,
			NewGinEngine,
		),

		fx.Provide(
			repository.NewUploadRepository,
			repository.NewQuestionRepository,
			repository.NewSubmissionRepository,
		),

		// Pipeline components
		fx.Provide(
			func() document.Extractor { return document.NewExtractor() },
			NewArchiver,
			NewGenerator,
			func(gen llm.Generator) pipeline.Explainer { return refine.New(gen) },
			func(gen llm.Generator, explainer pipeline.Explainer, repo repository.UploadRepository, cfg *config.Config) service.PipelineRunner {
				return pipeline.New(gen, explainer, repo, cfg.Pipeline.QuestionDelay)
			},
		),

		fx.Provide(
			service.NewUploadService,
			service.NewQuestionService,
			service.NewSubmissionService,
			service.NewHintService,
		),

		fx.Provide(
			controller.NewUploadController,
			controller.NewQuestionController,
			controller.NewHintController,
		),

		fx.Invoke(AutoMigrateDB),
		fx.Invoke(RegisterRoutesAndStartServer),
	)
}

func runServer(cfg *config.Config) error {
	app := newApp(cfg)
	if err := app.Start(context.Background()); err != nil {
		log.Error().Err(err).Msg("Failed to start application")
		return err
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")

	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return app.Stop(stopCtx)
}

func NewGinEngine(cfg *config.Config) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	r := gin.New()

	r.Use(requestID())
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("request_id", param.Request.Header.Get(requestIDHeader)).
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())
	r.Use(metrics.MetricsMiddleware())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", requestIDHeader},
		ExposeHeaders:    []string{"Content-Length", requestIDHeader},
		AllowCredentials: !allowsAnyOrigin(cfg.Server.CORSAllowedOrigins),
		MaxAge:           12 * time.Hour,
	}))

	// URL: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/healthz", controller.Health)
	r.GET("/metrics", metrics.PrometheusHandler())

	return r
}

const requestIDHeader = "X-Request-ID"

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
			c.Request.Header.Set(requestIDHeader, id)
		}
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func allowsAnyOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return len(origins) == 0
}

// NewArchiver builds the document archiver and tries to create its bucket
// once the application starts. A missing bucket never blocks startup.
func NewArchiver(lc fx.Lifecycle, cfg *config.Config) (archive.Archiver, error) {
	a, err := archive.New(cfg)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			archive.Prepare(ctx, a)
			return nil
		},
	})
	return a, nil
}

// NewGenerator builds the multi-key generation client. Without any API key the
// server still starts; every generation then fails and uploads fall back to
// manual practice mode.
func NewGenerator(lc fx.Lifecycle, cfg *config.Config) (llm.Generator, error) {
	client, err := llm.NewClient(llm.Config{
		APIKeys:         cfg.Gemini.APIKeys,
		Model:           cfg.Gemini.Model,
		BaseURL:         cfg.Gemini.BaseURL,
		Transport:       cfg.Gemini.Transport,
		Temperature:     cfg.Gemini.Temperature,
		TopP:            cfg.Gemini.TopP,
		TopK:            cfg.Gemini.TopK,
		MaxOutputTokens: cfg.Gemini.MaxOutputTokens,
		MaxRetries:      cfg.Gemini.MaxRetries,
		Timeout:         cfg.Gemini.Timeout,
	})
	if errors.Is(err, llm.ErrNoCredentials) {
		log.Warn().Msg("GEMINI_API_KEYS is empty, uploads will use manual practice mode")
		return llm.GeneratorFunc(func(context.Context, string) (string, error) {
			return "", &llm.ExhaustedError{Last: llm.ErrNoCredentials}
		}), nil
	}
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
	return client, nil
}

func AutoMigrateDB(db *gorm.DB) error {
	return database.AutoMigrate(db)
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	uploadCtrl *controller.UploadController,
	questionCtrl *controller.QuestionController,
	hintCtrl *controller.HintController,
) {
	api := router.Group("/api/v1")
	uploadCtrl.RegisterRoutes(api)
	questionCtrl.RegisterRoutes(api)
	hintCtrl.RegisterRoutes(api)

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("ReanSQL API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}
