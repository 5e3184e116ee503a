// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	"github.com/careermate/go-career-backend/internal/config"
	"github.com/careermate/go-career-backend/internal/domain"
	"github.com/careermate/go-career-backend/internal/http/handlers"
	"github.com/careermate/go-career-backend/internal/http/middleware"
	"github.com/careermate/go-career-backend/internal/search"
	"github.com/careermate/go-career-backend/internal/services"
	"github.com/careermate/go-career-backend/internal/uploads"
	"github.com/careermate/go-career-backend/internal/voice"
)

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine: user accounts, chatbot sessions, feedback threads, the search
// proxies, and the voice pipeline.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter (generous: chat attachments ride in multipart)
//  6. Metrics
//  7. Rate limiter (per user/IP)
//  8. CORS and security headers
//  9. Principal: decode the optional Bearer token once for all routes
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit (16 MiB: resumes and audio attachments)
	r.Use(limitBody(16 << 20))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// 8) CORS posture (safe defaults: allow all if none configured)
	allowHeaders := []string{
		"Origin", "Content-Type", "Accept", "Authorization",
		middleware.SessionHeader, middleware.FeedbackHeader,
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length", middleware.SessionHeader, middleware.FeedbackHeader},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length", middleware.SessionHeader, middleware.FeedbackHeader},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// 9) Decode the optional Bearer token once; malformed headers are 400,
	// invalid tokens 401, absence is anonymous.
	r.Use(middleware.Principal(cfg.Auth.JWTSecret))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Swagger UI (off by default)
	if cfg.SwaggerEnabled {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← db/cfg
	store := uploads.NewStore(cfg.Upload.Dir, cfg.Upload.TTL)
	pipeline := &voice.Pipeline{
		Chat:             voice.NewGroqClient(cfg.Voice.GroqAPIKey, cfg.Voice.GroqModel),
		Speech:           voice.NewElevenLabsClient(cfg.Voice.ElevenLabsAPIKey, cfg.Voice.ElevenLabsVoiceID),
		Lips:             &voice.RhubarbSyncer{FFmpegBin: cfg.Voice.FFmpegBin, RhubarbBin: cfg.Voice.RhubarbBin},
		AudioDir:         cfg.Voice.AudioDir,
		IntroAudioPath:   cfg.Voice.IntroAudioPath,
		IntroLipsyncPath: cfg.Voice.IntroLipsyncPath,
	}

	h := handlers.New(handlers.Deps{
		Conversations: &services.ChatService{DB: db},
		Feedback:      &services.FeedbackService{DB: db},
		Users:         &services.UserService{DB: db},
		Voice:         pipeline,
		Jobs:          search.NewTheirStackClient(cfg.Search.TheirStackAPIKey),
		Mentors:       search.NewRapidAPIMentorClient(cfg.Search.RapidAPIKey),
		Events:        search.NewSerpAPIEventClient(cfg.Search.SerpAPIKey),
		Uploads:       store,
		Auth:          cfg.Auth,
	})

	rc := middleware.ResolverConfig{DB: db, Secret: cfg.Auth.JWTSecret, TTL: cfg.SessionTTL}

	// Compress the larger payloads (session lists, voice responses)
	zip := gzip.Gzip(gzip.DefaultCompression)

	user := r.Group("/user")
	{
		user.POST("/signup", h.Signup)
		user.POST("/login", h.Login)
		authed := user.Group("", middleware.RequireAuth())
		authed.PATCH("/updateuser", h.UpdateUser)
		authed.DELETE("/deleteuser", h.DeleteUser)
		authed.GET("/getusers", zip, h.ListUsers)
		authed.GET("/getusername", h.GetUsername)
	}

	chatbot := r.Group("/chatbot")
	{
		chatbot.POST("/message",
			middleware.ResolveConversation(rc, middleware.SessionHeader, domain.KindSession),
			h.PostChatMessage)
		chatbot.GET("/getmessage/:id", zip, h.GetSession)
		chatbot.GET("/getusermessage", middleware.RequireAuth(), zip, h.ListUserSessions)
	}

	feedback := r.Group("/feedback")
	{
		feedback.POST("/feedback",
			middleware.ResolveConversation(rc, middleware.FeedbackHeader, domain.KindFeedback),
			h.PostFeedbackMessage)
		feedback.GET("/feedback/:id", zip, h.GetFeedback)
		feedback.PATCH("/feedback/:id/category", h.ClassifyFeedback)
		feedback.GET("/Userfeedback", middleware.RequireAuth(), zip, h.ListUserFeedback)
	}

	r.POST("/jobs/search", zip, h.SearchJobs)
	r.POST("/mentors/search", zip, h.SearchMentors)
	r.POST("/events/getevents", zip, h.SearchEvents)

	// Voice responses carry base64 WAVs; gzip buys the most here.
	r.POST("/voicechat/voice", zip, h.VoiceChat)
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
