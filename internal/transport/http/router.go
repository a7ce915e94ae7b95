package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"lesson-quiz-service/internal/app"
	"lesson-quiz-service/internal/domain"
	"lesson-quiz-service/internal/identity"
	"lesson-quiz-service/internal/metrics"
)

// Handler serves the quiz and result endpoints.
type Handler struct {
	quizzes  *app.QuizService
	results  *app.ResultService
	feed     *app.ResultFeed
	metrics  *metrics.Metrics
	log      *zap.Logger
	upgrader websocket.Upgrader
}

func NewHandler(quizzes *app.QuizService, results *app.ResultService, feed *app.ResultFeed, m *metrics.Metrics, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	if m == nil {
		m = metrics.New()
	}
	return &Handler{
		quizzes: quizzes,
		results: results,
		feed:    feed,
		metrics: m,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// RouterOptions controls the optional surfaces of the router.
type RouterOptions struct {
	Identity       *identity.Resolver
	AllowedOrigins []string
	RequestTimeout time.Duration
	// Fixtures mounts the destructive test-quiz endpoint. Development only.
	Fixtures bool
}

// NewRouter wires the HTTP surface.
func NewRouter(h *Handler, opts RouterOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	r.Use(accessLog(h.log), h.metrics.Middleware)
	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", h.metrics.Handler())

	resolver := opts.Identity
	if resolver == nil {
		resolver = identity.NewResolver(domain.PlaceholderUserID, "")
	}

	r.Group(func(pr chi.Router) {
		pr.Use(resolver.Middleware)

		// The websocket stream outlives any request timeout.
		pr.Get("/ws/results", h.ServeResultsWS)

		pr.Group(func(api chi.Router) {
			if opts.RequestTimeout > 0 {
				api.Use(middleware.Timeout(opts.RequestTimeout))
			}
			api.Get("/api/quiz", h.GetQuiz)
			api.Post("/api/results", h.SubmitResult)
			api.Get("/api/results", h.ListResults)
			api.Post("/actions/results", h.SubmitResultForm)
			if opts.Fixtures {
				api.Get("/api/test-quiz", h.ResetTestQuiz)
			}
		})
	})
	return r
}

func accessLog(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("requestId", middleware.GetReqID(r.Context())))
		})
	}
}
