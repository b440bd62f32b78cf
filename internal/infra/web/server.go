package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"ai-mentor-platform/internal/config"
	"ai-mentor-platform/internal/infra/logging"
	"ai-mentor-platform/internal/infra/metrics"
	"ai-mentor-platform/internal/usecase"
)

type Server struct {
	userUC     usecase.UserUseCase
	mentorUC   usecase.MentorUseCase
	checkinUC  usecase.CheckinUseCase
	insightsUC usecase.InsightsUseCase
	studioUC   usecase.StudioUseCase
	auth       *AuthManager
	log        *zerolog.Logger
}

func NewServer(
	userUC usecase.UserUseCase,
	mentorUC usecase.MentorUseCase,
	checkinUC usecase.CheckinUseCase,
	insightsUC usecase.InsightsUseCase,
	studioUC usecase.StudioUseCase,
	auth *AuthManager,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		userUC:     userUC,
		mentorUC:   mentorUC,
		checkinUC:  checkinUC,
		insightsUC: insightsUC,
		studioUC:   studioUC,
		auth:       auth,
		log:        logger,
	}
}

// Router assembles the full API surface.
func (s *Server) Router(cfg *config.WebConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(s.traceMiddleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/signup", s.handleSignup)
		r.Post("/auth/signin", s.handleSignin)
		r.Post("/auth/signout", s.handleSignout)

		r.Group(func(r chi.Router) {
			r.Use(s.sessionMiddleware)

			r.Get("/me", s.handleMe)
			r.Put("/me/settings", s.handleUpdateSettings)

			r.Get("/checkins", s.handleListCheckins)
			r.Post("/checkins", s.handleSubmitCheckin)
			r.Get("/checkins/{id}", s.handleGetCheckin)

			r.Get("/insights", s.handleInsights)

			r.Get("/mentors", s.handleListMentors)
			r.Post("/mentors", s.handleCreateMentor)
			r.Get("/mentors/{id}", s.handleGetMentor)
			r.Delete("/mentors/{id}", s.handleDeleteMentor)

			r.Post("/studio/videos", s.handleRequestVideo)
			r.Post("/studio/avatars", s.handleRequestAvatar)
			r.Post("/studio/voices", s.handleRequestVoice)
			r.Get("/studio/jobs", s.handleListJobs)
			r.Get("/studio/jobs/{id}", s.handleGetJob)
			r.Delete("/studio/jobs/{id}", s.handleCancelJob)
		})
	})

	return r
}

// traceMiddleware tags every request with a trace id and records the outcome.
func (s *Server) traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logging.WithTraceID(r.Context(), uuid.NewString())
		ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		started := time.Now()

		next.ServeHTTP(ww, r.WithContext(ctx))

		metrics.IncHTTPRequest(r.Method, ww.status)
		logging.With(ctx, s.log).Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.status).
			Dur("elapsed", time.Since(started)).
			Msg("http request")
	})
}

// sessionMiddleware rejects requests without a valid session and stores the
// user id on the context for handlers.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.auth.ParseFromRequest(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized", "sign in required")
			return
		}
		ctx := withUserID(r.Context(), claims.Subject)
		ctx = logging.WithUserID(ctx, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
