package server

import (
	"net/http"
	"time"

	"tourney/domain/entities"
	"tourney/infrastructure"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/go-chi/jwtauth"
)

// maxUploadBytes bounds multipart bodies carrying proof screenshots
const maxUploadBytes = 10 << 20

// Options configures the HTTP surface
type Options struct {
	JWTSecret      string
	TokenTTL       time.Duration
	RateLimit      int // Requests per minute per client IP, 0 disables limiting
	AllowedOrigins []string
}

// Server routes HTTP requests to the platform
type Server struct {
	platform  Platform
	proofs    infrastructure.ProofStore
	health    HealthChecker
	metrics   RequestMetrics
	tokenAuth *jwtauth.JWTAuth
	tokenTTL  time.Duration
	opts      Options
	now       func() time.Time
}

// New creates a new Server. metrics may be nil.
func New(platform Platform, proofs infrastructure.ProofStore, health HealthChecker, metrics RequestMetrics, opts Options) *Server {
	return &Server{
		platform:  platform,
		proofs:    proofs,
		health:    health,
		metrics:   metrics,
		tokenAuth: jwtauth.New("HS256", []byte(opts.JWTSecret), nil),
		tokenTTL:  opts.TokenTTL,
		opts:      opts,
		now:       time.Now,
	}
}

// Router builds the chi router with middleware and every route mounted
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   s.opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler)
	if s.opts.RateLimit > 0 {
		r.Use(httprate.LimitByIP(s.opts.RateLimit, time.Minute))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/auth/signup", s.handleSignup)
		r.Post("/auth/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(s.tokenAuth))
			r.Use(jwtauth.Authenticator)
			r.Use(s.resolveActor)

			r.Get("/wallet", s.handleWallet)
			r.Get("/wallet/history", s.handleWalletHistory)
			r.Post("/wallet/topups", s.handleTopUp)
			r.Post("/wallet/withdrawals", s.handleWithdrawal)
			r.Get("/wallet/requests", s.handleMyPayments)

			r.Get("/gaming-ids", s.handleListGamingIDs)
			r.Post("/gaming-ids", s.handleAddGamingID)
			r.Put("/gaming-ids/{id}", s.handleEditGamingID)
			r.Post("/gaming-ids/{id}/primary", s.handleSetPrimaryGamingID)

			r.Get("/teams", s.handleListTeams)
			r.Post("/teams", s.handleCreateTeam)
			r.Put("/teams/{id}", s.handleEditTeam)
			r.Post("/teams/{id}/toggle", s.handleToggleTeam)

			r.Get("/rooms", s.handleListRooms)
			r.Get("/rooms/{id}", s.handleGetRoom)
			r.Post("/rooms/{id}/join", s.handleJoinRoom)

			r.Route("/admin", func(r chi.Router) {
				r.Use(requireAdmin)

				r.Post("/rooms", s.handleCreateRoom)
				r.Post("/rooms/{id}/toggle", s.handleToggleRoom)
				r.Post("/rooms/{id}/blocked-users", s.handleBlockUser)
				r.Delete("/rooms/{id}/blocked-users", s.handleUnblockUser)
				r.Post("/rooms/{id}/blocked-teams", s.handleBlockTeam)
				r.Delete("/rooms/{id}/blocked-teams", s.handleUnblockTeam)
				r.Post("/rooms/{id}/kills", s.handleRecordKills)
				r.Get("/rooms/{id}/standings", s.handleStandings)
				r.Post("/rooms/{id}/winners", s.handleSelectWinner)
				r.Post("/rooms/{id}/distribute", s.handleDistribute)
				r.Get("/rooms/{id}/winner-history", s.handleWinnerHistory)

				r.Get("/payments", s.handlePendingPayments)
				r.Post("/payments/{id}/approve", s.handleApprovePayment)
				r.Post("/payments/{id}/reject", s.handleRejectPayment)
			})
		})
	})

	return r
}

// IssueToken signs a session token for user. The is_admin claim is
// informational; requests resolve the admin flag from the store.
func (s *Server) IssueToken(user *entities.User) (string, time.Time, error) {
	expiresAt := s.now().Add(s.tokenTTL)
	claims := map[string]interface{}{"user_id": user.ID, "is_admin": user.IsAdmin}
	jwtauth.SetIssuedAt(claims, s.now())
	jwtauth.SetExpiry(claims, expiresAt)
	_, token, err := s.tokenAuth.Encode(claims)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.health.Healthy(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Code: "storage_unavailable", Error: "database unreachable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
