package web

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/tictactoe-go/internal/services/auth"
	"github.com/mcoot/tictactoe-go/internal/services/game"
	"github.com/mcoot/tictactoe-go/internal/services/invitation"
	"github.com/mcoot/tictactoe-go/internal/web/handler"
	"github.com/mcoot/tictactoe-go/internal/web/middleware"
)

// RouterConfig holds configuration for the web router
type RouterConfig struct {
	Logger               *slog.Logger
	AuthService          *auth.Service
	GameController       *game.Controller
	InvitationController *invitation.Controller
}

// NewRouter creates a new web router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create middleware
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)
	flashMiddleware := middleware.Flash()
	authMiddleware := middleware.Auth(cfg.AuthService)
	optionalAuthMiddleware := middleware.OptionalAuth(cfg.AuthService)

	// Apply global middleware to all routes
	r.Use(loggingMiddleware)
	r.Use(recoveryMiddleware)

	// Unmatched paths skip r.Use, so wrap explicitly
	r.NotFoundHandler = loggingMiddleware(recoveryMiddleware(optionalAuthMiddleware(http.HandlerFunc(handler.NotFound))))

	// Create handlers
	homeHandler := handler.NewHomeHandler(cfg.AuthService, cfg.GameController, cfg.InvitationController)
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	invitationHandler := handler.NewInvitationHandler(cfg.AuthService, cfg.InvitationController)
	gameHandler := handler.NewGameHandler(cfg.AuthService, cfg.GameController)

	// Public routes (optional auth for showing player info in nav)
	public := r.NewRoute().Subrouter()
	public.Use(flashMiddleware)
	public.Use(optionalAuthMiddleware)
	public.HandleFunc("/", homeHandler.Home).Methods(http.MethodGet)
	public.HandleFunc("/signup", authHandler.SignupPage).Methods(http.MethodGet)
	public.HandleFunc("/signup", authHandler.Signup).Methods(http.MethodPost)
	public.HandleFunc("/login", authHandler.LoginPage).Methods(http.MethodGet)
	public.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)
	public.HandleFunc("/logout", authHandler.Logout).Methods(http.MethodPost)

	// Protected routes (require auth)
	protected := r.NewRoute().Subrouter()
	protected.Use(flashMiddleware)
	protected.Use(authMiddleware)

	// Invitation routes
	protected.HandleFunc("/invitations/new", invitationHandler.New).Methods(http.MethodGet)
	protected.HandleFunc("/invitations", invitationHandler.Create).Methods(http.MethodPost)
	protected.HandleFunc("/invitations/{id}", invitationHandler.Show).Methods(http.MethodGet)
	protected.HandleFunc("/invitations/{id}", invitationHandler.Respond).Methods(http.MethodPost)

	// Game routes
	protected.HandleFunc("/games", gameHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/games/{id}", gameHandler.Show).Methods(http.MethodGet)
	protected.HandleFunc("/games/{id}/move", gameHandler.Move).Methods(http.MethodPost)

	return r
}
