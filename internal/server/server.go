package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"github.com/kelechionyeama/Finance-app/internal/config"
	"github.com/kelechionyeama/Finance-app/internal/finance"
	"github.com/kelechionyeama/Finance-app/internal/quote"
)

// Server is the HTTP front of the application. It holds every dependency
// the handlers need; no handler reaches for global state.
type Server struct {
	server    *http.Server
	logger    *zap.Logger
	creds     finance.CredentialStore
	ledger    finance.Ledger
	portfolio *finance.Calculator
	provider  quote.Provider
	sessions  *sessions.CookieStore
	renderer  *Renderer
	staticDir string
}

// New creates a fully wired Server.
func New(
	cfg *config.Server,
	logger *zap.Logger,
	creds finance.CredentialStore,
	ledger finance.Ledger,
	portfolio *finance.Calculator,
	provider quote.Provider,
) (*Server, error) {
	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("server.session_secret must be set")
	}

	renderer, err := NewRenderer(cfg.TemplateDir)
	if err != nil {
		return nil, err
	}

	s := &Server{
		logger:    logger,
		creds:     creds,
		ledger:    ledger,
		portfolio: portfolio,
		provider:  provider,
		sessions:  sessions.NewCookieStore([]byte(cfg.SessionSecret)),
		renderer:  renderer,
		staticDir: cfg.StaticDir,
	}
	s.sessions.Options.HttpOnly = true

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: s.routes(),
	}

	return s, nil
}

// routes builds the router. Public routes are registered first; everything
// under the catch-all subrouter requires a session.
func (s *Server) routes() http.Handler {
	r := mux.NewRouter()
	r.Use(noCache)

	r.PathPrefix("/static/").Handler(
		http.StripPrefix("/static/", http.FileServer(http.Dir(s.staticDir))))

	r.HandleFunc("/login", s.handleLoginForm).Methods(http.MethodGet)
	r.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/logout", s.handleLogout).Methods(http.MethodGet)
	r.HandleFunc("/register", s.handleRegisterForm).Methods(http.MethodGet)
	r.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)

	protected := r.PathPrefix("/").Subrouter()
	protected.Use(s.requireLogin)
	protected.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	protected.HandleFunc("/buy", s.handleBuyForm).Methods(http.MethodGet)
	protected.HandleFunc("/buy", s.handleBuy).Methods(http.MethodPost)
	protected.HandleFunc("/sell", s.handleSellForm).Methods(http.MethodGet)
	protected.HandleFunc("/sell", s.handleSell).Methods(http.MethodPost)
	protected.HandleFunc("/quote", s.handleQuoteForm).Methods(http.MethodGet)
	protected.HandleFunc("/quote", s.handleQuote).Methods(http.MethodPost)
	protected.HandleFunc("/history", s.handleHistory).Methods(http.MethodGet)

	return r
}

// Start runs the HTTP server until it is shut down.
func (s *Server) Start() error {
	s.logger.Info("Starting web server", zap.String("address", s.server.Addr))
	if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping web server...")
	return s.server.Shutdown(ctx)
}
