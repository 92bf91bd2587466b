package server

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kelechionyeama/Finance-app/internal/finance"
	"github.com/kelechionyeama/Finance-app/internal/models"
	"github.com/kelechionyeama/Finance-app/internal/quote"
)

type basePage struct {
	LoggedIn bool
	Alert    string
}

type authPage struct {
	basePage
	Username string
}

type portfolioPage struct {
	basePage
	View *finance.PortfolioView
}

type buyPage struct {
	basePage
}

type sellPage struct {
	basePage
	Holdings []finance.Holding
}

type quotePage struct {
	basePage
}

type quotedPage struct {
	basePage
	Quote *quote.Quote
}

type historyPage struct {
	basePage
	Transactions []models.Transaction
}

type errorPage struct {
	basePage
	Message string
}

// render writes the page or, if rendering itself fails, a plain 500.
func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	if err := s.renderer.Render(w, status, name, data); err != nil {
		s.logger.Error("Failed to render page", zap.String("template", name), zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// serverError is the terminal handler for persistence-class failures. By
// the time it runs the store has already rolled back, so the page can
// honestly say nothing changed.
func (s *Server) serverError(w http.ResponseWriter, err error) {
	s.logger.Error("Request failed", zap.Error(err))
	s.render(w, http.StatusInternalServerError, "error.html", errorPage{
		basePage: basePage{LoggedIn: true},
		Message:  "Something went wrong. No changes were made to your account.",
	})
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "login.html", authPage{})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	page := authPage{Username: r.FormValue("username")}

	username := r.FormValue("username")
	password := r.FormValue("password")
	if username == "" {
		page.Alert = "Must provide a username"
		s.render(w, http.StatusBadRequest, "login.html", page)
		return
	}
	if password == "" {
		page.Alert = "Must provide a password"
		s.render(w, http.StatusBadRequest, "login.html", page)
		return
	}

	id, err := s.creds.Authenticate(r.Context(), username, password)
	switch {
	case errors.Is(err, finance.ErrInvalidCredentials):
		page.Alert = "Invalid username and/or password"
		s.render(w, http.StatusUnauthorized, "login.html", page)
		return
	case err != nil:
		s.serverError(w, err)
		return
	}

	s.setIdentity(w, r, id)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	session, _ := s.sessions.Get(r, sessionName)
	delete(session.Values, "user_id")
	session.Options.MaxAge = -1
	if err := session.Save(r, w); err != nil {
		s.logger.Warn("Failed to clear session", zap.Error(err))
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) handleRegisterForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "register.html", authPage{})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	page := authPage{Username: r.FormValue("username")}

	username := r.FormValue("username")
	password := r.FormValue("password")
	confirmation := r.FormValue("confirmation")
	switch {
	case username == "":
		page.Alert = "Must provide a username"
	case password == "":
		page.Alert = "Must provide a password"
	case confirmation == "":
		page.Alert = "Must confirm the password"
	case password != confirmation:
		page.Alert = "Passwords do not match"
	}
	if page.Alert != "" {
		s.render(w, http.StatusBadRequest, "register.html", page)
		return
	}

	id, err := s.creds.Register(r.Context(), username, password)
	switch {
	case errors.Is(err, finance.ErrDuplicateUsername):
		page.Alert = "Username has already been taken"
		s.render(w, http.StatusConflict, "register.html", page)
		return
	case err != nil:
		s.serverError(w, err)
		return
	}

	// A fresh account goes straight to its (empty) portfolio.
	s.setIdentity(w, r, id)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// setIdentity replaces whatever session the request carried with the
// given user's identity.
func (s *Server) setIdentity(w http.ResponseWriter, r *http.Request, id uint) {
	session, _ := s.sessions.Get(r, sessionName)
	session.Values = map[any]any{"user_id": id}
	if err := session.Save(r, w); err != nil {
		s.logger.Error("Failed to save session", zap.Error(err))
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	view, err := s.portfolio.PortfolioView(r.Context(), userID(r))
	if err != nil {
		s.serverError(w, err)
		return
	}

	page := portfolioPage{basePage: basePage{LoggedIn: true}, View: view}
	if view.Degraded {
		page.Alert = "Some prices are currently unavailable; the total excludes them"
	}
	s.render(w, http.StatusOK, "index.html", page)
}

func (s *Server) handleBuyForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "buy.html", buyPage{basePage: basePage{LoggedIn: true}})
}

func (s *Server) handleBuy(w http.ResponseWriter, r *http.Request) {
	page := buyPage{basePage: basePage{LoggedIn: true}}

	// Validation order: missing symbol, unknown symbol, bad share count,
	// insufficient funds. The first failure short-circuits.
	symbol := formSymbol(r.FormValue("symbol"))
	if symbol == "" {
		page.Alert = "Symbol cannot be blank"
		s.render(w, http.StatusBadRequest, "buy.html", page)
		return
	}

	q, err := s.provider.Lookup(r.Context(), symbol)
	switch {
	case errors.Is(err, quote.ErrSymbolNotFound):
		page.Alert = "Symbol does not exist"
		s.render(w, http.StatusBadRequest, "buy.html", page)
		return
	case err != nil:
		s.logger.Warn("Quote lookup failed", zap.String("symbol", symbol), zap.Error(err))
		page.Alert = "Quote service is unavailable, please try again shortly"
		s.render(w, http.StatusServiceUnavailable, "buy.html", page)
		return
	}

	shares, err := formShares(r.FormValue("shares"))
	if err != nil {
		page.Alert = "Shares must be a positive whole number"
		s.render(w, http.StatusBadRequest, "buy.html", page)
		return
	}

	err = s.ledger.RecordBuy(r.Context(), userID(r), q.Symbol, q.Name, shares, q.Price)
	var verr *finance.ValidationError
	switch {
	case errors.Is(err, finance.ErrInsufficientFunds):
		page.Alert = "Insufficient funds"
		s.render(w, http.StatusBadRequest, "buy.html", page)
	case errors.As(err, &verr):
		page.Alert = verr.Error()
		s.render(w, http.StatusBadRequest, "buy.html", page)
	case err != nil:
		s.serverError(w, err)
	default:
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func (s *Server) handleSellForm(w http.ResponseWriter, r *http.Request) {
	holdings, err := s.ledger.Holdings(r.Context(), userID(r))
	if err != nil {
		s.serverError(w, err)
		return
	}
	s.render(w, http.StatusOK, "sell.html", sellPage{
		basePage: basePage{LoggedIn: true},
		Holdings: holdings,
	})
}

func (s *Server) handleSell(w http.ResponseWriter, r *http.Request) {
	holdings, err := s.ledger.Holdings(r.Context(), userID(r))
	if err != nil {
		s.serverError(w, err)
		return
	}
	page := sellPage{basePage: basePage{LoggedIn: true}, Holdings: holdings}

	symbol := formSymbol(r.FormValue("symbol"))
	if symbol == "" {
		page.Alert = "No stock selected"
		s.render(w, http.StatusBadRequest, "sell.html", page)
		return
	}

	q, err := s.provider.Lookup(r.Context(), symbol)
	switch {
	case errors.Is(err, quote.ErrSymbolNotFound):
		page.Alert = "Symbol does not exist"
		s.render(w, http.StatusBadRequest, "sell.html", page)
		return
	case err != nil:
		s.logger.Warn("Quote lookup failed", zap.String("symbol", symbol), zap.Error(err))
		page.Alert = "Quote service is unavailable, please try again shortly"
		s.render(w, http.StatusServiceUnavailable, "sell.html", page)
		return
	}

	shares, err := formShares(r.FormValue("shares"))
	if err != nil {
		page.Alert = "Shares must be a positive whole number"
		s.render(w, http.StatusBadRequest, "sell.html", page)
		return
	}

	err = s.ledger.RecordSell(r.Context(), userID(r), q.Symbol, q.Name, shares, q.Price)
	var verr *finance.ValidationError
	switch {
	case errors.Is(err, finance.ErrUnknownSymbol):
		page.Alert = "You do not own any shares of " + symbol
		s.render(w, http.StatusBadRequest, "sell.html", page)
	case errors.Is(err, finance.ErrInsufficientShares):
		page.Alert = "Not enough shares"
		s.render(w, http.StatusBadRequest, "sell.html", page)
	case errors.As(err, &verr):
		page.Alert = verr.Error()
		s.render(w, http.StatusBadRequest, "sell.html", page)
	case err != nil:
		s.serverError(w, err)
	default:
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func (s *Server) handleQuoteForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "quote.html", quotePage{basePage: basePage{LoggedIn: true}})
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	page := quotePage{basePage: basePage{LoggedIn: true}}

	symbol := formSymbol(r.FormValue("symbol"))
	if symbol == "" {
		page.Alert = "Please enter a symbol"
		s.render(w, http.StatusBadRequest, "quote.html", page)
		return
	}

	q, err := s.provider.Lookup(r.Context(), symbol)
	switch {
	case errors.Is(err, quote.ErrSymbolNotFound):
		page.Alert = "Invalid symbol"
		s.render(w, http.StatusBadRequest, "quote.html", page)
		return
	case err != nil:
		s.logger.Warn("Quote lookup failed", zap.String("symbol", symbol), zap.Error(err))
		page.Alert = "Quote service is unavailable, please try again shortly"
		s.render(w, http.StatusServiceUnavailable, "quote.html", page)
		return
	}

	s.render(w, http.StatusOK, "quoted.html", quotedPage{
		basePage: basePage{LoggedIn: true},
		Quote:    q,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	transactions, err := s.ledger.History(r.Context(), userID(r))
	if err != nil {
		s.serverError(w, err)
		return
	}
	s.render(w, http.StatusOK, "history.html", historyPage{
		basePage:     basePage{LoggedIn: true},
		Transactions: transactions,
	})
}
