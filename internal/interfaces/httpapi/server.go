package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"walletdash/internal/application"
	"walletdash/internal/domain"
)

// Dashboard is the page state the server drives.
type Dashboard interface {
	App() domain.AppKind
	View() application.PageView
	Connect(ctx context.Context) (application.SessionSnapshot, error)
	RefreshBalance(ctx context.Context) (string, error)
	RefreshHistory(ctx context.Context) ([]domain.LedgerEntry, error)
	Supports(kind domain.ActionKind) bool
	Perform(ctx context.Context, action domain.Action) (application.ActionResult, error)
	RecentActions(ctx context.Context, limit int) ([]domain.ActionRecord, error)
}

type RPCStatus interface {
	LatestBlockNumber(ctx context.Context) (uint64, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
}

type ServerConfig struct {
	Decimals int32
	// Journal is pinged by /readyz when set.
	Journal Pinger
}

type Server struct {
	dashboard Dashboard
	rpc       RPCStatus
	metrics   *Metrics
	buildInfo BuildInfo
	cfg       ServerConfig
}

func NewServer(dashboard Dashboard, rpc RPCStatus, metrics *Metrics, buildInfo BuildInfo, cfg ServerConfig) (*Server, error) {
	if dashboard == nil || rpc == nil {
		return nil, errors.New("http server dependencies must not be nil")
	}
	if metrics == nil {
		metrics = NewMetrics()
	}
	return &Server{dashboard: dashboard, rpc: rpc, metrics: metrics, buildInfo: buildInfo, cfg: cfg}, nil
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/session", s.handleSession)
	mux.HandleFunc("/connect", s.handleConnect)
	mux.HandleFunc("/balance", s.handleBalance)
	mux.HandleFunc("/history", s.handleHistory)
	mux.HandleFunc("/actions", s.handleActions)
	for _, kind := range []domain.ActionKind{domain.ActionDeposit, domain.ActionWithdraw, domain.ActionBuy, domain.ActionRefund} {
		mux.HandleFunc("/"+string(kind), s.handleAction(kind))
	}
	mux.Handle("/metrics", s.metrics.Handler())
	mux.HandleFunc("/version", s.handleVersion)
	return mux
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if _, err := s.rpc.LatestBlockNumber(ctx); err != nil {
		respondError(w, http.StatusServiceUnavailable, "rpc not ready")
		return
	}
	if s.cfg.Journal != nil {
		if err := s.cfg.Journal.Ping(ctx); err != nil {
			respondError(w, http.StatusServiceUnavailable, "journal not ready")
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

type sessionResponse struct {
	App     domain.AppKind      `json:"app"`
	State   domain.SessionState `json:"state"`
	Account string              `json:"account,omitempty"`
	Balance string              `json:"balance,omitempty"`
}

func (s *Server) sessionView() sessionResponse {
	view := s.dashboard.View()
	return sessionResponse{App: view.App, State: view.State, Account: view.Account, Balance: view.Balance}
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	respondJSON(w, http.StatusOK, s.sessionView())
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	if _, err := s.dashboard.Connect(r.Context()); err != nil {
		slog.Warn("connect failed", "err", err)
		respondError(w, statusFor(err), err.Error())
		return
	}
	respondJSON(w, http.StatusOK, s.sessionView())
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	balance, err := s.dashboard.RefreshBalance(r.Context())
	if err != nil {
		slog.Warn("balance refresh failed", "err", err)
		respondJSON(w, statusFor(err), map[string]string{
			"error":   err.Error(),
			"balance": s.dashboard.View().Balance,
		})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"balance": balance})
}

type historyResponse struct {
	History     []domain.LedgerEntry `json:"history"`
	RefreshedAt *time.Time           `json:"refreshed_at,omitempty"`
	Error       string               `json:"error,omitempty"`
}

// handleHistory refreshes the ledger unless ?cached=true. A failed refresh
// still returns the previously displayed history.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	cached, _ := strconv.ParseBool(r.URL.Query().Get("cached"))
	status := http.StatusOK
	var refreshErr error
	if !cached {
		if _, err := s.dashboard.RefreshHistory(r.Context()); err != nil {
			slog.Warn("history refresh failed", "err", err)
			refreshErr = err
			status = statusFor(err)
		}
	}
	view := s.dashboard.View()
	response := historyResponse{History: view.History, RefreshedAt: view.RefreshedAt}
	if response.History == nil {
		response.History = []domain.LedgerEntry{}
	}
	if refreshErr != nil {
		response.Error = refreshErr.Error()
	}
	respondJSON(w, status, response)
}

type actionRequest struct {
	Amount flexString `json:"amount"`
	Seat   flexString `json:"seat"`
}

func (s *Server) handleAction(kind domain.ActionKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !allowMethod(w, r, http.MethodPost) {
			return
		}
		if !s.dashboard.Supports(kind) {
			respondError(w, http.StatusNotFound, "action not available for "+string(s.dashboard.App()))
			return
		}
		var req actionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		raw := string(req.Amount)
		if kind == domain.ActionBuy || kind == domain.ActionRefund {
			raw = string(req.Seat)
		}
		action, err := application.ParseAction(kind, raw, s.cfg.Decimals)
		if err != nil {
			respondError(w, statusFor(err), err.Error())
			return
		}
		result, err := s.dashboard.Perform(r.Context(), action)
		if err != nil {
			slog.Warn("action failed", "action", kind, "err", err)
			respondError(w, statusFor(err), err.Error())
			return
		}
		respondJSON(w, http.StatusOK, result)
	}
}

func (s *Server) handleActions(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 0 {
			respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = value
	}
	records, err := s.dashboard.RecentActions(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "query failed")
		return
	}
	if records == nil {
		records = []domain.ActionRecord{}
	}
	respondJSON(w, http.StatusOK, records)
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.buildInfo)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, application.ErrNoWallet):
		return http.StatusPreconditionFailed
	case errors.Is(err, application.ErrNotConnected), errors.Is(err, application.ErrActionInFlight):
		return http.StatusConflict
	case errors.Is(err, application.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, application.ErrUnsupportedAction):
		return http.StatusNotFound
	case errors.Is(err, application.ErrConnectFailed),
		errors.Is(err, application.ErrQueryFailed),
		errors.Is(err, application.ErrTransactionFailed):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	return false
}

// flexString accepts a JSON string or a bare JSON number.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var value string
		if err := json.Unmarshal(data, &value); err != nil {
			return err
		}
		*f = flexString(value)
		return nil
	}
	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		return err
	}
	*f = flexString(number.String())
	return nil
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
