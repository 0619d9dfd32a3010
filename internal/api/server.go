// Package api exposes the insights engine over HTTP with JSON bodies.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fjacquet/fin-insights/internal/container"
	"fjacquet/fin-insights/internal/dateutils"
	"fjacquet/fin-insights/internal/ledgererror"
	"fjacquet/fin-insights/internal/logging"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server serves the HTTP API on top of a wired container.
type Server struct {
	c      *container.Container
	logger logging.Logger
}

// NewServer creates a Server.
func NewServer(c *container.Container) *Server {
	return &Server{c: c, logger: c.GetLogger()}
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/classify", s.handleClassify)
		r.Get("/mappings", s.handleListMappings)
		r.Post("/mappings", s.handleConfirmCategory)
		r.Post("/categories/merge", s.handleMergeCategory)

		r.Get("/transactions", s.handleListTransactions)
		r.Post("/transactions", s.handleAddTransaction)
		r.Get("/summary", s.handleSummary)

		r.Route("/recurring", func(r chi.Router) {
			r.Get("/", s.handleListRecurring)
			r.Post("/", s.handleConfirmRecurring)
			r.Get("/check", s.handleCheckRecurring)
			r.Get("/upcoming", s.handleUpcomingRecurring)
			r.Get("/{id}", s.handleGetRecurring)
			r.Delete("/{id}", s.handleDeleteRecurring)
		})

		r.Route("/anomalies", func(r chi.Router) {
			r.Get("/", s.handleListAnomalies)
			r.Post("/scan", s.handleScanAnomalies)
			r.Post("/{id}/dismiss", s.handleDismissAnomaly)
			r.Post("/{id}/snooze", s.handleSnoozeAnomaly)
		})

		r.Route("/budgets", func(r chi.Router) {
			r.Get("/", s.handleListBudgets)
			r.Post("/", s.handleSetBudget)
			r.Get("/status", s.handleBudgetStatuses)
			r.Get("/{id}", s.handleGetBudget)
			r.Put("/{id}", s.handleUpdateBudget)
			r.Delete("/{id}", s.handleDeleteBudget)
			r.Get("/{id}/status", s.handleBudgetStatus)
		})

		r.Route("/goals", func(r chi.Router) {
			r.Get("/", s.handleListGoals)
			r.Post("/", s.handleCreateGoal)
			r.Get("/progress", s.handleGoalProgresses)
			r.Get("/{id}", s.handleGetGoal)
			r.Put("/{id}", s.handleUpdateGoal)
			r.Delete("/{id}", s.handleDeleteGoal)
			r.Get("/{id}/progress", s.handleGoalProgress)
			r.Get("/{id}/contributions", s.handleListContributions)
			r.Post("/{id}/contributions", s.handleContribute)
		})

		r.Route("/reminders", func(r chi.Router) {
			r.Get("/", s.handleListReminders)
			r.Post("/", s.handleCreateReminder)
			r.Get("/due", s.handleDueReminders)
			r.Post("/{id}/dismiss", s.handleDismissReminder)
			r.Post("/{id}/snooze", s.handleSnoozeReminder)
		})
	})

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.WithFields(
			logging.Field{Key: "method", Value: r.Method},
			logging.Field{Key: "path", Value: r.URL.Path},
			logging.Field{Key: logging.FieldStatus, Value: ww.Status()},
			logging.Field{Key: "duration", Value: time.Since(start).String()},
			logging.Field{Key: "request_id", Value: middleware.GetReqID(r.Context())},
		).Debug("Handled request")
	})
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps typed ledger errors to status codes.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ledgererror.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ledgererror.ErrInvalidInput):
		status = http.StatusBadRequest
	default:
		s.logger.WithError(err).Error("Request failed",
			logging.Field{Key: "path", Value: r.URL.Path})
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return ledgererror.NewValidation("body", "", err.Error())
	}
	return nil
}

func queryInt(r *http.Request, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, ledgererror.NewValidation(key, raw, "must be an integer")
	}
	return n, nil
}

func queryBool(r *http.Request, key string) bool {
	b, _ := strconv.ParseBool(r.URL.Query().Get(key))
	return b
}

// parseDay parses an optional date field; empty input yields the zero time.
func parseDay(field, raw string) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return time.Time{}, nil
	}
	t, _, err := dateutils.ParseDate(raw)
	if err != nil {
		return time.Time{}, ledgererror.NewValidation(field, raw, "is not a valid date")
	}
	return t, nil
}

func parseOptionalDay(field, raw string) (*time.Time, error) {
	t, err := parseDay(field, raw)
	if err != nil || t.IsZero() {
		return nil, err
	}
	return &t, nil
}
