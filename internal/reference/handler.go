package reference

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"heartdash/internal"
)

// Service serves GET /predict from an Index. A nil index answers 503 so the
// service can start before a dataset is available.
type Service struct {
	index      *Index
	neighbours int
	logger     *internal.Logger
	router     *chi.Mux
}

// NewService builds the router for the reference prediction service
func NewService(index *Index, neighbours int, logger *internal.Logger) *Service {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	s := &Service{
		index:      index,
		neighbours: neighbours,
		logger:     logger.WithComponent("ReferenceService"),
		router:     chi.NewRouter(),
	}
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/predict", s.handlePredict)
	s.router.Get("/healthz", s.handleHealth)
	return s
}

func (s *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Service) handlePredict(w http.ResponseWriter, r *http.Request) {
	if s.index == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"error": "dataset unavailable"})
		return
	}

	query, err := ParseQuery(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"error": err.Error()})
		return
	}

	label, used, err := s.index.Predict(query, s.neighbours)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrNoFeatures) || errors.Is(err, ErrNoNeighbours) {
			status = http.StatusUnprocessableEntity
		}
		writeJSON(w, status, map[string]any{"error": err.Error()})
		return
	}

	s.logger.Debug("Predicted %s from %d neighbours over %d features", label, used, len(query))
	writeJSON(w, http.StatusOK, map[string]any{
		"prediction": labelValue(label),
		"neighbours": used,
	})
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	rows := 0
	if s.index != nil {
		rows = s.index.Len()
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "rows": rows})
}

// labelValue sends numeric labels as JSON numbers
func labelValue(label string) any {
	if n, err := strconv.Atoi(label); err == nil {
		return n
	}
	return label
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
