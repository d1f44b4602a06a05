package transporthttp

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"rivalradar/internal/config"
	"rivalradar/internal/intel"
	"rivalradar/internal/store"
)

type Server struct {
	pipeline      *intel.Pipeline
	store         *store.Store
	ingest        *intel.IngestSource
	defaultWindow time.Duration
}

func NewServer(pipeline *intel.Pipeline, st *store.Store, ingest *intel.IngestSource, cfg config.Config) *Server {
	return &Server{
		pipeline:      pipeline,
		store:         st,
		ingest:        ingest,
		defaultWindow: cfg.AnalysisWindow,
	}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.health)
	mux.HandleFunc("/competitors", s.handleCompetitors)
	mux.HandleFunc("/records", s.handleIngest)
	mux.HandleFunc("/fetch", s.handleFetch)
	mux.HandleFunc("/assessment", s.handleAssessment)
	mux.HandleFunc("/briefing", s.handleBriefing)
	mux.HandleFunc("/swagger/openapi.yaml", serveSwaggerYAML)
	mux.HandleFunc("/swagger", serveSwaggerUI)
	mux.HandleFunc("/swagger/", serveSwaggerUI)
	return mux
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCompetitors(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		competitors, err := s.store.Competitors()
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"competitors": competitors})

	case http.MethodPost:
		var payload struct {
			Name            string   `json:"name"`
			Website         string   `json:"website"`
			Description     string   `json:"description"`
			Industry        string   `json:"industry"`
			Keywords        []string `json:"keywords"`
			BusinessContext string   `json:"business_context"`
		}
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&payload); err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid payload")
			return
		}
		if strings.TrimSpace(payload.Name) == "" {
			s.writeError(w, http.StatusBadRequest, "name is required")
			return
		}

		id, err := s.store.AddCompetitor(store.Competitor{
			Name:            payload.Name,
			Website:         payload.Website,
			Description:     payload.Description,
			Industry:        payload.Industry,
			Keywords:        payload.Keywords,
			BusinessContext: payload.BusinessContext,
		})
		if err != nil {
			s.writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"id": id, "name": payload.Name})

	default:
		w.Header().Set("Allow", "GET, POST")
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.ingest == nil {
		s.writeError(w, http.StatusServiceUnavailable, "ingest disabled")
		return
	}

	var payload struct {
		ID             string `json:"id"`
		Title          string `json:"title"`
		CompetitorName string `json:"competitor_name"`
		Source         string `json:"source"`
		Content        string `json:"content"`
		URL            string `json:"url"`
		PublishedAt    string `json:"published_at"`
	}

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&payload); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if strings.TrimSpace(payload.Title) == "" || strings.TrimSpace(payload.CompetitorName) == "" {
		s.writeError(w, http.StatusBadRequest, "title and competitor_name are required")
		return
	}

	stored := s.ingest.Add(intel.UpdateRecord{
		ID:             payload.ID,
		Title:          payload.Title,
		CompetitorName: payload.CompetitorName,
		Source:         payload.Source,
		Content:        payload.Content,
		URL:            payload.URL,
		PublishedAt:    payload.PublishedAt,
	})

	writeJSON(w, http.StatusAccepted, map[string]any{
		"status":     "accepted",
		"id":         stored.ID,
		"fetched_at": stored.FetchedAt,
	})
}

func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	competitor := r.URL.Query().Get("competitor")
	if competitor == "" {
		s.writeError(w, http.StatusBadRequest, "competitor is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	records, err := s.pipeline.CollectUpdates(ctx, competitor)
	if err != nil {
		s.writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	saved := 0
	if s.store != nil {
		if saved, err = s.store.SaveRecords(records); err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"competitor": competitor,
		"fetched":    len(records),
		"saved":      saved,
		"records":    records,
	})
}

func (s *Server) handleAssessment(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	competitor := r.URL.Query().Get("competitor")
	if competitor == "" {
		s.writeError(w, http.StatusBadRequest, "competitor is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 60*time.Second)
	defer cancel()

	records, err := s.store.RecentRecords(competitor, time.Now().UTC().Add(-s.window(r)))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	assessment, err := s.pipeline.Assess(ctx, competitor, records, s.businessContext(competitor))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, assessment)
}

func (s *Server) handleBriefing(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 120*time.Second)
	defer cancel()

	competitors, err := s.store.Competitors()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	since := time.Now().UTC().Add(-s.window(r))
	assessments := make([]intel.ImpactAssessment, 0, len(competitors))
	for _, c := range competitors {
		records, err := s.store.RecentRecords(c.Name, since)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		assessment, err := s.pipeline.Assess(ctx, c.Name, records, c.BusinessContext)
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		assessments = append(assessments, assessment)
	}

	writeJSON(w, http.StatusOK, intel.AggregateBriefing(assessments))
}

func (s *Server) window(r *http.Request) time.Duration {
	window := s.defaultWindow
	if window <= 0 {
		window = 7 * 24 * time.Hour
	}
	if v := r.URL.Query().Get("window_days"); v != "" {
		if days, err := strconv.Atoi(v); err == nil && days > 0 {
			window = time.Duration(days) * 24 * time.Hour
		}
	}
	return window
}

func (s *Server) businessContext(competitor string) string {
	if s.store == nil {
		return ""
	}
	c, err := s.store.CompetitorByName(competitor)
	if err != nil {
		return ""
	}
	return c.BusinessContext
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
