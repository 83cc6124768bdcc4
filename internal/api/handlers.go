package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strings"

	"wfm-flipper/internal/engine"
	"wfm-flipper/internal/logger"
	"wfm-flipper/internal/wfm"
)

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	writeJSON(w, map[string]interface{}{
		"version":       s.version,
		"platform":      s.cfg.Platform,
		"strategy":      s.cfg.Strategy,
		"cache_entries": s.client.Cache().Len(),
	})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	scanner := s.scanner
	strategy := s.strategyParam(r)
	s.mu.RUnlock()

	categories, err := scanner.ListCategories(strategy)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, map[string][]string{"categories": categories})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		writeError(w, http.StatusBadRequest, "category is required")
		return
	}
	mode := engine.Mode(r.URL.Query().Get("mode"))
	if mode == "" {
		mode = engine.ModeViewer
	}

	s.mu.RLock()
	scanner := s.scanner
	strategy := s.strategyParam(r)
	s.mu.RUnlock()

	progress := func(msg string) { logger.Info("Scan", msg) }
	report, err := scanner.BuildReport(r.Context(), category, mode, strategy, progress)
	if err != nil {
		if errors.Is(err, wfm.ErrSourceUnavailable) {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, report)
}

func (s *Server) handleCoverage(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	scanner := s.scanner
	s.mu.RUnlock()

	report, err := scanner.Coverage(r.Context())
	if err != nil {
		if errors.Is(err, wfm.ErrSourceUnavailable) {
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, report)
}

// handleAutocomplete searches the cached catalog by display-name substring.
func (s *Server) handleAutocomplete(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	if q == "" {
		writeJSON(w, map[string][]wfm.Item{"items": {}})
		return
	}

	catalog, err := s.client.FetchCatalog(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	var matches []wfm.Item
	for _, item := range catalog {
		if strings.Contains(strings.ToLower(item.ItemName), q) {
			matches = append(matches, item)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return strings.ToLower(matches[i].ItemName) < strings.ToLower(matches[j].ItemName)
	})
	if len(matches) > 20 {
		matches = matches[:20]
	}
	writeJSON(w, map[string][]wfm.Item{"items": matches})
}

// handleItemStatistics returns an item's closed-trade series, either every
// period or just the one requested.
func (s *Server) handleItemStatistics(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	periods := s.client.FetchStatistics(r.Context(), slug)

	labels := make([]string, 0, len(periods))
	for label := range periods {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	if want := r.URL.Query().Get("period"); want != "" {
		series, ok := periods[want]
		if !ok {
			writeError(w, http.StatusNotFound, "no data for period "+want)
			return
		}
		writeJSON(w, map[string]interface{}{
			"slug":   slug,
			"period": want,
			"points": series,
		})
		return
	}

	writeJSON(w, map[string]interface{}{
		"slug":    slug,
		"periods": labels,
		"series":  periods,
	})
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	writeJSON(w, s.cfg)
}

func (s *Server) handleSetConfig(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := *s.cfg
	if err := json.NewDecoder(r.Body).Decode(&updated); err != nil {
		writeError(w, http.StatusBadRequest, "invalid config payload")
		return
	}
	if err := updated.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if s.db != nil {
		if err := s.db.SaveConfig(&updated); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	s.cfg = &updated
	// Signal parameters apply to the next scan; the upstream client keeps
	// its limits until restart.
	s.scanner = engine.NewScanner(s.scanner.Source, engine.Params{
		TrailingWindow:  updated.TrailingWindow,
		PreferredPeriod: updated.PreferredPeriod,
		FallbackPeriod:  updated.FallbackPeriod,
		Workers:         updated.Workers,
	})
	writeJSON(w, s.cfg)
}

func (s *Server) strategyParam(r *http.Request) string {
	if v := r.URL.Query().Get("strategy"); v != "" {
		return v
	}
	return s.cfg.Strategy
}
