package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"rift-tracker/internal/domain"
	"rift-tracker/internal/riot"
	"rift-tracker/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type TrackerServer struct {
	overview *service.OverviewService
	views    *service.MatchViewService
	accounts service.AccountProvider
	logger   zerolog.Logger
}

func NewTrackerServer(overview *service.OverviewService, views *service.MatchViewService, accounts service.AccountProvider, logger zerolog.Logger) *TrackerServer {
	return &TrackerServer{overview: overview, views: views, accounts: accounts, logger: logger}
}

func (s *TrackerServer) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/health", s.handleHealth)
	r.Get("/api/players/{region}/{name}/{tag}/overview", s.handleOverview)
	r.Get("/api/matches/{region}/{matchID}", s.handleMatchDetails)
	return r
}

func (s *TrackerServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.accounts.Ping(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *TrackerServer) handleOverview(w http.ResponseWriter, r *http.Request) {
	region := chi.URLParam(r, "region")
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorBody("invalid name"))
		return
	}
	tag, err := url.PathUnescape(chi.URLParam(r, "tag"))
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorBody("invalid tag"))
		return
	}

	ov, err := s.overview.GetOverview(r.Context(), region, name, tag)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, ov)
}

func (s *TrackerServer) handleMatchDetails(w http.ResponseWriter, r *http.Request) {
	region := chi.URLParam(r, "region")
	matchID := chi.URLParam(r, "matchID")
	puuid := r.URL.Query().Get("puuid")

	_, regional, err := riot.MapRegion(region)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	details, err := s.views.MatchDetails(r.Context(), regional, matchID, puuid)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, details)
}

func (s *TrackerServer) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrRegionUnsupported):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrIdentityNotResolvable):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrProviderUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrProviderRequestFailed):
		status = http.StatusBadGateway
	}

	evt := s.logger.Warn()
	if status >= http.StatusInternalServerError {
		evt = s.logger.Error()
	}
	evt.Err(err).Int("status", status).Str("path", r.URL.Path).Msg("request failed")

	s.writeJSON(w, status, errorBody(err.Error()))
}

func (s *TrackerServer) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error().Err(err).Msg("encoding response failed")
	}
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}
