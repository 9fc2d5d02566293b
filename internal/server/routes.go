package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"github.com/scythe504/sketchparty/internal"
	"github.com/scythe504/sketchparty/internal/utils"
	"github.com/scythe504/sketchparty/internal/websockets"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	r.Use(s.corsMiddleware)

	r.HandleFunc("/", s.HelloWorldHandler).Methods(http.MethodGet, http.MethodOptions)

	r.HandleFunc("/health", s.HealthHandler).Methods(http.MethodGet, http.MethodOptions)

	r.HandleFunc("/results", s.ResultsHandler).Methods(http.MethodGet, http.MethodOptions)

	r.HandleFunc("/ws", websockets.ServeWS(s.router, s.upgrader, websockets.Limits{
		RPS:   s.cfg.RateLimitRPS,
		Burst: s.cfg.RateLimitBurst,
	}))

	return r
}

func (s *Server) HelloWorldHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("sketchparty server is running"))
}

func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now().UnixMilli()

	writeJSON(w, startTime, http.StatusOK, internal.HealthData{
		Status:      "ok",
		ServerStats: s.router.Directory().Stats(),
		Uptime:      utils.FormatUptime(time.Since(s.started)),
	})
}

func (s *Server) ResultsHandler(w http.ResponseWriter, r *http.Request) {
	startTime := time.Now().UnixMilli()

	if s.results == nil {
		writeJSON(w, startTime, http.StatusServiceUnavailable, "results archive is not configured")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeJSON(w, startTime, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	records, err := s.results.RecentResults(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("[ResultsHandler] could not read results")
		writeJSON(w, startTime, http.StatusInternalServerError, "could not read results")
		return
	}

	writeJSON(w, startTime, http.StatusOK, records)
}

func writeJSON(w http.ResponseWriter, startTime int64, status int, data any) {
	endTime := time.Now().UnixMilli()
	resp := internal.Response{
		StatusCode:    status,
		RespStartTime: startTime,
		RespEndTime:   endTime,
		NetRespTime:   endTime - startTime,
		Data:          data,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Warn().Err(err).Msg("[writeJSON] could not encode response")
	}
}
