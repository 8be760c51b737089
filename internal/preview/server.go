package preview

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/guardian/secure-contact/internal/history"
)

// Server is a local development surface: it serves the rendered pages from
// the build directory and exposes the recent monitor history.
type Server struct {
	Logger   *zap.Logger
	History  history.Store
	PagesDir string
}

func NewServer(logger *zap.Logger, store history.Store, pagesDir string) *Server {
	return &Server{Logger: logger, History: store, PagesDir: pagesDir}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/api/history", s.handleHistory)
	r.Handle("/*", http.FileServer(http.Dir(s.PagesDir)))

	return r
}

type historyEntry struct {
	CheckTime      int64 `json:"check_time"`
	Outcome        bool  `json:"outcome"`
	ExpirationTime int64 `json:"expiration_time"`
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	recs, err := s.History.Recent(r.Context(), history.DefaultWindowSeconds, history.DefaultRecentLimit)
	if err != nil {
		s.Logger.Warn("history_read_error", zap.Error(err))
		http.Error(w, "history error", http.StatusInternalServerError)
		return
	}

	out := make([]historyEntry, 0, len(recs))
	for _, rec := range recs {
		out = append(out, historyEntry{
			CheckTime:      rec.CheckTime,
			Outcome:        rec.Outcome,
			ExpirationTime: rec.ExpirationTime,
		})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}
