package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"timetable/internal/board"
	"timetable/internal/config"
	appLog "timetable/internal/log"
	"timetable/internal/status"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pageTmpl = template.Must(template.New("timetable.html").ParseFS(templatesFS, "templates/timetable.html"))

// Server exposes the board over HTTP: a JSON API and a server-rendered
// timetable page.
type Server struct {
	cfg    *config.Config
	board  *board.Board
	router *chi.Mux

	// previewPath is served at /preview.png.
	previewPath string
}

// NewServer constructs a new Server.
func NewServer(cfg *config.Config, b *board.Board) *Server {
	s := &Server{
		cfg:         cfg,
		board:       b,
		previewPath: cfg.Preview.Path,
	}
	s.router = s.newRouter()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves on cfg.Listen until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+s.cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	appLog.Info("HTTP server stopped")
	return nil
}

func (s *Server) newRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(RequestLogger)
	r.Use(Recovery)

	// /health stays open so probes work behind Basic Auth.
	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		if s.basicAuthEnabled() {
			appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
			r.Use(s.basicAuth)
		}

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, "/timetable", http.StatusFound)
		})
		r.Get("/timetable", s.handlePage)
		r.Get("/preview.png", s.handlePreview)

		r.Route("/api", func(r chi.Router) {
			r.Get("/days", s.handleDays)
			r.Get("/schedule", s.handleSchedule)
			r.Post("/select", s.handleSelect)
		})
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// statusDTO is the JSON form of a status.Status.
type statusDTO struct {
	State   status.Kind `json:"state"`
	Minutes int         `json:"minutes"`
	Label   string      `json:"label"`
}

// sessionDTO is a JSON-friendly view of a board entry.
type sessionDTO struct {
	Time       string    `json:"time"`
	Name       string    `json:"name"`
	Code       *string   `json:"code,omitempty"`
	Instructor *string   `json:"instructor,omitempty"`
	Location   string    `json:"location"`
	Status     statusDTO `json:"status"`
}

// scheduleResponse is the JSON response shape for /api/schedule.
type scheduleResponse struct {
	Day      string       `json:"day"`
	Now      time.Time    `json:"now"`
	Sessions []sessionDTO `json:"sessions"`
}

// daysResponse is the JSON response shape for /api/days.
type daysResponse struct {
	Days     []string `json:"days"`
	Selected string   `json:"selected"`
}

func toDTOs(entries []board.Entry) []sessionDTO {
	out := make([]sessionDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, sessionDTO{
			Time:       e.Session.Window.String(),
			Name:       e.Session.Name,
			Code:       e.Session.Code,
			Instructor: e.Session.Instructor,
			Location:   e.Session.Location,
			Status: statusDTO{
				State:   e.Status.Kind,
				Minutes: e.Status.Minutes,
				Label:   e.Status.Label(),
			},
		})
	}
	return out
}

func (s *Server) handleDays(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, daysResponse{
		Days:     s.board.Days(),
		Selected: s.board.Day(),
	})
}

// handleSchedule returns the evaluated sessions of one day.
//
// GET /api/schedule?day=Monday
//   - day: defaults to the board's selected day. Unknown days yield an
//     empty list, not an error.
func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	day := r.URL.Query().Get("day")
	if day == "" {
		day = s.board.Day()
	}
	writeJSON(w, http.StatusOK, scheduleResponse{
		Day:      day,
		Now:      s.board.Now(),
		Sessions: toDTOs(s.board.DayEntries(day)),
	})
}

// handleSelect changes the board's selected day.
//
// POST /api/select?day=Tuesday
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	day := r.URL.Query().Get("day")
	if day == "" {
		writeError(w, http.StatusBadRequest, "day is required")
		return
	}
	snap := s.board.SelectDay(day)
	appLog.Debug("day selected over HTTP", "day", day, "sessions", len(snap.Entries))
	writeJSON(w, http.StatusOK, scheduleResponse{
		Day:      snap.Day,
		Now:      snap.Now,
		Sessions: toDTOs(snap.Entries),
	})
}

// pageData feeds templates/timetable.html.
type pageData struct {
	Now      time.Time
	Day      string
	Days     []string
	Sessions []sessionDTO

	// RefreshSeconds drives the meta refresh so the page follows the board.
	RefreshSeconds int
}

// handlePage renders the timetable for ?day= (default: selected day).
// The root element carries data-ready="true" for the snapshot capture.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	day := r.URL.Query().Get("day")
	if day == "" {
		day = s.board.Day()
	}
	data := pageData{
		Now:      s.board.Now(),
		Day:      day,
		Days:     s.board.Days(),
		Sessions: toDTOs(s.board.DayEntries(day)),

		RefreshSeconds: int(s.board.Interval().Seconds()),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTmpl.Execute(w, data); err != nil {
		appLog.Error("timetable page render failed", err, "day", day)
	}
}

// handlePreview serves the last captured PNG snapshot from disk.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	// http.ServeFile answers 404 when no snapshot has been captured yet.
	http.ServeFile(w, r, s.previewPath)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
