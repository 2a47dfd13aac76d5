// Package web serves a localhost-only read view of the sync-run journal; it
// intentionally has no auth in this mode.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"redsync/storage"
)

//go:embed templates/*.html
var templateFS embed.FS

type Server struct {
	store *storage.SQLiteStore
	mux   *http.ServeMux
	page  *template.Template
}

type runView struct {
	ID             int64
	StartedAt      string
	Duration       string
	Source         string
	ProjectID      int64
	UserID         int64
	Action         string
	DryRun         bool
	RowsLoaded     int
	RowsSkipped    int
	EntriesDeleted int
	EntriesCreated int
	LocalHours     string
	RemoteHours    string
}

type historyPageView struct {
	Title string
	Runs  []runView
}

func NewServer(store *storage.SQLiteStore) (*Server, error) {
	page, err := template.ParseFS(templateFS, "templates/history.html")
	if err != nil {
		return nil, fmt.Errorf("parse history template: %w", err)
	}

	server := &Server{
		store: store,
		mux:   http.NewServeMux(),
		page:  page,
	}
	server.mux.HandleFunc("GET /", server.handleHistory)
	return server, nil
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	runs, err := s.store.ListRuns(100)
	if err != nil {
		http.Error(w, fmt.Sprintf("list sync runs: %v", err), http.StatusInternalServerError)
		return
	}

	view := historyPageView{
		Title: "redsync history",
		Runs:  make([]runView, 0, len(runs)),
	}
	for _, run := range runs {
		view.Runs = append(view.Runs, runView{
			ID:             run.ID,
			StartedAt:      run.StartedAt.Format("2006-01-02 15:04:05"),
			Duration:       run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond).String(),
			Source:         run.Source,
			ProjectID:      run.ProjectID,
			UserID:         run.UserID,
			Action:         run.Action,
			DryRun:         run.DryRun,
			RowsLoaded:     run.RowsLoaded,
			RowsSkipped:    run.RowsSkipped,
			EntriesDeleted: run.EntriesDeleted,
			EntriesCreated: run.EntriesCreated,
			LocalHours:     run.LocalHours,
			RemoteHours:    run.RemoteHours,
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, view); err != nil {
		http.Error(w, fmt.Sprintf("render history: %v", err), http.StatusInternalServerError)
	}
}
