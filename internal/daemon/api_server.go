package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"clipforge/internal/artifacts"
	"clipforge/internal/compose"
	"clipforge/internal/config"
	"clipforge/internal/logging"
	"clipforge/internal/rasterize"
	"clipforge/internal/services"
)

// maxSubmitBytes bounds a submission body. Inline data URLs for ten parts plus
// a song fit well inside it; anything larger should use remote references.
const maxSubmitBytes = 512 << 20

type apiServer struct {
	bind   string
	logger *slog.Logger
	daemon *Daemon

	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) (*apiServer, error) {
	if cfg == nil || d == nil {
		return nil, nil
	}
	bind := strings.TrimSpace(cfg.Paths.APIBind)
	if bind == "" {
		return nil, nil
	}

	srv := &apiServer{
		bind:   bind,
		logger: logger,
		daemon: d,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", srv.handleStatus)
	mux.HandleFunc("/api/videos", srv.handleVideos)
	mux.HandleFunc("/api/videos/", srv.handleVideo)
	mux.HandleFunc("/api/jobs", srv.handleJobs)
	mux.HandleFunc("/api/jobs/", srv.handleJob)
	mux.HandleFunc("/api/reap", srv.handleReap)

	srv.server = &http.Server{
		Handler:           srv.withCorrelation(mux),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       120 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

func (s *apiServer) start(ctx context.Context) error {
	if s == nil {
		return nil
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log().Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.log().Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	if s == nil {
		return
	}
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

// withCorrelation attaches a correlation identifier to every request, reusing
// the caller's X-Request-ID when present.
func (s *apiServer) withCorrelation(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get("X-Request-ID"))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(services.WithRequestID(r.Context(), id)))
	})
}

type submitPart struct {
	Kind   string `json:"kind"`
	Source string `json:"source"`
}

type submitLogo struct {
	Source   string `json:"source"`
	SizePct  int    `json:"size_pct"`
	Position string `json:"position"`
}

type submitHook struct {
	Text     string `json:"text"`
	Style    int    `json:"style"`
	Position string `json:"position"`
	Offset   int    `json:"offset"`
}

type submitRequest struct {
	Parts []submitPart `json:"parts"`
	Song  string       `json:"song"`
	Logo  *submitLogo  `json:"logo,omitempty"`
	Hook  *submitHook  `json:"hook,omitempty"`
}

type submitResponse struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	JobURL   string `json:"job_url"`
	VideoURL string `json:"video_url"`
}

func (s *apiServer) handleVideos(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req submitRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxSubmitBytes))
	if err := decoder.Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	job := &compose.Job{ID: compose.NewJobID(), Song: req.Song}
	for i, part := range req.Parts {
		job.Parts = append(job.Parts, compose.Part{
			Index:  i,
			Kind:   compose.Kind(part.Kind),
			Source: part.Source,
		})
	}
	if req.Logo != nil {
		job.Logo = &compose.Logo{
			Source:   req.Logo.Source,
			SizePct:  req.Logo.SizePct,
			Position: compose.LogoPosition(req.Logo.Position),
		}
	}
	if req.Hook != nil {
		job.Hook = &compose.Hook{
			Text:     req.Hook.Text,
			Style:    rasterize.Style(req.Hook.Style),
			Position: rasterize.Anchor(req.Hook.Position),
			Offset:   req.Hook.Offset,
		}
	}

	record, err := s.daemon.Submit(r.Context(), job)
	if err != nil {
		s.writeError(w, services.HTTPStatus(err), services.Details(err).Message)
		return
	}

	s.writeJSON(w, http.StatusAccepted, submitResponse{
		ID:       record.ID,
		Status:   string(record.Status),
		JobURL:   "/api/jobs/" + record.ID,
		VideoURL: "/api/videos/" + artifacts.Name(record.ID),
	})
}

func (s *apiServer) handleVideo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	name := strings.TrimPrefix(r.URL.Path, "/api/videos/")
	if name == "" || strings.Contains(name, "/") {
		s.writeError(w, http.StatusBadRequest, "invalid video name")
		return
	}
	// Identity is validated before any filesystem access; traversal attempts
	// never reach the store directory.
	file, info, err := s.daemon.Artifacts().Open(name)
	if err != nil {
		s.writeError(w, services.HTTPStatus(err), services.Details(err).Message)
		return
	}
	defer file.Close()

	w.Header().Set("Content-Type", "video/mp4")
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(artifacts.TTL.Seconds())))
	// ServeContent handles Range requests, 206 responses, and Content-Range.
	http.ServeContent(w, r, name, info.ModTime(), file)
}

func (s *apiServer) handleJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	records, err := s.daemon.ListRuns(r.Context(), limit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, services.Details(err).Message)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"jobs": records})
}

func (s *apiServer) handleJob(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
	if id == "" || strings.Contains(id, "/") {
		s.writeError(w, http.StatusNotFound, "job not found")
		return
	}
	record, err := s.daemon.GetRun(r.Context(), id)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, services.Details(err).Message)
		return
	}
	if record == nil {
		s.writeError(w, http.StatusNotFound, "job not found")
		return
	}
	s.writeJSON(w, http.StatusOK, record)
}

func (s *apiServer) handleReap(w http.ResponseWriter, r *http.Request) {
	// GET is accepted so a plain cron curl can trigger the sweep.
	if r.Method != http.MethodPost && r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	reclaimed, err := s.daemon.ReapNow(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, services.Details(err).Message)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]int{"reclaimed": reclaimed})
}

type dependencyStatus struct {
	Name        string `json:"name"`
	Command     string `json:"command,omitempty"`
	Description string `json:"description,omitempty"`
	Optional    bool   `json:"optional"`
	Available   bool   `json:"available"`
	Detail      string `json:"detail,omitempty"`
}

type daemonStatus struct {
	Running      bool               `json:"running"`
	PID          int                `json:"pid"`
	RunDBPath    string             `json:"run_db_path"`
	OutputDir    string             `json:"output_dir"`
	LockFilePath string             `json:"lock_file_path"`
	Dependencies []dependencyStatus `json:"dependencies"`
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	status := s.daemon.Status(r.Context())
	payload := daemonStatus{
		Running:      status.Running,
		PID:          status.PID,
		RunDBPath:    status.RunDBPath,
		OutputDir:    status.OutputDir,
		LockFilePath: status.LockFilePath,
	}
	for _, dep := range status.Dependencies {
		payload.Dependencies = append(payload.Dependencies, dependencyStatus{
			Name:        dep.Name,
			Command:     dep.Command,
			Description: dep.Description,
			Optional:    dep.Optional,
			Available:   dep.Available,
			Detail:      dep.Detail,
		})
	}
	s.writeJSON(w, http.StatusOK, payload)
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log().Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *apiServer) log() *slog.Logger {
	if s.logger != nil {
		return s.logger.With(logging.String(logging.FieldComponent, "api-server"))
	}
	return logging.NewNop()
}
