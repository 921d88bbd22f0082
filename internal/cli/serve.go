package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/diagramkit/diagramkit/pkg/cache"
	dkerrors "github.com/diagramkit/diagramkit/pkg/errors"
	"github.com/diagramkit/diagramkit/pkg/layout"
	"github.com/diagramkit/diagramkit/pkg/marker"
	"github.com/diagramkit/diagramkit/pkg/model"
	"github.com/diagramkit/diagramkit/pkg/pipeline"
	"github.com/diagramkit/diagramkit/pkg/store"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		redisAddr string
		mongoURI  string
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the diagram HTTP API",
		Long: `Run the diagram HTTP API.

The server exposes the layout pipeline and geometry operations over HTTP:

  POST   /layout                      lay out and render a posted diagram
  GET    /diagrams                    list stored diagram ids
  GET    /diagrams/{id}               fetch a stored diagram
  PUT    /diagrams/{id}               store a diagram
  DELETE /diagrams/{id}               delete a stored diagram
  POST   /diagrams/{id}/operations    apply resize/align operations
  GET    /diagrams/{id}/markers/step  step through markers circularly

Diagrams are stored in MongoDB when --mongo-uri is set, otherwise on disk
under the config directory. Layout results are cached in Redis when
--redis-addr is set, otherwise in the local file cache.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, redisAddr, mongoURI, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :8080)")
	cmd.Flags().StringVar(&redisAddr, "redis-addr", "", "redis address for the layout cache")
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", "", "mongodb connection string for diagram storage")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable layout caching")

	return cmd
}

// runServe wires the backends and runs the server until ctx is cancelled.
func (c *CLI) runServe(ctx context.Context, addr, redisAddr, mongoURI string, noCache bool) error {
	if addr == "" {
		addr = c.Config.Serve.Addr
	}
	if addr == "" {
		addr = ":8080"
	}
	if redisAddr == "" {
		redisAddr = c.Config.Serve.RedisAddr
	}
	if mongoURI == "" {
		mongoURI = c.Config.Serve.MongoURI
	}

	diagrams, err := c.newStore(ctx, mongoURI)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer diagrams.Close(context.Background())

	layoutCache, err := c.newServeCache(ctx, redisAddr, noCache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}

	srv := &server{
		store:  diagrams,
		runner: pipeline.NewRunner(layoutCache, nil, c.Logger),
		logger: c.Logger,
		layout: c.Config.layoutOptions,
	}
	defer srv.runner.Close()

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// newStore picks the diagram store backend.
func (c *CLI) newStore(ctx context.Context, mongoURI string) (store.Store, error) {
	if mongoURI != "" {
		return store.NewMongoStore(ctx, store.MongoConfig{URI: mongoURI})
	}
	dir, err := configDir()
	if err != nil {
		return store.NewMemoryStore(), nil
	}
	return store.NewFileStore(filepath.Join(dir, "diagrams"))
}

// newServeCache picks the layout cache backend.
func (c *CLI) newServeCache(ctx context.Context, redisAddr string, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if redisAddr != "" {
		return cache.NewRedisCache(ctx, cache.RedisConfig{Addr: redisAddr})
	}
	return newCache(false)
}

// =============================================================================
// Server
// =============================================================================

type server struct {
	store  store.Store
	runner *pipeline.Runner
	logger *log.Logger

	// layout yields the default layout options for requests that carry none.
	layout func() layout.Options
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(withLogger(req.Context(), s.logger)))
		})
	})

	r.Post("/layout", s.handleLayout)
	r.Route("/diagrams", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Put("/", s.handlePut)
			r.Delete("/", s.handleDelete)
			r.Post("/operations", s.handleOperations)
			r.Get("/markers/step", s.handleMarkerStep)
		})
	})

	return r
}

// =============================================================================
// Handlers
// =============================================================================

// layoutRequest is the body for POST /layout.
type layoutRequest struct {
	Diagram *model.Diagram   `json:"diagram"`
	Options pipeline.Options `json:"options"`
}

// layoutResponse is the reply for POST /layout.
type layoutResponse struct {
	Diagram   *model.Diagram     `json:"diagram"`
	Artifacts map[string]string  `json:"artifacts,omitempty"`
	Stats     pipeline.Stats     `json:"stats"`
	Cache     pipeline.CacheInfo `json:"cache"`
}

func (s *server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, dkerrors.New(dkerrors.ErrCodeInvalidDiagram, "decode request: %v", err))
		return
	}
	if req.Diagram == nil {
		s.writeError(w, dkerrors.New(dkerrors.ErrCodeInvalidDiagram, "request has no diagram"))
		return
	}
	if req.Options.Layout == nil {
		defaults := s.layout()
		req.Options.Layout = &defaults
	}

	prog := newProgress(loggerFromContext(r.Context()))
	result, err := s.runner.Execute(r.Context(), req.Diagram, req.Options)
	if err != nil {
		s.writeError(w, err)
		return
	}
	prog.done(fmt.Sprintf("Placed %d elements", result.Stats.ElementCount))

	resp := layoutResponse{
		Diagram:   result.Diagram,
		Artifacts: make(map[string]string, len(result.Artifacts)),
		Stats:     result.Stats,
		Cache:     result.CacheInfo,
	}
	for format, data := range result.Artifacts {
		resp.Artifacts[format] = string(data)
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleList(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"diagrams": ids})
}

func (s *server) handleGet(w http.ResponseWriter, r *http.Request) {
	d, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, d)
}

func (s *server) handlePut(w http.ResponseWriter, r *http.Request) {
	d, err := model.ReadDiagram(r.Body)
	if err != nil {
		s.writeError(w, err)
		return
	}
	d.ID = chi.URLParam(r, "id")
	if err := s.store.Put(r.Context(), d); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"id": d.ID})
}

func (s *server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// operationsResponse is the reply for POST /diagrams/{id}/operations.
type operationsResponse struct {
	Diagram *model.Diagram `json:"diagram"`
	Applied []string       `json:"applied"`
}

func (s *server) handleOperations(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	d, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var ops []pipeline.Operation
	if err := json.NewDecoder(r.Body).Decode(&ops); err != nil {
		s.writeError(w, dkerrors.New(dkerrors.ErrCodeInvalidOptions, "decode operations: %v", err))
		return
	}

	disp, err := pipeline.Apply(d, ops)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.store.Put(r.Context(), d); err != nil {
		s.writeError(w, err)
		return
	}

	s.logger.Info("applied operations", "diagram", id, "count", len(disp.History()))
	s.writeJSON(w, http.StatusOK, operationsResponse{Diagram: d, Applied: disp.History()})
}

func (s *server) handleMarkerStep(w http.ResponseWriter, r *http.Request) {
	d, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	opts := []marker.Option{marker.WithComparator(marker.ReadingOrder)}
	if sev := r.URL.Query().Get("severity"); sev != "" {
		min, err := parseSeverity(sev)
		if err != nil {
			s.writeError(w, dkerrors.New(dkerrors.ErrCodeInvalidOptions, "%v", err))
			return
		}
		opts = append(opts, marker.WithPredicate(marker.MinSeverity(min)))
	}
	nav := marker.NewNavigator(opts...)

	var current *marker.Marker
	if from := r.URL.Query().Get("from"); from != "" {
		current = findMarker(d.Markers, from)
	}

	var target *marker.Marker
	if r.URL.Query().Get("direction") == "previous" {
		target = nav.Previous(d.Markers, current)
	} else {
		target = nav.Next(d.Markers, current)
	}
	if target == nil {
		s.writeError(w, dkerrors.New(dkerrors.ErrCodeNotFound, "no matching markers"))
		return
	}
	s.writeJSON(w, http.StatusOK, target)
}

// =============================================================================
// Responses
// =============================================================================

func (s *server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

// writeError maps error codes onto HTTP status codes.
func (s *server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch dkerrors.GetCode(err) {
	case dkerrors.ErrCodeDiagramNotFound, dkerrors.ErrCodeElementNotFound,
		dkerrors.ErrCodeFileNotFound, dkerrors.ErrCodeNotFound:
		status = http.StatusNotFound
	case dkerrors.ErrCodeInvalidOptions, dkerrors.ErrCodeInvalidBounds,
		dkerrors.ErrCodeInvalidDimension, dkerrors.ErrCodeInvalidFunction,
		dkerrors.ErrCodeInvalidAlignment, dkerrors.ErrCodeInvalidDiagram,
		dkerrors.ErrCodeInvalidFormat:
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	s.writeJSON(w, status, map[string]string{
		"code":  string(dkerrors.GetCode(err)),
		"error": dkerrors.UserMessage(err),
	})
}
