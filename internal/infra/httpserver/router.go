package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	appanalysis "github.com/bryanwahyu/herbalens/internal/application/analysis"
	"github.com/bryanwahyu/herbalens/internal/domain/ai"
	domain "github.com/bryanwahyu/herbalens/internal/domain/analysis"
	"github.com/bryanwahyu/herbalens/internal/domain/plants"
	"github.com/bryanwahyu/herbalens/internal/domain/upload"
	"github.com/bryanwahyu/herbalens/internal/middleware"
)

const (
	multipartSlack = 1 << 20
	maxWait        = 10 * time.Second
)

// Previews serves stored uploads back by key.
type Previews interface {
	Get(key string) ([]byte, string, bool)
}

// Options carries the optional collaborators of the router.
type Options struct {
	Logger         *zap.Logger
	Metrics        *middleware.Metrics
	RateLimiter    *middleware.RateLimiter
	Previews       Previews
	Checkers       map[string]middleware.HealthChecker
	AllowedOrigins []string
	MaxUploadBytes int64
}

type Router struct {
	catalog  *plants.Catalog
	sessions *appanalysis.Sessions
	previews Previews
	log      *zap.Logger
	maxBytes int64
}

func NewRouter(catalog *plants.Catalog, sessions *appanalysis.Sessions, opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	maxBytes := opts.MaxUploadBytes
	if maxBytes <= 0 {
		maxBytes = upload.DefaultMaxBytes
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = middleware.NewMetrics()
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r := &Router{catalog: catalog, sessions: sessions, previews: opts.Previews, log: log, maxBytes: maxBytes}

	checkers := map[string]middleware.HealthChecker{
		"catalog": middleware.CheckFunc(func(context.Context) error {
			if catalog.Len() == 0 {
				return errors.New("catalog is empty")
			}
			return nil
		}),
	}
	for name, c := range opts.Checkers {
		checkers[name] = c
	}

	mux := chi.NewRouter()
	mux.Use(middleware.Logging(log))
	mux.Use(metrics.Middleware)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         600,
	}))

	mux.Get("/health", middleware.HealthHandler(checkers))
	mux.Get("/healthz/live", middleware.LivenessHandler)
	mux.Get("/healthz/ready", middleware.ReadinessHandler(checkers))
	mux.Get("/metrics", metrics.Handler)

	mux.Route("/v1", func(rt chi.Router) {
		rt.Get("/plants", r.wrap(r.handleListPlants))
		rt.Get("/plants/{id}", r.wrap(r.handleGetPlant))
		rt.Get("/uploads/{key}", r.wrap(r.handleGetUpload))

		rt.Post("/sessions", r.wrap(r.handleCreateSession))
		rt.Route("/sessions/{session}", func(st chi.Router) {
			st.Get("/analysis", r.wrap(r.handleGetAnalysis))
			st.Delete("/analysis", r.wrap(r.handleResetAnalysis))
			st.Get("/history", r.wrap(r.handleHistory))
			st.Group(func(up chi.Router) {
				if opts.RateLimiter != nil {
					up.Use(opts.RateLimiter.Middleware)
				}
				up.Post("/analysis", r.wrap(r.handleSubmit))
			})
		})
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// badRequest marks caller input errors.
type badRequest struct{ msg string }

func (e badRequest) Error() string { return e.msg }

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		var br badRequest
		switch {
		case errors.As(err, &br):
			writeJSON(w, http.StatusBadRequest, errorBody{Error: br.msg})
		case errors.Is(err, upload.ErrInvalidType):
			writeJSON(w, http.StatusBadRequest, errorBody{Error: upload.ErrInvalidType.Error(), Message: upload.Message(err)})
		case errors.Is(err, upload.ErrTooLarge):
			writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Error: upload.ErrTooLarge.Error(), Message: upload.Message(err)})
		case errors.Is(err, domain.ErrAnalysisInProgress), errors.Is(err, domain.ErrCanceled):
			writeJSON(w, http.StatusConflict, errorBody{Error: err.Error()})
		case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, plants.ErrNotFound):
			writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
		case errors.Is(err, ai.ErrQuotaExceeded):
			writeJSON(w, http.StatusTooManyRequests, errorBody{Error: "ai quota exceeded"})
		case errors.Is(err, domain.ErrPipelineFault):
			r.log.Error("analysis fault", zap.String("path", req.URL.Path), zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, errorBody{Error: domain.ErrPipelineFault.Error()})
		case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
			writeJSON(w, http.StatusGatewayTimeout, errorBody{Error: "timed out waiting for analysis"})
		default:
			r.log.Error("request failed", zap.String("path", req.URL.Path), zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
		}
	}
}

// GET /v1/plants?q=&toxicity=
func (r *Router) handleListPlants(w http.ResponseWriter, req *http.Request) error {
	q := middleware.SanitizeQuery(req.URL.Query().Get("q"))
	tox, filter, err := middleware.ValidateToxicity(req.URL.Query().Get("toxicity"))
	if err != nil {
		return badRequest{err.Error()}
	}

	list := r.catalog.Search(q)
	if filter {
		kept := list[:0]
		for _, p := range list {
			if p.Toxicity == tox {
				kept = append(kept, p)
			}
		}
		list = kept
	}
	return writeJSON(w, http.StatusOK, map[string]any{"data": list, "total": len(list)})
}

// GET /v1/plants/{id}
func (r *Router) handleGetPlant(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	if err := middleware.ValidatePlantID(id); err != nil {
		return badRequest{err.Error()}
	}
	p, ok := r.catalog.ByID(id)
	if !ok {
		return plants.ErrNotFound
	}
	return writeJSON(w, http.StatusOK, p)
}

// GET /v1/uploads/{key}
func (r *Router) handleGetUpload(w http.ResponseWriter, req *http.Request) error {
	key := chi.URLParam(req, "key")
	if err := middleware.ValidateUploadKey(key); err != nil {
		return badRequest{err.Error()}
	}
	if r.previews == nil {
		http.NotFound(w, req)
		return nil
	}
	data, contentType, ok := r.previews.Get(key)
	if !ok {
		http.NotFound(w, req)
		return nil
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	_, err := w.Write(data)
	return err
}

// POST /v1/sessions
func (r *Router) handleCreateSession(w http.ResponseWriter, req *http.Request) error {
	id, _ := r.sessions.Create()
	return writeJSON(w, http.StatusCreated, map[string]string{"session_id": id})
}

func (r *Router) pipeline(req *http.Request) (*appanalysis.Pipeline, error) {
	id := chi.URLParam(req, "session")
	if err := middleware.ValidateSessionID(id); err != nil {
		return nil, badRequest{err.Error()}
	}
	return r.sessions.Get(id)
}

// POST /v1/sessions/{session}/analysis  (multipart, field "image")
//
// The body is streamed so the declared part type is judged before any bytes
// are read; a non-image upload is rejected as such whatever its size.
func (r *Router) handleSubmit(w http.ResponseWriter, req *http.Request) error {
	p, err := r.pipeline(req)
	if err != nil {
		return err
	}

	req.Body = http.MaxBytesReader(w, req.Body, r.maxBytes+multipartSlack)
	// drain what is left (up to the cap) so the client reads the reply
	defer io.Copy(io.Discard, req.Body) //nolint:errcheck
	mr, err := req.MultipartReader()
	if err != nil {
		return badRequest{"expected multipart form with an image field"}
	}
	part, err := imagePart(mr)
	if err != nil {
		return err
	}
	defer part.Close()

	meta := upload.File{
		Name:        part.FileName(),
		ContentType: part.Header.Get("Content-Type"),
	}
	var data []byte
	if upload.IsImage(meta.ContentType) {
		// one byte past the limit is enough to reject as too large
		data, err = io.ReadAll(io.LimitReader(part, r.maxBytes+1))
		if err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				return upload.ErrTooLarge
			}
			return badRequest{"could not read image field"}
		}
	}
	meta.Size = int64(len(data))

	task, err := p.Submit(req.Context(), appanalysis.Upload{File: meta, Bytes: data})
	if err != nil {
		return err
	}

	snap := p.Snapshot()
	return writeJSON(w, http.StatusAccepted, map[string]any{
		"analysis_id": task.ID(),
		"state":       snap.State,
		"imageRef":    snap.ImageRef,
	})
}

// imagePart skips to the "image" form field.
func imagePart(mr *multipart.Reader) (*multipart.Part, error) {
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, badRequest{"image field is required"}
		}
		if err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				return nil, upload.ErrTooLarge
			}
			return nil, badRequest{"malformed multipart body"}
		}
		if part.FormName() == "image" {
			return part, nil
		}
		part.Close()
	}
}

// GET /v1/sessions/{session}/analysis?wait=1
func (r *Router) handleGetAnalysis(w http.ResponseWriter, req *http.Request) error {
	p, err := r.pipeline(req)
	if err != nil {
		return err
	}
	if req.URL.Query().Get("wait") == "" {
		return writeJSON(w, http.StatusOK, p.Snapshot())
	}
	ctx, cancel := context.WithTimeout(req.Context(), maxWait)
	defer cancel()
	snap, err := p.Await(ctx)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, snap)
}

// DELETE /v1/sessions/{session}/analysis
func (r *Router) handleResetAnalysis(w http.ResponseWriter, req *http.Request) error {
	p, err := r.pipeline(req)
	if err != nil {
		return err
	}
	p.Reset()
	return writeJSON(w, http.StatusOK, p.Snapshot())
}

// GET /v1/sessions/{session}/history
func (r *Router) handleHistory(w http.ResponseWriter, req *http.Request) error {
	p, err := r.pipeline(req)
	if err != nil {
		return err
	}
	items := p.History()
	return writeJSON(w, http.StatusOK, map[string]any{"data": items, "total": len(items)})
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}
