// Package server exposes the advisor over a JSON HTTP API.
package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ezoic/plantcare/advisor"
	"github.com/ezoic/plantcare/advisor/charts"
	"github.com/ezoic/plantcare/plant"
	pcErrors "github.com/ezoic/plantcare/pkg/errors"
	"github.com/ezoic/plantcare/pkg/log"
)

const (
	// ShutdownTimeout bounds how long Run waits for in-flight requests.
	ShutdownTimeout = 5 * time.Second
	// DefaultCacheSize is the number of diagnoses kept by default.
	DefaultCacheSize = 256
	// RequestIDHeader carries the request id in both directions.
	RequestIDHeader = "X-Request-ID"
)

// Server routes HTTP requests to an Advisor.
type Server struct {
	advisor   *advisor.Advisor
	engine    *gin.Engine
	logger    log.Logger
	metrics   *metrics
	cache     *lru.Cache[advisor.Request, *advisor.Diagnosis]
	cacheSize int
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l log.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithCacheSize sets how many diagnoses are cached. Zero disables the cache.
func WithCacheSize(n int) Option {
	return func(s *Server) {
		s.cacheSize = n
	}
}

var bindingOnce sync.Once

// useValidateTags makes gin's binding validator read the same `validate`
// tags as the plant package.
func useValidateTags() {
	bindingOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.SetTagName("validate")
		if err := plant.RegisterValidations(v); err != nil {
			panic(err)
		}
	})
}

// New builds the router. The gin mode is process global and is left to the
// caller.
func New(a *advisor.Advisor, opts ...Option) (*Server, error) {
	if a == nil {
		return nil, pcErrors.NewValueError("server.New", "advisor is nil")
	}
	useValidateTags()

	s := &Server{
		advisor:   a,
		logger:    log.GetLoggerWithName("server").With(log.ComponentKey, "http"),
		metrics:   newMetrics(),
		cacheSize: DefaultCacheSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cacheSize < 0 {
		return nil, pcErrors.NewValidationError("cacheSize", "must be >= 0", s.cacheSize)
	}
	if s.cacheSize > 0 {
		cache, err := lru.New[advisor.Request, *advisor.Diagnosis](s.cacheSize)
		if err != nil {
			return nil, pcErrors.Wrap(err, "server: cache")
		}
		s.cache = cache
	}

	r := gin.New()
	r.Use(gin.Recovery(), s.requestID, s.requestLogger)

	r.GET("/healthz", s.handleHealth)
	r.GET("/metrics", gin.WrapH(s.metrics.handler()))
	api := r.Group("/api/v1")
	api.GET("/species", s.handleSpecies)
	api.POST("/diagnose", s.handleDiagnose)
	api.POST("/charts/:name", s.handleChart)

	s.engine = r
	return s, nil
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return pcErrors.Wrap(err, "server: listen")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return pcErrors.Wrap(err, "server: shutdown")
	}
	s.logger.Info("HTTP server stopped")
	return nil
}

func (s *Server) requestID(c *gin.Context) {
	id := c.GetHeader(RequestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	c.Set(log.RequestIDKey, id)
	c.Header(RequestIDHeader, id)
	c.Next()
}

func (s *Server) requestLogger(c *gin.Context) {
	start := time.Now()
	c.Next()

	status := c.Writer.Status()
	elapsed := time.Since(start)
	s.metrics.observeRequest(c.FullPath(), status, elapsed)

	kv := []interface{}{
		log.RequestIDKey, c.GetString(log.RequestIDKey),
		log.MethodKey, c.Request.Method,
		log.PathKey, c.FullPath(),
		log.StatusKey, status,
		log.DurationMsKey, elapsed.Milliseconds(),
	}
	if len(c.Errors) > 0 {
		kv = append(kv, "error", c.Errors.Last().Error())
	}
	switch {
	case status >= http.StatusInternalServerError:
		s.logger.Error("Request failed", kv...)
	case status >= http.StatusBadRequest:
		s.logger.Warn("Request rejected", kv...)
	default:
		s.logger.Debug("Request served", kv...)
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleSpecies(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"species": s.advisor.Species()})
}

func (s *Server) handleDiagnose(c *gin.Context) {
	d, ok := s.diagnose(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, d)
}

func (s *Server) handleChart(c *gin.Context) {
	name := charts.Name(c.Param("name"))
	if !knownChart(name) {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown chart"})
		return
	}

	d, ok := s.diagnose(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := charts.Render(&buf, d.Analytics, name); err != nil {
		s.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// diagnose binds the request body and runs the advisor, consulting the cache
// first. On failure the response has already been written.
func (s *Server) diagnose(c *gin.Context) (*advisor.Diagnosis, bool) {
	var req advisor.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(err)
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			c.JSON(http.StatusBadRequest, gin.H{"error": plant.InvalidValueMessage, "field": verrs[0].Field()})
			return nil, false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return nil, false
	}

	if s.cache != nil {
		if d, ok := s.cache.Get(req); ok {
			s.metrics.cacheHits.Inc()
			return d, true
		}
	}

	d, err := s.advisor.Diagnose(req)
	if err != nil {
		s.fail(c, err)
		return nil, false
	}
	s.metrics.recordDiagnosis(d.Prediction)
	if s.cache != nil {
		s.cache.Add(req, d)
	}
	return d, true
}

func (s *Server) fail(c *gin.Context, err error) {
	_ = c.Error(err)

	var vErr *pcErrors.ValueError
	switch {
	case pcErrors.Is(err, pcErrors.ErrInvalidInput):
		var field string
		var ve *pcErrors.ValidationError
		if pcErrors.As(err, &ve) {
			field = ve.ParamName
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": plant.InvalidValueMessage, "field": field})
	case pcErrors.As(err, &vErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": vErr.Message})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func knownChart(name charts.Name) bool {
	for _, n := range charts.Names {
		if n == name {
			return true
		}
	}
	return false
}
