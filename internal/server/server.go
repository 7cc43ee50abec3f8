// Package server wires the portfolio page, the demo API and the admin area
// onto a gin engine.
package server

import (
	"context"
	"database/sql"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/reyesjorge76/jr-portfolio/internal/analytics"
	"github.com/reyesjorge76/jr-portfolio/internal/config"
	"github.com/reyesjorge76/jr-portfolio/internal/contact"
	"github.com/reyesjorge76/jr-portfolio/internal/content"
	"github.com/reyesjorge76/jr-portfolio/internal/demo"
	"github.com/reyesjorge76/jr-portfolio/internal/logging"
	"github.com/reyesjorge76/jr-portfolio/internal/metrics"
)

//go:embed templates/*.html
var templateFS embed.FS

// maxBodyBytes caps API and form request bodies.
const maxBodyBytes = 64 << 10

// Deps are the collaborators a Server needs.
type Deps struct {
	Config  config.Config
	Logger  *slog.Logger
	Site    *content.Site
	DB      *sql.DB
	Demos   *demo.Manager
	Contact *contact.Service
	Tracker *analytics.Tracker
	Metrics *metrics.Metrics
}

// Server handles every HTTP route of the site.
type Server struct {
	Deps
	adminToken string
	engine     *gin.Engine
}

// New builds the engine and its routes.
func New(d Deps) *Server {
	if d.Logger == nil {
		d.Logger = logging.NewNop()
	}
	s := &Server{Deps: d, adminToken: analytics.NewToken()}
	s.engine = s.routes()
	return s
}

// Handler is the root http.Handler.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	r.SetHTMLTemplate(template.Must(template.New("").ParseFS(templateFS, "templates/*.html")))

	if s.Config.StaticDir != "" {
		r.Static("/static", s.Config.StaticDir)
	}

	r.GET("/healthz", s.health)
	r.GET("/metrics", gin.WrapH(s.Metrics.Handler()))

	site := r.Group("/")
	site.Use(s.Tracker.Middleware())
	site.GET("/", s.index)
	site.GET("/resume", s.resume)
	site.GET("/resume/download", s.downloadResume)
	site.POST("/contact", limitBody(maxBodyBytes), s.submitContact)
	site.GET("/privacy", s.privacy)

	api := r.Group("/api/demos")
	api.Use(limitBody(maxBodyBytes))
	api.GET("", s.listDemos)
	api.POST("", s.createDemo)
	api.GET("/:id", s.getDemo)
	api.DELETE("/:id", s.closeDemo)
	api.POST("/:id/:action", s.actDemo)

	s.adminRoutes(r)
	return r
}

func limitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}

// requestLogger emits one record per request and feeds the request metrics.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		took := time.Since(start)
		status := c.Writer.Status()

		s.Metrics.ObserveRequest(c.Request.Method, c.FullPath(), status, took)

		level := slog.LevelDebug
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		s.Logger.Log(c.Request.Context(), level, "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", took,
		)
	}
}

func (s *Server) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	body := gin.H{"status": "ok", "demo_sessions": s.Demos.Len()}
	if s.DB != nil {
		if err := s.DB.PingContext(ctx); err != nil {
			body["status"] = "degraded"
			body["database"] = err.Error()
			c.JSON(http.StatusServiceUnavailable, body)
			return
		}
	}
	c.JSON(http.StatusOK, body)
}
