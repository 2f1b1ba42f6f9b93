package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"index-dashboard/src/chart"
	"index-dashboard/src/helpers"
	"index-dashboard/src/logger"
	"index-dashboard/src/models"
	"index-dashboard/src/shell"

	"github.com/gin-gonic/gin"
)

// -----------------------------------------------------------------------------
// DashboardServer
// -----------------------------------------------------------------------------

type DashboardServer struct {
	Config *models.MConfig
	Shell  *shell.Shell
	Logger *logger.Logger
	engine *gin.Engine
	http   *http.Server

	// WebSocket clients, owned by the hub loop
	clients    map[*Client]struct{}
	broadcast  chan *models.MWsMessage
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once

	connMutex   sync.RWMutex
	connections int
}

// -----------------------------------------------------------------------------
// Constructor
// -----------------------------------------------------------------------------

func NewDashboardServer(cfg *models.MConfig, sh *shell.Shell, logger *logger.Logger) *DashboardServer {
	// Set Gin mode
	if cfg.LogLevel != "DEBUG" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &DashboardServer{
		Config:  cfg,
		Shell:   sh,
		Logger:  logger,
		engine:  gin.Default(),
		clients: make(map[*Client]struct{}),
		// Buffered so a session reset never waits on the hub
		broadcast:  make(chan *models.MWsMessage, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}

	// Add CORS Middleware
	s.engine.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if strings.HasPrefix(origin, "http://127.0.0.1:") || strings.HasPrefix(origin, "http://localhost:") {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	s.engine.SetHTMLTemplate(pageTemplate)
	s.setupRoutes()
	s.http = &http.Server{Addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), Handler: s.engine}

	go s.handleWebsockets()
	return s
}

// -----------------------------------------------------------------------------
// Route Setup
// -----------------------------------------------------------------------------

func (s *DashboardServer) setupRoutes() {
	// Page
	s.engine.GET("/", s.getPage)

	// REST API endpoints
	s.engine.POST("/api/render", s.postRender)
	s.engine.GET("/api/sectors", s.getSectors)
	s.engine.GET("/api/chart/:symbol", s.getChart)
	s.engine.GET("/api/health", s.getHealth)

	// WebSocket endpoint
	s.engine.GET("/ws", s.handleWebSocket)
}

// Handler exposes the router, for tests and embedding.
func (s *DashboardServer) Handler() http.Handler {
	return s.engine
}

// -----------------------------------------------------------------------------
// Server Lifecycle
// -----------------------------------------------------------------------------

func (s *DashboardServer) Start() error {
	s.Logger.Info("Starting server on %s", s.http.Addr)

	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) Stop() error {
	var err error
	s.stopOnce.Do(func() {
		close(s.done)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err = s.http.Shutdown(ctx)
	})
	return err
}

// -----------------------------------------------------------------------------
// Route Handlers
// -----------------------------------------------------------------------------

func (s *DashboardServer) getPage(c *gin.Context) {
	sel, err := selectionFromQuery(c)
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	out, err := s.Shell.Render(c.Request.Context(), sel)
	if err != nil {
		s.Logger.Error("Render failed: %v", err)
		c.String(statusFor(err), "The dashboard could not be rendered: %v", err)
		return
	}

	c.HTML(http.StatusOK, "page", out)
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) postRender(c *gin.Context) {
	var req selectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sel, err := req.toSelection()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	out, err := s.Shell.Render(c.Request.Context(), sel)
	if err != nil {
		s.Logger.Error("Render failed: %v", err)
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, out)
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getSectors(c *gin.Context) {
	sectors, err := s.Shell.Sectors(c.Request.Context())
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sectors": sectors})
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getChart(c *gin.Context) {
	symbol := strings.TrimSuffix(c.Param("symbol"), ".png")
	params, err := chartParamsFromQuery(c.Query("field"), c.Query("start"), c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rendered, err := s.Shell.Chart(c.Request.Context(), symbol, params, chart.FormatPNG)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", rendered.Image)
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getHealth(c *gin.Context) {
	s.connMutex.RLock()
	connections := s.connections
	s.connMutex.RUnlock()

	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"session_id":  s.Shell.Session.ID(),
		"started_at":  s.Shell.Session.StartedAt(),
		"loaded":      s.Shell.Session.Loaded(),
		"connections": connections,
	})
}

// -----------------------------------------------------------------------------

// statusFor maps a pass failure to an HTTP status. Anything that is not a
// bad input or an unknown symbol is an upstream failure.
func statusFor(err error) int {
	switch {
	case helpers.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, helpers.ErrUnknownSymbol):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}
