package server

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/matsen/ringmap/internal/layout"
	"github.com/matsen/ringmap/internal/surface"
	"github.com/matsen/ringmap/internal/viz"
)

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.log))

	r.GET("/healthz", s.handleHealth)
	r.GET("/", s.handleIndex)
	r.GET("/diagram.svg", s.handleDiagramSVG)
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	api := r.Group("/api")
	api.GET("/diagram", s.handleDiagram)
	api.POST("/sessions", s.handleCreateSession)
	api.POST("/sessions/:id/events", s.handleEvent)
	api.GET("/sessions/:id", s.handleSessionState)
	api.GET("/sessions/:id/svg", s.handleSessionSVG)
	api.DELETE("/sessions/:id", s.handleDeleteSession)
	return r
}

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleIndex(c *gin.Context) {
	start := time.Now()
	page, err := viz.GenerateHTML(surface.New(s.Scene()), viz.HTMLOptions{Title: s.opts.Title})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	s.metrics.RenderDuration.WithLabelValues("html").Observe(time.Since(start).Seconds())
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

func (s *Server) handleDiagramSVG(c *gin.Context) {
	s.writeSVG(c, surface.New(s.Scene()))
}

func (s *Server) writeSVG(c *gin.Context, sf *surface.Surface) {
	start := time.Now()
	var buf bytes.Buffer
	if err := sf.WriteSVG(&buf); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	s.metrics.RenderDuration.WithLabelValues("svg").Observe(time.Since(start).Seconds())
	c.Data(http.StatusOK, "image/svg+xml", buf.Bytes())
}

func (s *Server) handleDiagram(c *gin.Context) {
	c.JSON(http.StatusOK, s.Scene().Export())
}

// createSessionRequest optionally preselects a node by id.
type createSessionRequest struct {
	Select string `json:"select"`
}

type sessionResponse struct {
	ID    string        `json:"id"`
	State surface.State `json:"state"`
}

func (s *Server) handleCreateSession(c *gin.Context) {
	var req createSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	sess := s.sessions.create(s.Scene())
	s.metrics.SessionsActive.Set(float64(s.sessions.len()))

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if req.Select != "" {
		if err := sess.surface.Select(req.Select); err != nil {
			s.sessions.delete(sess.id)
			s.metrics.SessionsActive.Set(float64(s.sessions.len()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusCreated, sessionResponse{ID: sess.id, State: sess.surface.State()})
}

// eventRequest is the wire form of surface.Event. The struck node may be
// named by key or by id.
type eventRequest struct {
	Kind   string  `json:"kind" binding:"required"`
	Node   *int    `json:"node"`
	NodeID string  `json:"node_id"`
	Edge   string  `json:"edge"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Factor float64 `json:"factor"`
	DX     float64 `json:"dx"`
	DY     float64 `json:"dy"`
}

func (r eventRequest) toEvent(sc *surface.Scene) (surface.Event, error) {
	ev := surface.Event{
		Kind:   surface.EventKind(r.Kind),
		Edge:   r.Edge,
		X:      r.X,
		Y:      r.Y,
		Factor: r.Factor,
		DX:     r.DX,
		DY:     r.DY,
	}
	switch {
	case r.Node != nil:
		k := layout.NodeKey(*r.Node)
		ev.Node = &k
	case r.NodeID != "":
		n := sc.Diagram.Find(r.NodeID)
		if n == nil {
			return ev, fmt.Errorf("%w: node %q", surface.ErrUnknownTarget, r.NodeID)
		}
		k := n.Key
		ev.Node = &k
	}
	return ev, nil
}

func (s *Server) handleEvent(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}

	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !sess.limiter.Allow() {
		s.metrics.Events.WithLabelValues(req.Kind, "throttled").Inc()
		c.JSON(http.StatusTooManyRequests, gin.H{"error": ErrRateLimited.Error()})
		return
	}

	start := time.Now()
	sess.mu.Lock()
	defer sess.mu.Unlock()

	ev, err := req.toEvent(sess.surface.Scene())
	if err == nil {
		err = sess.surface.Handle(ev)
	}
	s.metrics.EventLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.Events.WithLabelValues(req.Kind, "rejected").Inc()
		status := http.StatusInternalServerError
		if errors.Is(err, surface.ErrUnknownEvent) || errors.Is(err, surface.ErrUnknownTarget) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	s.metrics.Events.WithLabelValues(req.Kind, "ok").Inc()
	c.JSON(http.StatusOK, sess.surface.State())
}

func (s *Server) handleSessionState(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	c.JSON(http.StatusOK, sessionResponse{ID: sess.id, State: sess.surface.State()})
}

func (s *Server) handleSessionSVG(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	s.writeSVG(c, sess.surface)
}

func (s *Server) handleDeleteSession(c *gin.Context) {
	if !s.sessions.delete(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": ErrSessionNotFound.Error()})
		return
	}
	s.metrics.SessionsActive.Set(float64(s.sessions.len()))
	c.Status(http.StatusNoContent)
}

// session looks up the :id session, writing a 404 when it is missing.
func (s *Server) session(c *gin.Context) (*session, bool) {
	sess, err := s.sessions.get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return nil, false
	}
	return sess, true
}
