package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reyesjorge76/jr-portfolio/internal/demo"
)

type demoCard struct {
	Kind        demo.Kind `json:"kind"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
}

func (s *Server) listDemos(c *gin.Context) {
	cards := make([]demoCard, 0, len(demo.Kinds))
	for _, k := range demo.Kinds {
		card := demoCard{Kind: k, Title: string(k)}
		if p, ok := s.Site.Project(string(k)); ok {
			card.Title, card.Description = p.Heading(), p.Description
		}
		cards = append(cards, card)
	}
	c.JSON(http.StatusOK, gin.H{"demos": cards})
}

func (s *Server) createDemo(c *gin.Context) {
	var req struct {
		Kind demo.Kind `json:"kind" form:"kind" binding:"required"`
	}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind is required"})
		return
	}

	info, err := s.Demos.Create(req.Kind)
	if err != nil {
		s.demoError(c, err, nil)
		return
	}
	state, err := s.Demos.Snapshot(info.ID)
	if err != nil {
		s.demoError(c, err, nil)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session": info, "state": state})
}

func (s *Server) getDemo(c *gin.Context) {
	id := c.Param("id")
	info, err := s.Demos.Get(id)
	if err != nil {
		s.demoError(c, err, nil)
		return
	}
	state, err := s.Demos.Snapshot(id)
	if err != nil {
		s.demoError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": info, "state": state})
}

func (s *Server) closeDemo(c *gin.Context) {
	if err := s.Demos.Close(c.Param("id")); err != nil {
		s.demoError(c, err, nil)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) actDemo(c *gin.Context) {
	args := demo.Args{}
	if err := c.ShouldBindJSON(&args); err != nil && !errors.Is(err, io.EOF) {
		if tooLarge(err) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "arguments must be a JSON object"})
		return
	}

	state, err := s.Demos.Act(c.Param("id"), c.Param("action"), args)
	if err != nil {
		s.demoError(c, err, state)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": state})
}

// demoError maps demo failures to status codes. Rejections carry their
// message for the visitor and the current state.
func (s *Server) demoError(c *gin.Context, err error, state any) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, demo.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, demo.ErrUnknownKind), errors.Is(err, demo.ErrUnknownAction), errors.Is(err, demo.ErrInvalidArgs):
		status = http.StatusBadRequest
	case errors.Is(err, demo.ErrTooManySessions):
		status = http.StatusServiceUnavailable
	case demo.IsRejection(err):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		s.Logger.Error("demo request failed", "error", err)
	}

	body := gin.H{"error": err.Error()}
	if state != nil {
		body["state"] = state
	}
	c.JSON(status, body)
}

func tooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}
