package server

import (
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/reyesjorge76/jr-portfolio/internal/contact"
)

func (s *Server) index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"site":   s.Site,
		"form":   contact.Form{},
		"errors": contact.FieldErrors{},
	})
}

// resume renders the in-page resume view.
func (s *Server) resume(c *gin.Context) {
	c.HTML(http.StatusOK, "resume.html", gin.H{
		"resume": s.Site.Resume,
	})
}

func (s *Server) downloadResume(c *gin.Context) {
	if _, err := os.Stat(s.Config.ResumePath); err != nil {
		s.Logger.Warn("resume file unavailable", "path", s.Config.ResumePath, "error", err)
		c.String(http.StatusNotFound, "Resume not available")
		return
	}
	c.FileAttachment(s.Config.ResumePath, s.Site.Resume.DownloadName)
}

func (s *Server) privacy(c *gin.Context) {
	c.HTML(http.StatusOK, "privacy.html", gin.H{
		"title": "Privacy Policy",
	})
}

// submitContact handles the contact form and answers with an HTML fragment:
// the form again with inline errors, or the success message.
func (s *Server) submitContact(c *gin.Context) {
	var form contact.Form
	if err := c.ShouldBind(&form); err != nil {
		status := http.StatusBadRequest
		if tooLarge(err) {
			status = http.StatusRequestEntityTooLarge
		}
		c.HTML(status, "contact-error.html", gin.H{
			"error": "Sorry, that message could not be read. Please try again.",
		})
		return
	}

	_, err := s.Contact.Submit(c.Request.Context(), form, s.Tracker.HashIP(c.ClientIP()))
	var fields contact.FieldErrors
	switch {
	case err == nil:
		c.HTML(http.StatusOK, "contact-success.html", gin.H{
			"success": s.Site.Contact.Success,
		})
	case errors.As(err, &fields):
		c.HTML(http.StatusOK, "contact-form.html", gin.H{
			"form":   form,
			"errors": fields,
		})
	case errors.Is(err, contact.ErrRateLimited):
		c.HTML(http.StatusTooManyRequests, "contact-error.html", gin.H{
			"error": "You've sent several messages already. Please try again later.",
		})
	default:
		s.Logger.Error("saving contact message", "error", err)
		c.HTML(http.StatusInternalServerError, "contact-error.html", gin.H{
			"error": "Sorry, there was an error sending your message. Please try again later.",
		})
	}
}
