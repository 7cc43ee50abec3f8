package server

import (
	"crypto/subtle"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const adminCookie = "admin_token"

func (s *Server) adminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(s.adminToken)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (s *Server) adminRoutes(r *gin.Engine) {
	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{
			"title": "Admin Login",
		})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		user, pass := c.PostForm("username"), c.PostForm("password")
		client := s.Tracker.HashIP(c.ClientIP())

		// both comparisons always run
		userOK := equal(user, s.Config.AdminUsername)
		passOK := equal(pass, s.Config.AdminPassword)
		if !userOK || !passOK {
			s.Logger.Warn("failed admin login attempt", "client", client)
			c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
				"title": "Admin Login",
				"error": "Invalid credentials",
			})
			return
		}

		secure := c.Request.TLS != nil
		c.SetSameSite(http.SameSiteStrictMode)
		c.SetCookie(adminCookie, s.adminToken, 3600*24, "/admin", "", secure, true)
		s.Logger.Info("admin login", "client", client)
		c.Redirect(http.StatusFound, "/admin/dashboard")
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", false, true)
		c.Redirect(http.StatusFound, "/admin/login")
	})

	admin := r.Group("/admin")
	admin.Use(s.adminAuth())

	admin.GET("", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/admin/dashboard")
	})

	admin.GET("/dashboard", func(c *gin.Context) {
		stats, err := s.Tracker.Stats(c.Request.Context())
		if err != nil {
			s.Logger.Error("loading admin stats", "error", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load statistics",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"stats":    stats,
			"sessions": s.Demos.Len(),
		})
	})

	admin.GET("/api/stats", func(c *gin.Context) {
		stats, err := s.Tracker.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	admin.GET("/messages", func(c *gin.Context) {
		msgs, err := s.Contact.Inbox().List(c.Request.Context(), 200)
		if err != nil {
			s.Logger.Error("loading contact messages", "error", err)
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load messages",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-messages.html", gin.H{
			"messages": msgs,
		})
	})

	admin.DELETE("/messages/:id", func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
			return
		}
		ok, err := s.Contact.Inbox().Delete(c.Request.Context(), id)
		if err != nil {
			s.Logger.Error("deleting contact message", "id", id, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete message"})
			return
		}
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
			return
		}
		s.Logger.Info("contact message deleted by admin", "id", id)
		c.JSON(http.StatusOK, gin.H{"message": "Message deleted"})
	})

	admin.GET("/visitors", func(c *gin.Context) {
		visitors, err := s.Tracker.Visitors(c.Request.Context(), 200)
		if err != nil {
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load visitors",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-visitors.html", gin.H{
			"visitors": visitors,
		})
	})

	admin.POST("/privacy/cleanup", func(c *gin.Context) {
		n, err := s.Tracker.Cleanup(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup complete", "removed": n})
	})

	admin.GET("/export/stats", func(c *gin.Context) {
		stats, err := s.Tracker.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		s.Logger.Info("admin stats exported")
		c.JSON(http.StatusOK, stats)
	})
}
