package http

import (
	"log"
	"net/http"
	"strings"
	"time"

	"color-quiz-service/internal/app"
	"color-quiz-service/internal/domain"
	"github.com/gin-gonic/gin"
)

const adminKey = "admin"

// RequestLogger logs one line per request, tagged by status class.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := "INFO"
		switch {
		case status >= 500:
			level = "ERROR"
		case status >= 400:
			level = "WARN"
		}
		log.Printf("%s [%s] %s %s %d %v", level, c.ClientIP(), c.Request.Method, c.Request.URL.Path, status, time.Since(start))
	}
}

// CORS allows the browser frontend to call the API from another origin.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// RequireAdmin resolves the bearer token to an admin and stores it on the context.
func RequireAdmin(auth *app.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			respondError(c, domain.ErrInvalidToken)
			return
		}
		admin, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			respondError(c, err)
			return
		}
		c.Set(adminKey, admin)
		c.Next()
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func currentAdmin(c *gin.Context) (domain.AdminUser, bool) {
	v, ok := c.Get(adminKey)
	if !ok {
		return domain.AdminUser{}, false
	}
	admin, ok := v.(domain.AdminUser)
	return admin, ok
}
