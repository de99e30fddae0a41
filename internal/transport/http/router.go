package http

import (
	"net/http"

	"color-quiz-service/internal/app"
	"github.com/gin-gonic/gin"
)

// NewRouter mounts the quiz API under /api.
func NewRouter(quiz *app.QuizService, auth *app.AuthService) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(), CORS())

	authHandler := NewAuthHandler(auth)
	quizHandler := NewQuizHandler(quiz)
	feedHandler := NewResultsFeedHandler(quiz, auth)
	requireAdmin := RequireAdmin(auth)

	api := router.Group("/api")
	{
		authRoutes := api.Group("/auth")
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.GET("/check-default-admin", authHandler.CheckDefaultAdmin)
		authRoutes.GET("/me", requireAdmin, authHandler.Me)

		quizRoutes := api.Group("/quiz")
		quizRoutes.GET("/questions", quizHandler.Questions)
		quizRoutes.GET("/questions/:questionNumber", quizHandler.Question)
		quizRoutes.POST("/init", requireAdmin, quizHandler.Init)
		quizRoutes.POST("/submit", quizHandler.Submit)
		quizRoutes.GET("/result/:id", quizHandler.Result)
		quizRoutes.GET("/results", requireAdmin, quizHandler.Results)
		quizRoutes.GET("/results/ws", feedHandler.ServeWS)
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "route not found"})
	})
	return router
}
