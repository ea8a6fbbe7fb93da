package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires every route onto the router. The auth middleware is
// injected so tests and the -bypass_auth dev flag can substitute it.
func RegisterRoutes(router *gin.Engine, h *Handler, auth gin.HandlerFunc) {
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	articles := router.Group("/articles")
	articles.GET("", h.GetArticles)
	articles.GET("/fetch", auth, h.FetchArticles)
	articles.GET("/:id", h.GetArticleById)

	user := router.Group("/user", auth)
	user.GET("/personalized-feed", h.GetPersonalizedFeed)
	user.GET("/preferences", h.GetPreferences)
	user.POST("/preferences", h.SavePreferences)
}
