package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIPrefix is where the auth routes are mounted.
const APIPrefix = "/api/v1/auth"

func (s *HTTPServer) routes() *gin.Engine {
	r := gin.New()
	r.Use(s.recovery(), s.requestLogger(), cors(), bodyLimit(MaxBodyBytes))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Server is up and running..."})
	})
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	api := r.Group(APIPrefix)
	api.POST("/signup", s.signup)
	api.POST("/login", s.login)

	protected := api.Group("", s.authRequired())
	protected.GET("/getUserDetails", s.getUserDetails)
	protected.POST("/editUser", s.editUser)

	return r
}
