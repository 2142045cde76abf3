package stub

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edusenior/eduterm/pkg/logger"
	"github.com/edusenior/eduterm/pkg/middleware/requestid"
)

// Router builds the gin engine with the same route table the production
// backend exposes.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestid.Middleware())
	r.Use(logger.GinMiddleware(s.logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	auth := r.Group("/auth")
	{
		auth.POST("/register", s.handleRegister)
		auth.POST("/login", s.handleLogin)
		auth.GET("/me", s.authRequired(), s.handleMe)
	}

	sets := r.Group("/study-sets", s.authRequired())
	{
		sets.GET("", s.handleListStudySets)
		sets.POST("", s.handleCreateStudySet)
		sets.GET("/:id", s.handleGetStudySet)
		sets.PUT("/:id", s.handleUpdateStudySet)
		sets.POST("/:id/offline", s.handleMarkOffline)
		sets.DELETE("/:id/offline", s.handleRemoveOffline)

		sets.GET("/users/search", s.handleSearchUsers)

		s.classRoutes(sets.Group("/classes"))
	}

	// Legacy alias kept for clients that predate the /study-sets prefix.
	s.classRoutes(r.Group("/classes", s.authRequired()))

	return r
}

func (s *Server) classRoutes(classes *gin.RouterGroup) {
	classes.GET("", s.handleListClasses)
	classes.POST("", s.handleCreateClass)
	classes.PUT("/:classID", s.handleUpdateClass)
	classes.GET("/:classID/students", s.handleClassStudents)
	classes.POST("/:classID/students", s.handleAddStudents)
	classes.DELETE("/:classID/students/:studentID", s.handleRemoveStudent)
	classes.GET("/:classID/assignments", s.handleListAssignments)
	classes.POST("/:classID/assignments", s.handleCreateAssignment)
}
