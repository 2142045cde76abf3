package stub

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/edusenior/eduterm/internal/models"
)

func (s *Server) handleListStudySets(c *gin.Context) {
	filter := models.StudySetFilter{
		Search:    c.Query("search"),
		Subject:   c.Query("subject"),
		Type:      c.Query("type"),
		Ownership: c.Query("ownership"),
		Sort:      c.Query("sort"),
	}
	sets, err := s.store.ListStudySets(currentUser(c), filter)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sets)
}

func (s *Server) handleGetStudySet(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	set, err := s.store.GetStudySet(currentUser(c), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, set)
}

func (s *Server) handleCreateStudySet(c *gin.Context) {
	var req models.CreateStudySetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	set, err := s.store.CreateStudySet(currentUser(c), req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, set)
}

func (s *Server) handleUpdateStudySet(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req models.UpdateStudySetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	set, err := s.store.UpdateStudySet(currentUser(c), id, req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, set)
}

func (s *Server) handleMarkOffline(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := s.store.SetOffline(currentUser(c).ID, id); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Study set marked for offline use"})
}

func (s *Server) handleRemoveOffline(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := s.store.ClearOffline(currentUser(c).ID, id); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Study set removed from offline use"})
}

// pathID parses a numeric path parameter, rendering the 422 the
// production backend produces for malformed ids.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "Invalid " + name})
		return 0, false
	}
	return id, true
}
