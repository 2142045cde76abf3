package stub

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edusenior/eduterm/internal/models"
)

func (s *Server) handleListClasses(c *gin.Context) {
	classes, err := s.store.ListClasses(currentUser(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, classes)
}

func (s *Server) handleCreateClass(c *gin.Context) {
	var req models.CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	class, err := s.store.CreateClass(currentUser(c), req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, class)
}

func (s *Server) handleUpdateClass(c *gin.Context) {
	id, ok := pathID(c, "classID")
	if !ok {
		return
	}
	var req models.UpdateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	class, err := s.store.UpdateClass(currentUser(c), id, req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, class)
}

func (s *Server) handleClassStudents(c *gin.Context) {
	id, ok := pathID(c, "classID")
	if !ok {
		return
	}
	students, err := s.store.ClassStudents(currentUser(c), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, students)
}

func (s *Server) handleAddStudents(c *gin.Context) {
	id, ok := pathID(c, "classID")
	if !ok {
		return
	}
	var req struct {
		StudentIDs []int64 `json:"student_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	result, err := s.store.AddStudents(currentUser(c), id, req.StudentIDs)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleRemoveStudent(c *gin.Context) {
	classID, ok := pathID(c, "classID")
	if !ok {
		return
	}
	studentID, ok := pathID(c, "studentID")
	if !ok {
		return
	}
	if err := s.store.RemoveStudent(currentUser(c), classID, studentID); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Student removed from class"})
}

func (s *Server) handleSearchUsers(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "Query must not be empty"})
		return
	}
	students, err := s.store.SearchStudents(query, currentUser(c).ID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, students)
}

func (s *Server) handleListAssignments(c *gin.Context) {
	id, ok := pathID(c, "classID")
	if !ok {
		return
	}
	assignments, err := s.store.Assignments(currentUser(c), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, assignments)
}

func (s *Server) handleCreateAssignment(c *gin.Context) {
	id, ok := pathID(c, "classID")
	if !ok {
		return
	}
	var req models.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	result, err := s.store.CreateAssignment(currentUser(c), id, req)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}
