package stub

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/edusenior/eduterm/internal/models"
)

func (s *Server) handleRegister(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}
	if !models.Role(req.Role).Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Role must be 'teacher' or 'student'"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.writeError(c, err)
		return
	}
	profile, err := s.store.CreateUser(req.Email, string(hash), req.FullName, req.Role)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, profile)
}

func (s *Server) handleLogin(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": err.Error()})
		return
	}

	user, err := s.store.UserByEmail(req.Email)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid credentials"})
		return
	}

	pair, err := s.tokens.Issue(user)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.logger.Info("login", zap.String("email", user.Email))
	c.JSON(http.StatusOK, pair)
}

func (s *Server) handleMe(c *gin.Context) {
	user := currentUser(c)
	c.JSON(http.StatusOK, models.Profile{
		ID:       user.ID,
		Email:    user.Email,
		FullName: user.FullName,
		Role:     models.Role(user.Role),
	})
}
