package stub

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appErrors "github.com/edusenior/eduterm/pkg/errors"
)

const contextUserKey = "stub.user"

// Server is the development backend: the same routes and payload shapes
// as the production API, backed by a local SQLite file.
type Server struct {
	store  *Store
	tokens *TokenIssuer
	logger *zap.Logger
}

func NewServer(store *Store, tokens *TokenIssuer, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{store: store, tokens: tokens, logger: logger}
}

// writeError renders failures the way the production backend does: a
// bare {"detail": "<message>"} body with the matching status code.
func (s *Server) writeError(c *gin.Context, err error) {
	var appErr *appErrors.Error
	if e, ok := err.(*appErrors.Error); ok {
		appErr = e
	}
	if appErr == nil || appErr.Status == 0 {
		s.logger.Error("unhandled error", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
		return
	}
	c.JSON(appErr.Status, gin.H{"detail": appErr.Message})
}

// authRequired validates the bearer token and loads the caller's record.
func (s *Server) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
			return
		}
		claims, err := s.tokens.Validate(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Could not validate credentials"})
			return
		}
		user, err := s.store.UserByEmail(claims.Subject)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Could not validate credentials"})
			return
		}
		c.Set(contextUserKey, user)
		c.Next()
	}
}

func currentUser(c *gin.Context) *userRecord {
	value, _ := c.Get(contextUserKey)
	user, _ := value.(*userRecord)
	return user
}
