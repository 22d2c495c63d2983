package middleware

import (
	"net/http"
	"strings"

	"agenda_backend/internal/models"
	"agenda_backend/internal/services"
	"agenda_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

const (
	ContextSessionID = "sessionID"
	ContextUserName  = "userName"
)

// SessionSource exposes the session currently held by the agenda.
type SessionSource interface {
	Session() (*models.Session, services.State)
}

// SessionMiddleware admits requests whose bearer token names the session the agenda
// currently holds. A token from before a logout or restart is rejected even though its
// signature is valid.
func SessionMiddleware(signer *utils.SessionSigner, sessions SessionSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authorization header required.", ""))
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid authorization header format. Use Bearer <token>.", ""))
			return
		}

		claims, err := signer.Parse(parts[1])
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid session token.", err.Error()))
			return
		}

		session, _ := sessions.Session()
		if session == nil || session.ID != claims.ID {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Session has ended. Please log in again.", ""))
			return
		}

		c.Set(ContextSessionID, session.ID)
		c.Set(ContextUserName, session.User.Name)
		c.Next()
	}
}
