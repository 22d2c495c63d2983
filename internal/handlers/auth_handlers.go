package handlers

import (
	"errors"
	"net/http"

	"agenda_backend/internal/middleware"
	"agenda_backend/internal/models"
	"agenda_backend/internal/services"
	"agenda_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler opens and closes the operator session.
type AuthHandler struct {
	agenda services.AgendaService
	signer *utils.SessionSigner
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(agenda services.AgendaService, signer *utils.SessionSigner) *AuthHandler {
	return &AuthHandler{agenda: agenda, signer: signer}
}

// LoginResponse is returned on a successful login.
type LoginResponse struct {
	Token  string          `json:"token"`
	User   models.User     `json:"user"`
	Status services.Status `json:"status"`
}

// LoginUser authenticates and loads the agenda. A rejected login echoes the
// credentials back with the password cleared.
func (h *AuthHandler) LoginUser(c *gin.Context) {
	var creds models.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		utils.LogError(err, "LoginUser: Failed to bind JSON")
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	session, err := h.agenda.Login(c.Request.Context(), &creds)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":       utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Usuário ou senha inválidos.", err.Error()),
				"credentials": creds,
			})
			return
		}
		utils.LogError(err, "LoginUser: Error from agenda.Login")
		utils.RespondWithError(c, agendaError(err, "log in"))
		return
	}

	token, err := h.signer.Sign(session.ID, session.User.Name)
	if err != nil {
		utils.LogError(err, "LoginUser: Failed to sign session token")
		h.agenda.Logout(session.ID)
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to log in.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, LoginResponse{Token: token, User: session.User, Status: h.agenda.Status()})
}

// LogoutUser ends the session named by the request token.
func (h *AuthHandler) LogoutUser(c *gin.Context) {
	h.agenda.Logout(c.GetString(middleware.ContextSessionID))
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully."})
}

// GetCurrentUser reports the operator and the agenda state.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	c.JSON(http.StatusOK, h.agenda.Status())
}
