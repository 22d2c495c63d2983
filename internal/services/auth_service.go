package services

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"agenda_backend/internal/models"
	"agenda_backend/pkg/utils"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrNoOperator         = errors.New("operator identity is not configured")
)

// CredentialVerifier decides whether a username/password pair identifies the operator.
type CredentialVerifier interface {
	Verify(username, password string) (*models.User, bool)
}

// StaticVerifier accepts exactly one configured identity. The username is matched
// case-insensitively, the password exactly (or against a bcrypt hash).
type StaticVerifier struct {
	name         string
	username     string
	password     string
	passwordHash []byte
}

// NewStaticVerifier builds the verifier for one operator. passwordHash, when set, takes
// precedence over password.
func NewStaticVerifier(name, username, password, passwordHash string) (*StaticVerifier, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: empty username", ErrNoOperator)
	}
	if password == "" && passwordHash == "" {
		return nil, fmt.Errorf("%w: no password or password hash", ErrNoOperator)
	}
	if passwordHash != "" {
		if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
			return nil, fmt.Errorf("%w: bad password hash: %v", ErrNoOperator, err)
		}
	}
	if strings.TrimSpace(name) == "" {
		name = username
	}
	return &StaticVerifier{
		name:         strings.TrimSpace(name),
		username:     username,
		password:     password,
		passwordHash: []byte(passwordHash),
	}, nil
}

func (v *StaticVerifier) Verify(username, password string) (*models.User, bool) {
	if !strings.EqualFold(strings.TrimSpace(username), v.username) {
		return nil, false
	}
	if len(v.passwordHash) > 0 {
		if bcrypt.CompareHashAndPassword(v.passwordHash, []byte(password)) != nil {
			return nil, false
		}
	} else if subtle.ConstantTimeCompare([]byte(password), []byte(v.password)) != 1 {
		return nil, false
	}
	return &models.User{Name: v.name}, true
}

// AuthService is the authentication gate in front of the agenda.
type AuthService interface {
	// Authenticate checks creds and opens a new session. On failure it clears
	// creds.Password and returns ErrInvalidCredentials.
	Authenticate(creds *models.Credentials) (*models.Session, error)
}

type authService struct {
	verifier CredentialVerifier
	newID    func() string
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(verifier CredentialVerifier) AuthService {
	return &authService{verifier: verifier, newID: uuid.NewString}
}

func (s *authService) Authenticate(creds *models.Credentials) (*models.Session, error) {
	if creds == nil {
		return nil, ErrInvalidCredentials
	}
	user, ok := s.verifier.Verify(creds.Username, creds.Password)
	if !ok {
		creds.Password = ""
		utils.LogWarn(nil, "Login rejected", map[string]interface{}{"username": strings.TrimSpace(creds.Username)})
		return nil, ErrInvalidCredentials
	}
	return &models.Session{ID: s.newID(), User: *user}, nil
}
