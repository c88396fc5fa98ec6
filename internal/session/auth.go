package session

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"

	"wpconn-dashboard/internal/gateway"
	"wpconn-dashboard/pkg/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveUser       = errors.New("user is inactive")
)

// Authenticator checks an operator's credentials.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (Identity, error)
}

// LocalAuthenticator accepts one fixed credential pair.
type LocalAuthenticator struct {
	Username string
	Password string
}

func (a LocalAuthenticator) Authenticate(_ context.Context, username, password string) (Identity, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.Password)) == 1
	if !userOK || !passOK {
		return Identity{}, ErrInvalidCredentials
	}
	return Identity{UserID: username, Email: username, Name: username, Role: "admin"}, nil
}

type loginClient interface {
	Login(ctx context.Context, creds models.Credentials) (*models.User, error)
}

// BackendAuthenticator delegates to the gateway's /users/login.
type BackendAuthenticator struct {
	client loginClient
}

func NewBackendAuthenticator(client loginClient) *BackendAuthenticator {
	return &BackendAuthenticator{client: client}
}

func (a *BackendAuthenticator) Authenticate(ctx context.Context, username, password string) (Identity, error) {
	user, err := a.client.Login(ctx, models.Credentials{Email: username, Password: password})
	if err != nil {
		switch gateway.StatusCode(err) {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound, http.StatusUnprocessableEntity:
			return Identity{}, ErrInvalidCredentials
		}
		return Identity{}, fmt.Errorf("gateway login: %w", err)
	}
	if !user.IsActive {
		return Identity{}, ErrInactiveUser
	}
	return Identity{UserID: user.ID, Email: user.Email, Name: user.Name, Role: user.Role}, nil
}
