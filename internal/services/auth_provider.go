package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/PelicanED-online/pelicaned-backend/internal/data/repos"
	types "github.com/PelicanED-online/pelicaned-backend/internal/domain"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/apierr"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/dbctx"
	"github.com/PelicanED-online/pelicaned-backend/internal/platform/logger"
)

type NewAuthUser struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
}

// AuthProvider owns credentials. Registration and login go through it so the
// credential store can move to an external identity service.
type AuthProvider interface {
	CreateUser(dbc dbctx.Context, in NewAuthUser) (*types.User, error)
	Authenticate(dbc dbctx.Context, email, password string) (*types.User, error)
}

type localAuthProvider struct {
	log   *logger.Logger
	users repos.UserRepo
	cost  int
}

// NewLocalAuthProvider stores bcrypt hashes in the users table.
func NewLocalAuthProvider(log *logger.Logger, users repos.UserRepo) AuthProvider {
	return &localAuthProvider{
		log:   log.With("service", "LocalAuthProvider"),
		users: users,
		cost:  bcrypt.DefaultCost,
	}
}

func (p *localAuthProvider) CreateUser(dbc dbctx.Context, in NewAuthUser) (*types.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	existing, err := p.users.GetByEmail(dbc, email)
	if err != nil {
		return nil, fmt.Errorf("lookup user by email: %w", err)
	}
	if existing != nil {
		return nil, apierr.Conflict("email_taken", "an account with this email already exists")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), p.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &types.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Role:         in.Role,
	}
	if _, err := p.users.Create(dbc, []*types.User{u}); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (p *localAuthProvider) Authenticate(dbc dbctx.Context, email, password string) (*types.User, error) {
	u, err := p.users.GetByEmail(dbc, email)
	if err != nil {
		return nil, fmt.Errorf("lookup user by email: %w", err)
	}
	if u == nil {
		return nil, errInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, errInvalidCredentials
		}
		return nil, fmt.Errorf("compare password: %w", err)
	}
	return u, nil
}

var errInvalidCredentials = apierr.Unauthorized("invalid_credentials", "invalid email or password")
