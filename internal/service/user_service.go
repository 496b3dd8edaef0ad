package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dossiman/coursera-fullstack-web-dev/internal/auth"
	"github.com/dossiman/coursera-fullstack-web-dev/internal/models"
	"github.com/dossiman/coursera-fullstack-web-dev/internal/repository"
	"github.com/dossiman/coursera-fullstack-web-dev/internal/validation"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// invalidCredentials is shared by unknown users and wrong passwords
const invalidCredentials = "invalid username or password"

type userService struct {
	users      repository.UserRepository
	issuer     *auth.Issuer
	validator  *validation.Validator
	bcryptCost int
	log        zerolog.Logger
	sources
}

func newUserService(users repository.UserRepository, issuer *auth.Issuer, validator *validation.Validator, bcryptCost int, log zerolog.Logger) *userService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &userService{
		users:      users,
		issuer:     issuer,
		validator:  validator,
		bcryptCost: bcryptCost,
		log:        log.With().Str("service", "user").Logger(),
		sources:    defaultSources(),
	}
}

// Signup registers a regular (non-admin) user
func (s *userService) Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error) {
	if errs := s.validator.ValidateSignup(req); len(errs) > 0 {
		return nil, invalid(errs)
	}
	return s.create(ctx, req, false)
}

// CreateAdmin registers a user holding the admin role
func (s *userService) CreateAdmin(ctx context.Context, username, password string) (*models.User, error) {
	req := &models.SignupRequest{Username: username, Password: password}
	if errs := s.validator.ValidateSignup(req); len(errs) > 0 {
		return nil, invalid(errs)
	}
	return s.create(ctx, req, true)
}

func (s *userService) create(ctx context.Context, req *models.SignupRequest, admin bool) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	user := &models.User{
		ID:           s.newID(),
		Username:     req.Username,
		Firstname:    req.Firstname,
		Lastname:     req.Lastname,
		Admin:        admin,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflict("A user with the given username %s is already registered", req.Username)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log.Info().Str("user_id", user.ID).Str("username", user.Username).Bool("admin", admin).Msg("User registered")
	return user, nil
}

// Login checks the credentials and issues a token
func (s *userService) Login(ctx context.Context, req *models.LoginRequest) (string, *models.User, error) {
	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		return "", nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return "", nil, unauthorized(invalidCredentials)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.log.Warn().Str("username", req.Username).Msg("Login failed")
		return "", nil, unauthorized(invalidCredentials)
	}

	token, err := s.issuer.Issue(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Authenticate verifies a bearer token and loads the user it names, so a
// deleted user or a revoked admin flag takes effect immediately.
func (s *userService) Authenticate(ctx context.Context, token string) (*auth.Principal, error) {
	claims, err := s.issuer.Parse(token)
	if err != nil {
		return nil, unauthorized("invalid token")
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("load principal: %w", err)
	}
	if user == nil {
		return nil, unauthorized("unknown user")
	}
	return auth.PrincipalFromUser(user), nil
}

// Get returns a user by id
func (s *userService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, notFound("User %s not found", id)
	}
	return user, nil
}

// List returns every user
func (s *userService) List(ctx context.Context) ([]*models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Count returns the number of registered users
func (s *userService) Count(ctx context.Context) (int, error) {
	return s.users.Count(ctx)
}
