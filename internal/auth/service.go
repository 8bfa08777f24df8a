package auth

import (
	"context"
	"errors"
	"strings"

	"smartgriev/backend/internal/access"
	"smartgriev/backend/internal/apperr"
	"smartgriev/backend/internal/models"
	"smartgriev/backend/internal/storage"

	"go.uber.org/zap"
)

// ProfileStore reads and writes display/authorization profiles.
type ProfileStore interface {
	GetProfile(ctx context.Context, id string) (*models.Profile, error)
	SaveProfile(ctx context.Context, profile *models.Profile) error
}

type RegisterInput struct {
	Email      string  `json:"email"`
	Password   string  `json:"password"`
	Name       string  `json:"name"`
	Role       string  `json:"role"`
	Department *string `json:"department"`
	Phone      string  `json:"phone"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User is the account summary returned by register and login.
type User struct {
	ID         string  `json:"id"`
	Email      string  `json:"email"`
	Name       string  `json:"name"`
	Role       string  `json:"role"`
	Department *string `json:"department"`
}

type Result struct {
	User    User     `json:"user"`
	Session *Session `json:"session"`
}

// Service combines the identity provider with the profile store.
type Service struct {
	Provider Provider
	Profiles ProfileStore
	Logger   *zap.Logger
}

func NewService(provider Provider, profiles ProfileStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{Provider: provider, Profiles: profiles, Logger: logger}
}

// Register creates an identity and its profile. Role defaults to CITIZEN and
// the department is stored for officers only.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Result, error) {
	name := strings.TrimSpace(in.Name)
	if strings.TrimSpace(in.Email) == "" || in.Password == "" || name == "" {
		return nil, apperr.Validation("Email, password, and name are required")
	}

	role := strings.ToUpper(strings.TrimSpace(in.Role))
	if role == "" {
		role = models.RoleCitizen
	}
	if !models.IsKnownRole(role) {
		return nil, apperr.Validation("Invalid role: " + in.Role)
	}

	var department *string
	if role == models.RoleOfficer && in.Department != nil {
		if d := strings.TrimSpace(*in.Department); d != "" {
			department = &d
		}
	}

	identity, session, err := s.Provider.SignUp(ctx, in.Email, in.Password)
	if err != nil {
		return nil, err
	}

	profile := &models.Profile{
		ID:         identity.ID,
		Name:       name,
		Role:       role,
		Phone:      strings.TrimSpace(in.Phone),
		Department: department,
	}
	if err := s.Profiles.SaveProfile(ctx, profile); err != nil {
		return nil, apperr.Persistence("failed to save profile", err)
	}

	s.Logger.Info("user registered", zap.String("user_id", identity.ID), zap.String("role", role))
	return &Result{User: userOf(identity, profile), Session: session}, nil
}

func (s *Service) Login(ctx context.Context, in LoginInput) (*Result, error) {
	if strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return nil, apperr.Validation("Email and password are required")
	}

	identity, session, err := s.Provider.SignIn(ctx, in.Email, in.Password)
	if err != nil {
		return nil, err
	}

	profile, err := s.profileFor(ctx, identity)
	if err != nil {
		return nil, err
	}
	return &Result{User: userOf(identity, profile), Session: session}, nil
}

// Authenticate resolves a bearer token to an Actor. Identities without a
// profile act as citizens named after their email.
func (s *Service) Authenticate(ctx context.Context, token string) (*access.Actor, error) {
	identity, err := s.Provider.Verify(ctx, token)
	if err != nil {
		return nil, err
	}

	profile, err := s.profileFor(ctx, identity)
	if err != nil {
		return nil, err
	}

	return &access.Actor{
		ID:         identity.ID,
		Email:      identity.Email,
		Name:       profile.Name,
		Role:       profile.Role,
		Department: profile.Department,
	}, nil
}

// SetRole changes a profile's role and department. Only officers keep a
// department.
func (s *Service) SetRole(ctx context.Context, userID, role string, department *string) (*models.Profile, error) {
	role = strings.ToUpper(strings.TrimSpace(role))
	if !models.IsKnownRole(role) {
		return nil, apperr.Validation("Invalid role: " + role)
	}

	profile, err := s.Profiles.GetProfile(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.NotFound("Profile not found")
	}
	if err != nil {
		return nil, apperr.Persistence("failed to load profile", err)
	}

	if role != models.RoleOfficer {
		department = nil
	}
	profile.Role = role
	profile.Department = department
	if err := s.Profiles.SaveProfile(ctx, profile); err != nil {
		return nil, apperr.Persistence("failed to save profile", err)
	}
	return profile, nil
}

func (s *Service) profileFor(ctx context.Context, identity *Identity) (*models.Profile, error) {
	profile, err := s.Profiles.GetProfile(ctx, identity.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return models.DefaultProfile(identity.ID, identity.Email), nil
	}
	if err != nil {
		return nil, apperr.Persistence("failed to load profile", err)
	}
	return profile, nil
}

func userOf(identity *Identity, profile *models.Profile) User {
	return User{
		ID:         identity.ID,
		Email:      identity.Email,
		Name:       profile.Name,
		Role:       profile.Role,
		Department: profile.Department,
	}
}
