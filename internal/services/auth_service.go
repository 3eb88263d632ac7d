package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/justsurfingit/jobx/internal/apperr"
	"github.com/justsurfingit/jobx/internal/auth"
	"github.com/justsurfingit/jobx/internal/models"
)

const minPasswordLength = 6

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type ProfileInput struct {
	Name  string
	Email string
	Image string
}

// Session is the result of a successful login.
type Session struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

type AuthService struct {
	users     UserRepository
	companies CompanyRepository
	hasher    auth.Hasher
	tokens    *auth.TokenIssuer
	notices   *NotificationService
	log       *slog.Logger
}

func NewAuthService(users UserRepository, companies CompanyRepository, hasher auth.Hasher, tokens *auth.TokenIssuer, notices *NotificationService, log *slog.Logger) *AuthService {
	return &AuthService{users: users, companies: companies, hasher: hasher, tokens: tokens, notices: notices, log: log}
}

// Register creates an unverified user and emails the verification code.
// The role is always "user".
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if err := requireFields(map[string]string{"name": in.Name, "email": in.Email, "password": in.Password}); err != nil {
		return nil, err
	}
	if !validEmail(in.Email) {
		return nil, apperr.Validation("invalid email address")
	}
	if len(in.Password) < minPasswordLength {
		return nil, apperr.Validation(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, apperr.Conflict("email already registered")
	} else if !apperr.Is(err, apperr.KindNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, apperr.Internal("failed to register", err)
	}
	code, err := auth.NewVerificationCode()
	if err != nil {
		return nil, apperr.Internal("failed to register", err)
	}
	user := &models.User{
		Name:             in.Name,
		Email:            in.Email,
		PasswordHash:     hash,
		Role:             models.RoleUser,
		VerificationCode: &code,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.notices.Email(ctx, user.Email, "Verify your email",
		fmt.Sprintf("Hello %s,\n\nYour verification code is %s.\n", user.Name, code))
	s.log.Info("user registered", slog.Uint64("user_id", uint64(user.ID)))
	return user, nil
}

func (s *AuthService) VerifyEmail(ctx context.Context, email, code string) error {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if apperr.Is(err, apperr.KindNotFound) {
		return apperr.Validation("invalid verification code")
	}
	if err != nil {
		return err
	}
	if user.Verified {
		return nil
	}
	if user.VerificationCode == nil || *user.VerificationCode != strings.TrimSpace(code) {
		return apperr.Validation("invalid verification code")
	}
	user.Verified = true
	user.VerificationCode = nil
	return s.users.Update(ctx, user)
}

// Login checks the credentials and issues a session token carrying the role
// the user has right now.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if apperr.Is(err, apperr.KindNotFound) {
		return nil, apperr.Validation("incorrect email or password")
	}
	if err != nil {
		return nil, err
	}
	if !s.hasher.Compare(user.PasswordHash, password) {
		return nil, apperr.Validation("incorrect email or password")
	}
	if !user.Verified {
		return nil, apperr.Forbidden("verify your email before logging in")
	}
	token, expiresAt, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, apperr.Internal("failed to log in", err)
	}
	return &Session{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

func (s *AuthService) Profile(ctx context.Context, userID uint) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID uint, in ProfileInput) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		user.Name = name
	}
	if email := normalizeEmail(in.Email); email != "" && email != user.Email {
		if !validEmail(email) {
			return nil, apperr.Validation("invalid email address")
		}
		if other, err := s.users.GetByEmail(ctx, email); err == nil && other.ID != user.ID {
			return nil, apperr.Conflict("email already in use")
		}
		user.Email = email
	}
	if in.Image != "" {
		user.ProfileImage = in.Image
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uint, current, next string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !s.hasher.Compare(user.PasswordHash, current) {
		return apperr.Validation("current password is incorrect")
	}
	if len(next) < minPasswordLength {
		return apperr.Validation(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	hash, err := s.hasher.Hash(next)
	if err != nil {
		return apperr.Internal("failed to change password", err)
	}
	user.PasswordHash = hash
	return s.users.Update(ctx, user)
}

// ListUsers returns every non-admin account.
func (s *AuthService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.users.ListByRoles(ctx, models.RoleUser, models.RoleEmployer)
}

func (s *AuthService) CountUsers(ctx context.Context) (int64, error) {
	return s.users.Count(ctx)
}

// UpdateRole moves a user between "user" and "employer". Demoting an
// employer deletes their company and its postings.
func (s *AuthService) UpdateRole(ctx context.Context, userID uint, role string) (*models.User, error) {
	if role != models.RoleUser && role != models.RoleEmployer {
		return nil, apperr.Validation("role must be user or employer")
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role == models.RoleAdmin {
		return nil, apperr.Forbidden("admin roles cannot be changed")
	}
	if user.Role == role {
		return user, nil
	}

	demote := user.Role == models.RoleEmployer && role == models.RoleUser
	var company *models.Company
	if demote {
		if company, err = s.companies.GetByOwner(ctx, user.ID); err != nil && !apperr.Is(err, apperr.KindNotFound) {
			return nil, err
		}
	}
	if err := s.users.SetRole(ctx, user.ID, role, demote); err != nil {
		return nil, err
	}
	user.Role = role
	s.log.Info("user role changed", slog.Uint64("user_id", uint64(user.ID)), slog.String("role", role))

	if demote {
		msg := "Your employer access has been revoked."
		if company != nil {
			msg = fmt.Sprintf("Your employer access has been revoked and your company %q was removed.", company.Name)
		}
		s.notices.NotifyAndEmail(ctx, user, msg, "Your account role changed", msg)
	} else {
		s.notices.Notify(ctx, user.ID, "You now have employer access.")
	}
	return user, nil
}

// PromoteAdmin is an operator action, not exposed over HTTP.
func (s *AuthService) PromoteAdmin(ctx context.Context, email string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if err := s.users.SetRole(ctx, user.ID, models.RoleAdmin, false); err != nil {
		return nil, err
	}
	user.Role = models.RoleAdmin
	return user, nil
}
