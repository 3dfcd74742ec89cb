package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"resort-backend/models"
	"resort-backend/repository"
)

const minPasswordLength = 6

// Accounts are also created outside HTTP (admin seeding), so the email rule is
// checked here as well as in the request binding.
var validate = validator.New()

// PasswordHasher turns a plaintext password into a digest and checks candidates against it.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
}

type BcryptHasher struct {
	Cost int
}

func (h BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (h BcryptHasher) Verify(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}

type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
	IsAdmin  bool
}

// CredentialService owns user records and their password digests. Digests are
// produced only by Create and ChangePassword; no other write touches them.
type CredentialService struct {
	users  repository.UserRepository
	hasher PasswordHasher
}

func NewCredentialService(users repository.UserRepository, hasher PasswordHasher) *CredentialService {
	return &CredentialService{users: users, hasher: hasher}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *CredentialService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrNotFound, "User not found")
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

func (s *CredentialService) FindByID(ctx context.Context, id uint) (*models.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrNotFound, "User not found")
		}
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}
	return u, nil
}

func (s *CredentialService) VerifyPassword(user *models.User, candidate string) bool {
	if user == nil || user.Password == "" {
		return false
	}
	return s.hasher.Verify(candidate, user.Password)
}

func (s *CredentialService) Create(ctx context.Context, in RegisterInput) (*models.User, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	phone := strings.TrimSpace(in.Phone)

	if name == "" || email == "" || phone == "" || in.Password == "" {
		return nil, newError(ErrValidation, "Name, email, phone and password are required")
	}
	if validate.Var(email, "email") != nil {
		return nil, newError(ErrValidation, "Invalid email")
	}
	if len(in.Password) < minPasswordLength {
		return nil, newError(ErrValidation, "Password must be at least %d characters", minPasswordLength)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	digest, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Name:     name,
		Email:    email,
		Phone:    phone,
		Password: digest,
		IsAdmin:  in.IsAdmin,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Authenticate checks email and password for an account holding role.
// Unknown email, wrong role and wrong password are reported identically.
func (s *CredentialService) Authenticate(ctx context.Context, email, password string, role models.Role) (*models.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, newError(ErrValidation, "Missing credentials")
	}

	invalid := newError(ErrUnauthenticated, "Invalid email or password")

	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, invalid
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	if user.Role() != role || !s.VerifyPassword(user, password) {
		return nil, invalid
	}
	return user, nil
}

func (s *CredentialService) ChangePassword(ctx context.Context, userID uint, current, next string) error {
	user, err := s.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !s.VerifyPassword(user, current) {
		return newError(ErrValidation, "Current password is incorrect")
	}
	if len(next) < minPasswordLength {
		return newError(ErrValidation, "Password must be at least %d characters", minPasswordLength)
	}

	digest, err := s.hasher.Hash(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, userID, digest); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (s *CredentialService) ListUsers(ctx context.Context, search string) ([]models.User, int64, error) {
	users, total, err := s.users.List(ctx, repository.UserFilter{Search: search})
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

// EnsureAdmin creates an admin account unless one already exists.
// Returns true when an account was created.
func (s *CredentialService) EnsureAdmin(ctx context.Context, name, email, password string) (bool, error) {
	exists, err := s.users.HasAdmin(ctx)
	if err != nil {
		return false, fmt.Errorf("check admin: %w", err)
	}
	if exists {
		return false, nil
	}
	if strings.TrimSpace(name) == "" {
		name = "Admin"
	}
	if _, err := s.Create(ctx, RegisterInput{
		Name:     name,
		Email:    email,
		Phone:    "-",
		Password: password,
		IsAdmin:  true,
	}); err != nil {
		return false, err
	}
	return true, nil
}
