// Package account models xplorehub users and their credentials.
package account

import (
	"errors"
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/louisbranch/xplorehub/internal/platform/errors"
	"github.com/louisbranch/xplorehub/internal/platform/id"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 6

// Role is the authorization role of a user.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

var (
	// ErrNameEmpty indicates a missing display name.
	ErrNameEmpty = apperrors.New(apperrors.CodeAccountNameEmpty, "name is required")
	// ErrEmailInvalid indicates a malformed email address.
	ErrEmailInvalid = apperrors.New(apperrors.CodeAccountEmailInvalid, "email is invalid")
	// ErrPasswordTooShort indicates a password under MinPasswordLength.
	ErrPasswordTooShort = apperrors.WithMetadata(apperrors.CodeAccountPasswordTooShort, "password is too short",
		map[string]string{"MinLength": strconv.Itoa(MinPasswordLength)})
	// ErrRoleInvalid indicates an unknown role name.
	ErrRoleInvalid = apperrors.New(apperrors.CodeAccountRoleInvalid, "role is invalid")
	// ErrInvalidCredentials is returned for both unknown emails and wrong passwords.
	ErrInvalidCredentials = apperrors.New(apperrors.CodeAccountInvalidCredentials, "invalid credentials")
)

// bcryptCost is lowered by tests.
var bcryptCost = bcrypt.DefaultCost

// User is a registered account.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin reports whether the user holds the ADMIN role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// RegisterInput describes a self-service sign up.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// LoginInput describes a credential check.
type LoginInput struct {
	Email    string
	Password string
}

// ParseRole converts a role name, defaulting empty input to USER.
func ParseRole(value string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(value))) {
	case "", RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", ErrRoleInvalid
	}
}

// NormalizeEmail lower-cases and trims an address and validates its shape.
func NormalizeEmail(value string) (string, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return "", ErrEmailInvalid
	}
	parsed, err := mail.ParseAddress(value)
	if err != nil || parsed.Address != value || !strings.Contains(value[strings.LastIndex(value, "@")+1:], ".") {
		return "", ErrEmailInvalid
	}
	return value, nil
}

// NormalizeRegisterInput trims and validates a registration. allowAdmin
// gates the ADMIN role, which self-service sign up never grants.
func NormalizeRegisterInput(input RegisterInput, allowAdmin bool) (RegisterInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return RegisterInput{}, ErrNameEmpty
	}
	email, err := NormalizeEmail(input.Email)
	if err != nil {
		return RegisterInput{}, err
	}
	input.Email = email
	if len(input.Password) < MinPasswordLength {
		return RegisterInput{}, ErrPasswordTooShort
	}
	role, err := ParseRole(input.Role)
	if err != nil {
		return RegisterInput{}, err
	}
	if role == RoleAdmin && !allowAdmin {
		return RegisterInput{}, apperrors.WithMetadata(apperrors.CodeAccountRoleNotAllowed,
			"self registration as admin", map[string]string{"Role": string(role)})
	}
	input.Role = string(role)
	return input, nil
}

// Create builds a new user with a hashed password from validated input.
func Create(input RegisterInput, allowAdmin bool, now func() time.Time, idGenerator func() (string, error)) (User, error) {
	if now == nil {
		now = time.Now
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}
	normalized, err := NormalizeRegisterInput(input, allowAdmin)
	if err != nil {
		return User{}, err
	}
	hash, err := HashPassword(normalized.Password)
	if err != nil {
		return User{}, err
	}
	userID, err := idGenerator()
	if err != nil {
		return User{}, fmt.Errorf("generate user id: %w", err)
	}
	createdAt := now().UTC()
	return User{
		ID:           userID,
		Name:         normalized.Name,
		Email:        normalized.Email,
		PasswordHash: hash,
		Role:         Role(normalized.Role),
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}, nil
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares password with the stored hash.
func CheckPassword(user User, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrInvalidCredentials
	}
	return apperrors.Wrap(apperrors.CodeAccountInvalidCredentials, "compare password", err)
}
