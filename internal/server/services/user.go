// Package services holds the credential service: registration, login and the
// operations a verified caller may perform on their own record.
package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/promptkeeper/internal/common"
	"github.com/dmitrijs2005/promptkeeper/internal/logging"
	"github.com/dmitrijs2005/promptkeeper/internal/server/auth"
	"github.com/dmitrijs2005/promptkeeper/internal/server/models"
	"github.com/dmitrijs2005/promptkeeper/internal/server/repositories/users"
)

const (
	MinPasswordLength = 6

	// MaxPasswordBytes is the longest input bcrypt accepts.
	MaxPasswordBytes = 72
)

const (
	msgSignupMissing    = "Please fill all the required fields properly"
	msgPasswordMismatch = "Password and Confirm Password didn't match, please try again"
	msgPasswordTooShort = "Password must be at least 6 characters long"
	msgPasswordTooLong  = "Password must be at most 72 bytes long"
	msgInvalidEmail     = "Please provide a valid email address"
	msgUserExists       = "User already exists"
	msgSignupFailed     = "User cannot be registered, please try again"
	msgLoginMissing     = "All fields are required, please try again"
	msgNotRegistered    = "User is not registered, please signup first"
	msgInvalidPassword  = "Invalid Password"
	msgLoginInternal    = "Internal server error, please try again"
	msgDetailsNotFound  = "User details can't be fetched"
	msgInternal         = "Internal Server Error"
	msgEditMissing      = "All fields are required"
	msgUpdateFailed     = "Unable to update changes"
)

// TokenIssuer mints a session token for a verified identity.
type TokenIssuer interface {
	Issue(id auth.Identity) (string, error)
}

// RegisterInput is the signup form.
type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

type UserService struct {
	users  users.Repository
	hasher auth.Hasher
	tokens TokenIssuer
	log    logging.Logger
}

func NewUserService(repo users.Repository, hasher auth.Hasher, tokens TokenIssuer, log logging.Logger) *UserService {
	return &UserService{
		users:  repo,
		hasher: hasher,
		tokens: tokens,
		log:    log.With("module", "services.user"),
	}
}

// Register validates the form, creates the record and issues a session token
// for it. The duplicate-email check is repeated by the store's unique index.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	name := models.NormalizeName(in.Name)
	email := models.NormalizeEmail(in.Email)

	if name == "" || email == "" || in.Password == "" || in.ConfirmPassword == "" {
		return nil, "", common.Invalid(common.ReasonMissingFields, msgSignupMissing)
	}
	if in.Password != in.ConfirmPassword {
		return nil, "", common.Invalid(common.ReasonPasswordMismatch, msgPasswordMismatch)
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, "", err
	}
	if !validEmail(email) {
		return nil, "", common.Invalid(common.ReasonInvalidField, msgInvalidEmail)
	}

	_, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, "", common.NewError(common.KindConflict, msgUserExists)
	case !errors.Is(err, common.ErrorNotFound):
		s.log.Error(ctx, "lookup before signup failed", "error", err)
		return nil, "", common.WrapError(common.KindInternal, msgSignupFailed, err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		s.log.Error(ctx, "password hashing failed", "error", err)
		return nil, "", common.WrapError(common.KindInternal, msgSignupFailed, err)
	}

	user, err := s.users.Create(ctx, &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Prompts:      []string{},
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, "", common.WrapError(common.KindConflict, msgUserExists, err)
		}
		s.log.Error(ctx, "create user failed", "error", err)
		return nil, "", common.WrapError(common.KindInternal, msgSignupFailed, err)
	}

	token, err := s.tokens.Issue(auth.Identity{ID: user.ID, Email: user.Email})
	if err != nil {
		s.log.Error(ctx, "issue token failed", "user_id", user.ID, "error", err)
		return nil, "", common.WrapError(common.KindInternal, msgSignupFailed, err)
	}

	s.log.Info(ctx, "user registered", "user_id", user.ID)
	return user, token, nil
}

// Authenticate checks email and password and issues a fresh session token.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, string, error) {
	email = models.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", common.Invalid(common.ReasonMissingFields, msgLoginMissing)
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, "", common.NewError(common.KindNotFound, msgNotRegistered)
		}
		s.log.Error(ctx, "lookup for login failed", "error", err)
		return nil, "", common.WrapError(common.KindInternal, msgLoginInternal, err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		s.log.Error(ctx, "password verification failed", "user_id", user.ID, "error", err)
		return nil, "", common.WrapError(common.KindInternal, msgLoginInternal, err)
	}
	if !ok {
		return nil, "", common.NewError(common.KindUnauthorized, msgInvalidPassword)
	}

	token, err := s.tokens.Issue(auth.Identity{ID: user.ID, Email: user.Email})
	if err != nil {
		s.log.Error(ctx, "issue token failed", "user_id", user.ID, "error", err)
		return nil, "", common.WrapError(common.KindInternal, msgLoginInternal, err)
	}

	return user, token, nil
}

// GetDetails returns the caller's own record.
func (s *UserService) GetDetails(ctx context.Context, id auth.Identity) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, id.ID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.WrapError(common.KindNotFound, msgDetailsNotFound, err)
		}
		s.log.Error(ctx, "get user failed", "user_id", id.ID, "error", err)
		return nil, common.WrapError(common.KindInternal, msgInternal, err)
	}
	return user, nil
}

// EditName replaces the caller's display name and returns the updated record.
func (s *UserService) EditName(ctx context.Context, id auth.Identity, name string) (*models.User, error) {
	name = models.NormalizeName(name)
	if name == "" {
		return nil, common.Invalid(common.ReasonMissingFields, msgEditMissing)
	}

	user, err := s.users.UpdateName(ctx, id.ID, name)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.Invalid(common.ReasonUpdateFailed, msgUpdateFailed)
		}
		s.log.Error(ctx, "update name failed", "user_id", id.ID, "error", err)
		return nil, common.WrapError(common.KindInternal, msgInternal, err)
	}

	s.log.Info(ctx, "user renamed", "user_id", user.ID)
	return user, nil
}

func validatePassword(p string) error {
	if utf8.RuneCountInString(p) < MinPasswordLength {
		return common.Invalid(common.ReasonInvalidField, msgPasswordTooShort)
	}
	if len(p) > MaxPasswordBytes {
		return common.Invalid(common.ReasonInvalidField, msgPasswordTooLong)
	}
	return nil
}

// validEmail accepts local@domain with both parts non-empty and no spaces.
func validEmail(email string) bool {
	i := strings.LastIndexByte(email, '@')
	if i <= 0 || i == len(email)-1 {
		return false
	}
	return !strings.ContainsAny(email, " \t\r\n")
}
