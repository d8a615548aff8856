package service

import (
	"context"
	"errors"

	apperrors "github.com/louisbranch/xplorehub/internal/platform/errors"
	"github.com/louisbranch/xplorehub/internal/services/api/account"
	"github.com/louisbranch/xplorehub/internal/services/api/authtoken"
	"github.com/louisbranch/xplorehub/internal/services/api/storage"
)

// Session is an authenticated user with a fresh access token.
type Session struct {
	User        account.User
	AccessToken string
	Claims      authtoken.Claims
}

var errEmailTaken = apperrors.New(apperrors.CodeAccountEmailTaken, "email already registered")

// Register creates a USER account and signs it in.
func (s *Service) Register(ctx context.Context, input account.RegisterInput) (Session, error) {
	user, err := account.Create(input, false, s.clock, s.newID)
	if err != nil {
		return Session{}, err
	}
	if err := s.store.PutUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return Session{}, errEmailTaken
		}
		return Session{}, internal("register", err)
	}
	return s.session(user)
}

// ProvisionUser creates an account of any role for operator tooling. An
// existing account with the same email is returned unchanged with created
// set to false.
func (s *Service) ProvisionUser(ctx context.Context, input account.RegisterInput) (user account.User, created bool, err error) {
	user, err = account.Create(input, true, s.clock, s.newID)
	if err != nil {
		return account.User{}, false, err
	}
	existing, err := s.store.GetUserByEmail(ctx, user.Email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return account.User{}, false, internal("provision user", err)
	}
	if err := s.store.PutUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			existing, err := s.store.GetUserByEmail(ctx, user.Email)
			if err != nil {
				return account.User{}, false, internal("provision user", err)
			}
			return existing, false, nil
		}
		return account.User{}, false, internal("provision user", err)
	}
	return user, true, nil
}

// Login checks credentials. Unknown emails and wrong passwords fail alike.
func (s *Service) Login(ctx context.Context, input account.LoginInput) (Session, error) {
	email, err := account.NormalizeEmail(input.Email)
	if err != nil {
		return Session{}, account.ErrInvalidCredentials
	}
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Session{}, account.ErrInvalidCredentials
		}
		return Session{}, internal("login", err)
	}
	if err := account.CheckPassword(user, input.Password); err != nil {
		return Session{}, err
	}
	return s.session(user)
}

// Me returns the actor's account.
func (s *Service) Me(ctx context.Context, actor Actor) (account.User, error) {
	if err := actor.require(); err != nil {
		return account.User{}, err
	}
	user, err := s.store.GetUser(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return account.User{}, apperrors.New(apperrors.CodeUnauthenticated, "account no longer exists")
		}
		return account.User{}, internal("me", err)
	}
	return user, nil
}

// Authenticate resolves a bearer token into an Actor.
func (s *Service) Authenticate(token string) (Actor, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return Actor{}, err
	}
	return Actor{UserID: claims.UserID, Role: claims.Role}, nil
}

func (s *Service) session(user account.User) (Session, error) {
	token, claims, err := s.tokens.Issue(user)
	if err != nil {
		return Session{}, internal("issue token", err)
	}
	return Session{User: user, AccessToken: token, Claims: claims}, nil
}
