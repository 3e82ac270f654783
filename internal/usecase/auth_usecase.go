package usecase

import (
	"context"
	"errors"

	"skillproof/internal/domain/user"
	"skillproof/internal/pkg/token"
	ucauth "skillproof/internal/usecase/auth"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrInternal     = errors.New("internal error")
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
)

type AuthUsecase interface {
	Register(ctx context.Context, in ucauth.RegisterInput) (user.User, error)
	Login(ctx context.Context, in ucauth.LoginInput) (user.User, string, error)
	FederatedLogin(ctx context.Context, id ucauth.FederatedIdentity) (user.User, string, error)
}

type Auth struct {
	authSvc *ucauth.Service
	tokens  token.Service
}

func NewAuthUsecase(users user.Repository, tokens token.Service) *Auth {
	return &Auth{authSvc: ucauth.NewService(users), tokens: tokens}
}

// Register creates the account but deliberately issues no session. The
// original flow sends freshly registered users through sign-in.
func (u *Auth) Register(ctx context.Context, in ucauth.RegisterInput) (user.User, error) {
	return u.authSvc.Register(ctx, in)
}

func (u *Auth) Login(ctx context.Context, in ucauth.LoginInput) (user.User, string, error) {
	usr, err := u.authSvc.Login(ctx, in)
	if err != nil {
		return user.User{}, "", err
	}
	return u.issue(usr)
}

func (u *Auth) FederatedLogin(ctx context.Context, id ucauth.FederatedIdentity) (user.User, string, error) {
	usr, err := u.authSvc.ProvisionFederated(ctx, id)
	if err != nil {
		return user.User{}, "", err
	}
	return u.issue(usr)
}

func (u *Auth) issue(usr user.User) (user.User, string, error) {
	tok, err := u.tokens.Issue(usr.ID, usr.Role)
	if err != nil {
		return user.User{}, "", ErrInternal
	}
	return usr, tok, nil
}
