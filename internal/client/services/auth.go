package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/snapgram/internal/client/client"
	"github.com/dmitrijs2005/snapgram/internal/common"
	"github.com/dmitrijs2005/snapgram/internal/cryptox"
	"github.com/dmitrijs2005/snapgram/internal/logging"
	"github.com/dmitrijs2005/snapgram/internal/models"
	"github.com/go-playground/validator/v10"
)

// SignupInput is what the signup prompt collects.
type SignupInput struct {
	Email       string `validate:"required,email"`
	Password    string `validate:"required,min=6"`
	UserName    string `validate:"required,max=64"`
	FirstName   string `validate:"required,max=128"`
	LastName    string `validate:"required,max=128"`
	PhoneNumber string `validate:"required,max=32"`
}

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Signup: validate the input and create the account; it does not sign in.
//   - Login: verify credentials and persist the session.
//   - Logout: drop the session.
//   - CurrentUserID / RequireUser: read the session fresh.
//   - Ping: check gateway liveness.
type AuthService interface {
	Signup(ctx context.Context, in SignupInput) (*models.User, error)
	Login(ctx context.Context, email string, password []byte) (*models.User, error)
	Logout(ctx context.Context) error
	CurrentUserID(ctx context.Context) (int64, bool, error)
	RequireUser(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type authService struct {
	client   client.Client
	sessions SessionStore
	validate *validator.Validate
	log      logging.Logger
}

func NewAuthService(c client.Client, sessions SessionStore, log logging.Logger) AuthService {
	return &authService{
		client:   c,
		sessions: sessions,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log,
	}
}

func (a *authService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.UserName = strings.TrimSpace(in.UserName)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)

	if err := a.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %s", common.ErrorValidation, describeValidation(err))
	}

	pw := []byte(in.Password)
	hash := cryptox.HashPassword(pw)
	common.WipeByteArray(pw)

	u, err := a.client.CreateUser(ctx, &models.User{
		Email:        in.Email,
		PasswordHash: hash,
		UserName:     in.UserName,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PhoneNumber:  in.PhoneNumber,
	})
	if err != nil {
		return nil, err
	}
	a.log.Info(ctx, "user signed up", "user_id", u.ID)
	return u, nil
}

// describeValidation turns validator errors into "field: rule" pairs.
func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		parts = append(parts, strings.ToLower(fe.Field())+": "+rule)
	}
	return strings.Join(parts, ", ")
}

// Login never reveals whether the email or the password was wrong.
func (a *authService) Login(ctx context.Context, email string, password []byte) (*models.User, error) {
	defer common.WipeByteArray(password)

	email = strings.TrimSpace(email)
	if email == "" || len(password) == 0 {
		return nil, common.ErrorInvalidCredentials
	}

	u, err := a.client.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorInvalidCredentials
		}
		return nil, err
	}

	ok, err := cryptox.VerifyPassword(u.PasswordHash, password)
	if err != nil {
		a.log.Error(ctx, "stored password hash unreadable", "user_id", u.ID, "error", err.Error())
		return nil, common.ErrorInvalidCredentials
	}
	if !ok {
		return nil, common.ErrorInvalidCredentials
	}

	if err := a.sessions.Set(ctx, u.ID); err != nil {
		return nil, fmt.Errorf("session save error: %w", err)
	}
	a.log.Info(ctx, "user logged in", "user_id", u.ID)
	return u, nil
}

func (a *authService) Logout(ctx context.Context) error {
	return a.sessions.Clear(ctx)
}

func (a *authService) CurrentUserID(ctx context.Context) (int64, bool, error) {
	return a.sessions.Get(ctx)
}

func (a *authService) RequireUser(ctx context.Context) (int64, error) {
	id, ok, err := a.sessions.Get(ctx)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, common.ErrorNotAuthenticated
	}
	return id, nil
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}
