// Package services contains the application services behind the CLI:
// authentication and registration, the news feed, communities,
// notifications and the user's profile. Inputs are validated before any
// network call.
package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/hexsocial/internal/client/api"
	"github.com/dmitrijs2005/hexsocial/internal/client/session"
	"github.com/dmitrijs2005/hexsocial/internal/common"
	"github.com/dmitrijs2005/hexsocial/internal/logging"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - SendOTP, VerifyOTP, SetCredentials: the three registration steps.
//   - Login: authenticate and store the tokens, durable when remember is set.
//   - Logout: forget the tokens in both tiers.
//   - WhoAmI: role from the stored token plus the server-side profile.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	SendOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, code string) error
	SetCredentials(ctx context.Context, in Credentials) error
	Login(ctx context.Context, in LoginInput) (LoginResult, error)
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) (Identity, error)
}

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=30"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type LoginInput struct {
	Login    string `json:"email_or_username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Remember bool   `json:"remember"`
}

type LoginResult struct {
	Role string
	Tier session.Tier
	User *api.User
}

type Identity struct {
	Role    string
	Profile api.Profile
}

type authService struct {
	api    AuthAPI
	tokens Tokens
	log    logging.Logger
}

func NewAuthService(client AuthAPI, tokens Tokens, log logging.Logger) AuthService {
	if log == nil {
		log = logging.Discard()
	}
	return &authService{api: client, tokens: tokens, log: log}
}

func (a *authService) SendOTP(ctx context.Context, email string) error {
	if err := validateInput(struct {
		Email string `json:"email" validate:"required,email"`
	}{email}); err != nil {
		return err
	}
	if _, err := a.api.SendOTP(ctx, email); err != nil {
		return fmt.Errorf("send otp: %w", err)
	}
	return nil
}

func (a *authService) VerifyOTP(ctx context.Context, email, code string) error {
	if err := validateInput(struct {
		Email string `json:"email" validate:"required,email"`
		Code  string `json:"code" validate:"required,numeric,min=4,max=8"`
	}{email, code}); err != nil {
		return err
	}
	if _, err := a.api.VerifyOTP(ctx, email, code); err != nil {
		return fmt.Errorf("verify otp: %w", err)
	}
	return nil
}

func (a *authService) SetCredentials(ctx context.Context, in Credentials) error {
	if err := validateInput(in); err != nil {
		return err
	}
	if _, err := a.api.SetCredentials(ctx, in.Email, in.Username, in.Password); err != nil {
		return fmt.Errorf("set credentials: %w", err)
	}
	return nil
}

// Login stores the issued pair in the durable tier when in.Remember is
// set and in the session tier otherwise.
func (a *authService) Login(ctx context.Context, in LoginInput) (LoginResult, error) {
	if err := validateInput(in); err != nil {
		return LoginResult{}, err
	}

	resp, err := a.api.Login(ctx, in.Login, in.Password)
	if err != nil {
		return LoginResult{}, fmt.Errorf("login error: %w", err)
	}

	pair := resp.Pair()
	if pair.Access == "" {
		return LoginResult{}, fmt.Errorf("login error: %w", common.ErrNoAccessToken)
	}

	tier := session.TierFor(in.Remember)
	if err := a.tokens.StoreTokens(ctx, session.Tokens{
		AccessToken:  pair.Access,
		RefreshToken: pair.Refresh,
		Tier:         tier,
	}); err != nil {
		return LoginResult{}, fmt.Errorf("token saving error: %w", err)
	}

	role, ok := a.tokens.RoleFromToken(ctx, pair.Access)
	if !ok && resp.User != nil && resp.User.Role != "" {
		role = resp.User.Role
	}
	if role == "" {
		role = common.RoleUser
	}

	a.log.Info(ctx, "logged in", "tier", tier, "role", role)
	return LoginResult{Role: role, Tier: tier, User: resp.User}, nil
}

func (a *authService) Logout(ctx context.Context) error {
	if err := a.tokens.Clear(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	a.log.Info(ctx, "logged out")
	return nil
}

func (a *authService) WhoAmI(ctx context.Context) (Identity, error) {
	token, ok := a.tokens.AccessToken(ctx)
	if !ok {
		return Identity{}, common.ErrUnauthorized
	}

	role, ok := a.tokens.RoleFromToken(ctx, token)
	if !ok {
		role = common.RoleUser
	}

	profile, err := a.api.CurrentProfile(ctx)
	if err != nil {
		return Identity{}, fmt.Errorf("get profile: %w", err)
	}
	return Identity{Role: role, Profile: profile}, nil
}
