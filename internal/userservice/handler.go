package userservice

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/sushihentaime/inkwell/internal/common"
)

var (
	ErrAuthenticationFailure = errors.New("incorrect password")
	ErrFederatedAccount      = errors.New("account was created using google, try logging in with google")
	ErrPasswordAccount       = errors.New("this email was signed up without google, please log in with password to access the account")
)

func NewUserService(cfg Config) *UserService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &UserService{
		tokens:             cfg.Tokens,
		verifier:           cfg.Verifier,
		logger:             logger,
		linkGoogleAccounts: cfg.LinkGoogleAccounts,
	}

	// keep the interfaces nil when nothing was wired so the nil checks below hold
	if cfg.Model != nil {
		s.m = cfg.Model
	}
	if cfg.Broker != nil {
		s.mb = cfg.Broker
	}

	return s
}

// Signup validates the input, creates a password account and signs the new user in.
func (s *UserService) Signup(ctx context.Context, fullname, email, password string) (*Session, error) {
	email = strings.ToLower(email)

	v := common.NewValidator()
	validateFullname(v, fullname)
	validateEmail(v, email)
	validatePassword(v, password)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	_, err := s.m.getByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, ErrDuplicateEmail
	case !errors.Is(err, ErrNotFound):
		return nil, err
	}

	u := User{
		ID: uuid.New(),
		PersonalInfo: PersonalInfo{
			Fullname:   fullname,
			Email:      email,
			ProfileImg: defaultProfileImg(fullname),
		},
	}

	if err := u.PersonalInfo.Password.set(password); err != nil {
		return nil, err
	}

	if err := s.createUser(ctx, &u); err != nil {
		return nil, err
	}

	return s.session(&u)
}

// Signin checks email and password against the stored credentials.
func (s *UserService) Signin(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.m.getByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, err
	}

	if !u.PersonalInfo.Password.isSet() {
		return nil, ErrFederatedAccount
	}

	ok, err := u.PersonalInfo.Password.compare(password)
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, ErrAuthenticationFailure
	}

	return s.session(u)
}

// GoogleAuth signs in with a Google ID token, creating a federated account on first use.
func (s *UserService) GoogleAuth(ctx context.Context, idToken string) (*Session, error) {
	profile, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		return nil, err
	}

	email := strings.ToLower(profile.Email)

	u, err := s.m.getByEmail(ctx, email)
	switch {
	case err == nil:
		if !u.GoogleAuth && !s.linkGoogleAccounts {
			return nil, ErrPasswordAccount
		}
		return s.session(u)
	case !errors.Is(err, ErrNotFound):
		return nil, err
	}

	fullname := profile.Name
	if fullname == "" {
		fullname, _, _ = strings.Cut(email, "@")
	}

	img := profile.Picture
	if img == "" {
		img = defaultProfileImg(fullname)
	}

	u = &User{
		ID: uuid.New(),
		PersonalInfo: PersonalInfo{
			Fullname:   fullname,
			Email:      email,
			ProfileImg: img,
		},
		GoogleAuth: true,
	}

	if err := s.createUser(ctx, u); err != nil {
		return nil, err
	}

	return s.session(u)
}

// Authenticate resolves a bearer token to the id of the user it was issued for.
func (s *UserService) Authenticate(token string) (uuid.UUID, error) {
	return s.tokens.Verify(token)
}

func (s *UserService) createUser(ctx context.Context, u *User) error {
	username, err := s.generateUsername(ctx, u.PersonalInfo.Email)
	if err != nil {
		return err
	}
	u.PersonalInfo.Username = username

	if err := s.m.insert(ctx, u); err != nil {
		return err
	}

	s.publishUserCreated(ctx, u)

	return nil
}

// publishUserCreated announces the new account. A broker failure never fails the signup.
func (s *UserService) publishUserCreated(ctx context.Context, u *User) {
	if s.mb == nil {
		return
	}

	data, err := json.Marshal(common.UserCreatedEvent{
		Email:    u.PersonalInfo.Email,
		Fullname: u.PersonalInfo.Fullname,
		Username: u.PersonalInfo.Username,
	})
	if err != nil {
		s.logger.Error("could not encode user created event", slog.String("error", err.Error()))
		return
	}

	if err := s.mb.Publish(ctx, data, common.UserCreatedKey, common.UserExchange); err != nil {
		s.logger.Warn("could not publish user created event", slog.String("user_id", u.ID.String()), slog.String("error", err.Error()))
	}
}

func (s *UserService) session(u *User) (*Session, error) {
	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, err
	}

	return &Session{
		ProfileImg:  u.PersonalInfo.ProfileImg,
		Username:    u.PersonalInfo.Username,
		Fullname:    u.PersonalInfo.Fullname,
		AccessToken: token,
	}, nil
}
