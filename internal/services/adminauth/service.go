package adminauth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	"golang.org/x/crypto/bcrypt"

	"github.com/johnlatif16/king-store-esport/internal/domain/model"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrSessionNotFound    = errors.New("admin session not found")
	ErrInvalidInput       = errors.New("invalid admin session")
	ErrUnavailable        = errors.New("admin auth is unavailable")
)

// dummyHash is compared when the username does not match.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password"), bcrypt.DefaultCost)

type SessionStore interface {
	Create(ctx context.Context, session model.AdminSession) error
	Get(ctx context.Context, sid string) (model.AdminSession, error)
	Delete(ctx context.Context, sid string) error
}

type Config struct {
	Username     string
	PasswordHash string
	TOTPSecret   string
	Secret       string
	TTL          time.Duration
}

type Service struct {
	username     string
	passwordHash []byte
	totpSecret   string
	secret       []byte
	ttl          time.Duration
	sessions     SessionStore
	now          func() time.Time
	configured   bool
}

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	OTP      string `json:"otp,omitempty"`
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
}

type tokenClaims struct {
	SID string `json:"sid"`
	jwt.RegisteredClaims
}

func NewService(cfg Config, sessions SessionStore) *Service {
	secret := strings.TrimSpace(cfg.Secret)
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	hash := strings.TrimSpace(cfg.PasswordHash)
	return &Service{
		username:     strings.TrimSpace(cfg.Username),
		passwordHash: []byte(hash),
		totpSecret:   strings.TrimSpace(cfg.TOTPSecret),
		secret:       []byte(secret),
		ttl:          ttl,
		sessions:     sessions,
		now:          time.Now,
		configured:   secret != "" && hash != "" && sessions != nil,
	}
}

func (s *Service) IsConfigured() bool {
	return s != nil && s.configured
}

func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Login checks the credentials and opens a new session.
func (s *Service) Login(ctx context.Context, in LoginInput) (LoginResult, error) {
	if !s.IsConfigured() {
		return LoginResult{}, ErrUnavailable
	}

	userOK := subtle.ConstantTimeCompare([]byte(strings.TrimSpace(in.Username)), []byte(s.username)) == 1
	hash := s.passwordHash
	if !userOK {
		hash = dummyHash
	}
	passOK := bcrypt.CompareHashAndPassword(hash, []byte(in.Password)) == nil
	if !userOK || !passOK {
		return LoginResult{}, ErrInvalidCredentials
	}
	if s.totpSecret != "" && !s.validOTP(in.OTP) {
		return LoginResult{}, ErrInvalidCredentials
	}

	now := s.now().UTC()
	session := model.AdminSession{
		SID:       uuid.NewString(),
		Username:  s.username,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return LoginResult{}, fmt.Errorf("create admin session: %w", err)
	}

	token, err := s.sign(session)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Token: token, ExpiresAt: session.ExpiresAt}, nil
}

// Authenticate resolves a cookie token into its live session.
func (s *Service) Authenticate(ctx context.Context, token string) (model.AdminSession, error) {
	if !s.IsConfigured() {
		return model.AdminSession{}, ErrUnavailable
	}
	sid, err := s.parse(token)
	if err != nil {
		return model.AdminSession{}, ErrUnauthorized
	}

	session, err := s.sessions.Get(ctx, sid)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return model.AdminSession{}, ErrUnauthorized
		}
		return model.AdminSession{}, fmt.Errorf("load admin session: %w", err)
	}
	if !session.ExpiresAt.After(s.now()) {
		return model.AdminSession{}, ErrUnauthorized
	}
	return session, nil
}

// Logout revokes the session behind token. Unknown tokens are ignored.
func (s *Service) Logout(ctx context.Context, token string) error {
	if !s.IsConfigured() {
		return ErrUnavailable
	}
	sid, err := s.parse(token)
	if err != nil {
		return nil
	}
	if err := s.sessions.Delete(ctx, sid); err != nil {
		return fmt.Errorf("delete admin session: %w", err)
	}
	return nil
}

func (s *Service) validOTP(code string) bool {
	code = strings.TrimSpace(code)
	if code == "" {
		return false
	}
	ok, err := totp.ValidateCustom(code, s.totpSecret, s.now().UTC(), totp.ValidateOpts{
		Period:    30,
		Skew:      1,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	})
	return err == nil && ok
}

func (s *Service) sign(session model.AdminSession) (string, error) {
	claims := tokenClaims{
		SID: session.SID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.Username,
			IssuedAt:  jwt.NewNumericDate(session.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign admin token: %w", err)
	}
	return token, nil
}

func (s *Service) parse(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrUnauthorized
	}
	token, err := jwt.ParseWithClaims(raw, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrUnauthorized
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", ErrUnauthorized
	}
	tc, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid || strings.TrimSpace(tc.SID) == "" {
		return "", ErrUnauthorized
	}
	return strings.TrimSpace(tc.SID), nil
}
