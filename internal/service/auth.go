package service

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/passiton/backend/internal/config"
	"github.com/passiton/backend/internal/model"
	"github.com/passiton/backend/internal/store"
)

const (
	SessionCookieName = "token"
	minPasswordLength = 8
	passwordHashCost  = 10
)

var validate = validator.New()

// dummyHash keeps the unknown-email path as slow as a real comparison.
var dummyHash = mustHash("passiton-timing-equalizer", passwordHashCost)

func mustHash(password string, cost int) []byte {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		panic(fmt.Sprintf("service: hash timing equalizer: %v", err))
	}
	return hash
}

type CookieConfig struct {
	Name     string
	Path     string
	Domain   string
	Secure   bool
	SameSite http.SameSite
	MaxAge   int
}

type AccountStore interface {
	CreateUser(ctx context.Context, u *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
}

type AuthService struct {
	users         AccountStore
	codec         *TokenCodec
	adminEmail    string
	adminPassword string
	cookieCfg     CookieConfig
	log           *slog.Logger
}

func NewAuthService(users AccountStore, codec *TokenCodec, cfg config.AuthConfig, production bool, log *slog.Logger) (*AuthService, error) {
	if codec == nil {
		return nil, fmt.Errorf("%w: token codec is required", ErrMisconfigured)
	}

	sameSite, err := parseSameSite(cfg.CookieSameSite)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid AUTH_COOKIE_SAMESITE", ErrMisconfigured)
	}
	if sameSite == http.SameSiteNoneMode && !production {
		return nil, fmt.Errorf("%w: SameSite=None requires Secure cookie", ErrMisconfigured)
	}
	if log == nil {
		log = slog.Default()
	}

	svc := &AuthService{
		users: users,
		codec: codec,
		cookieCfg: CookieConfig{
			Name:     SessionCookieName,
			Path:     "/",
			Domain:   cfg.CookieDomain,
			Secure:   production,
			SameSite: sameSite,
			MaxAge:   int(SessionTTL.Seconds()),
		},
		log: log,
	}
	if cfg.AdminEmail != "" && cfg.AdminPassword != "" {
		svc.adminEmail = cfg.AdminEmail
		svc.adminPassword = cfg.AdminPassword
	}
	return svc, nil
}

func (s *AuthService) CookieConfig() CookieConfig {
	return s.cookieCfg
}

// Login checks the administrator pair first, then the user store. Every
// failure is ErrUnauthorized so callers cannot tell which part was wrong.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, model.Identity, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", model.Identity{}, ErrUnauthorized
	}

	if s.isAdmin(email, password) {
		id := model.AdminIdentity(s.adminEmail)
		token, err := s.codec.Issue(model.ClaimsFor(id), SessionTTL)
		if err != nil {
			return "", model.Identity{}, err
		}
		s.log.InfoContext(ctx, "administrator logged in")
		return token, id, nil
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if store.IsNotFound(err) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return "", model.Identity{}, ErrUnauthorized
		}
		return "", model.Identity{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", model.Identity{}, ErrUnauthorized
	}

	id := model.UserIdentity(user)
	token, err := s.codec.Issue(model.ClaimsFor(id), SessionTTL)
	if err != nil {
		return "", model.Identity{}, err
	}
	return token, id, nil
}

// isAdmin compares both fields in constant time and always evaluates both.
func (s *AuthService) isAdmin(email, password string) bool {
	if s.adminEmail == "" || s.adminPassword == "" {
		return false
	}
	emailMatch := constantTimeEqual(email, s.adminEmail)
	passwordMatch := constantTimeEqual(password, s.adminPassword)
	return emailMatch&passwordMatch == 1
}

func constantTimeEqual(a, b string) int {
	ha := sha256.Sum256([]byte(a))
	hb := sha256.Sum256([]byte(b))
	return subtle.ConstantTimeCompare(ha[:], hb[:])
}

func (s *AuthService) Signup(ctx context.Context, req model.SignupRequest) (string, *model.User, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.Username = strings.TrimSpace(req.Username)
	req.FullName = strings.TrimSpace(req.FullName)

	if err := validateSignup(req); err != nil {
		return "", nil, err
	}

	if _, err := s.users.GetUserByEmail(ctx, req.Email); err == nil {
		return "", nil, invalid("email", "Email already registered")
	} else if !store.IsNotFound(err) {
		return "", nil, err
	}
	if _, err := s.users.GetUserByUsername(ctx, req.Username); err == nil {
		return "", nil, invalid("username", "Username already taken")
	} else if !store.IsNotFound(err) {
		return "", nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), passwordHashCost)
	if err != nil {
		return "", nil, err
	}

	user := &model.User{
		Email:        req.Email,
		Username:     req.Username,
		FullName:     req.FullName,
		PasswordHash: string(hash),
		CollegeIDURL: strings.TrimSpace(req.CollegeIDURL),
		CollegeName:  strings.TrimSpace(req.CollegeName),
		Mobile:       strings.TrimSpace(req.Mobile),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return "", nil, invalid("email", "Email or username already registered")
		}
		return "", nil, err
	}

	token, err := s.codec.Issue(model.ClaimsFor(model.UserIdentity(user)), SessionTTL)
	if err != nil {
		return "", nil, err
	}
	s.log.InfoContext(ctx, "user signed up", slog.String("user_id", user.ID))
	return token, user, nil
}

func validateSignup(req model.SignupRequest) error {
	if req.Email == "" || req.Password == "" || req.Username == "" || req.FullName == "" {
		return invalid("", "All fields are required")
	}
	if err := validate.Var(req.Email, "email"); err != nil {
		return invalid("email", "Invalid email format")
	}
	if len(req.Password) < minPasswordLength {
		return invalid("password", "Password must be at least 8 characters long")
	}
	return nil
}

func parseSameSite(value string) (http.SameSite, error) {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return http.SameSiteLaxMode, nil
	}
	switch value {
	case "lax":
		return http.SameSiteLaxMode, nil
	case "strict":
		return http.SameSiteStrictMode, nil
	case "none":
		return http.SameSiteNoneMode, nil
	default:
		return 0, ErrInvalidInput
	}
}
