package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"kirana/internal/models"
	"kirana/internal/repositories"
	"kirana/internal/store"

	"github.com/dgrijalva/jwt-go"
	"github.com/rs/zerolog"
)

// AuthService handles signup, login and session tokens.
type AuthService struct {
	store     *store.RecordStore
	jwtSecret []byte
	tokenTTL  time.Duration // Duration for which a session token is valid
	log       zerolog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(st *store.RecordStore, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		store:     st,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		log:       log,
	}
}

// SignupInput is the request body for account creation.
type SignupInput struct {
	Name     string      `json:"name" validate:"required"`
	Email    string      `json:"email" validate:"required"`
	Password string      `json:"password" validate:"required,min=6"`
	Role     models.Role `json:"role" validate:"required,oneof=customer shopkeeper"`
}

// LoginInput is the request body for login.
type LoginInput struct {
	Email    string      `json:"email" validate:"required"`
	Password string      `json:"password" validate:"required"`
	Role     models.Role `json:"role" validate:"required,oneof=customer shopkeeper"`
}

func (in *SignupInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Password = strings.TrimSpace(in.Password)
}

func (in *LoginInput) normalize() {
	in.Email = strings.TrimSpace(in.Email)
	in.Password = strings.TrimSpace(in.Password)
}

// CreateUser registers a new account. An email may be registered once per role.
func (s *AuthService) CreateUser(ctx context.Context, in SignupInput) (*models.User, error) {
	in.normalize()
	if err := validateInput(in, "Please fill all fields.",
		fieldMessage{field: "Password", tag: "min", message: "Password must be at least 6 characters."},
		fieldMessage{field: "Role", tag: "oneof", message: "Choose customer or shopkeeper."},
	); err != nil {
		return nil, err
	}

	user := models.NewUser("", in.Name, in.Email, in.Password, in.Role)
	err := s.store.Update(ctx, func(tx store.Accessor) error {
		users := repositories.NewUserRepository(tx)
		existing, err := users.FindByEmailAndRole(ctx, in.Email, in.Role)
		if err == nil && existing != nil {
			return fmt.Errorf("email '%s' already registered as %s: %w", in.Email, in.Role, models.ErrDuplicateAccount)
		}
		if err != nil && !errors.Is(err, models.ErrNotFound) {
			return err
		}
		return users.Create(ctx, &user)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("account created")
	return &user, nil
}

// Authenticate matches the email, password and role triple and opens a session.
func (s *AuthService) Authenticate(ctx context.Context, in LoginInput) (models.Session, *models.User, error) {
	in.normalize()
	if err := validateInput(in, "Please fill all fields."); err != nil {
		return models.Session{}, nil, err
	}

	user, err := repositories.NewUserRepository(s.store).FindByCredentials(ctx, in.Email, in.Password, in.Role)
	if err != nil {
		return models.Session{}, nil, err
	}
	return models.Session{UserID: user.ID, Role: user.Role}, user, nil
}

// Login authenticates and returns a signed session token.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (string, *models.User, error) {
	sess, user, err := s.Authenticate(ctx, in)
	if err != nil {
		return "", nil, err
	}
	token, err := s.IssueToken(sess)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// IssueToken signs sess into an HS256 token.
func (s *AuthService) IssueToken(sess models.Session) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": sess.UserID,
		"role":    string(sess.Role),
		"exp":     time.Now().Add(s.tokenTTL).Unix(),
		"iat":     time.Now().Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses a session token and returns the session it carries.
func (s *AuthService) ValidateToken(tokenString string) (models.Session, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		s.log.Debug().Err(err).Msg("token validation failed")
		return models.Session{}, fmt.Errorf("invalid token: %v: %w", err, models.ErrAuthentication)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return models.Session{}, fmt.Errorf("invalid token: %w", models.ErrAuthentication)
	}
	userID, _ := claims["user_id"].(string)
	role, _ := claims["role"].(string)
	if userID == "" || !models.Role(role).Valid() {
		return models.Session{}, fmt.Errorf("invalid token: missing session claims: %w", models.ErrAuthentication)
	}
	return models.Session{UserID: userID, Role: models.Role(role)}, nil
}
