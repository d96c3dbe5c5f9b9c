package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"
	"reviewhub/internal/config"
	"reviewhub/internal/middleware/auth"
)

// Claims is the access token payload.
type Claims struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	Superuser bool   `json:"superuser,omitempty"`
	jwt.RegisteredClaims
}

type AuthService interface {
	// Signup registers a user or re-issues a confirmation code for an
	// existing (username, email) pair. The bool reports whether a new user
	// was created.
	Signup(ctx context.Context, username, email string) (*models.User, bool, error)
	// IssueToken exchanges a confirmation code for a JWT access token.
	IssueToken(ctx context.Context, username, code string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type authService struct {
	userRepo       repository.UserRepository
	codeRepo       repository.ConfirmationCodeRepository
	mail           Mailer
	jwtSecret      string
	accessTokenTTL time.Duration
}

// Mailer is the slice of the mail component the auth flow needs.
type Mailer interface {
	SendConfirmationCode(to, username, code string) error
}

func NewAuthService(
	userRepo repository.UserRepository,
	codeRepo repository.ConfirmationCodeRepository,
	mail Mailer,
	cfg *config.Config,
) AuthService {
	return &authService{
		userRepo:       userRepo,
		codeRepo:       codeRepo,
		mail:           mail,
		jwtSecret:      cfg.JWTSecret,
		accessTokenTTL: cfg.AccessTokenTTL,
	}
}

func (s *authService) Signup(ctx context.Context, username, email string) (*models.User, bool, error) {
	if err := validateUsername(username); err != nil {
		return nil, false, err
	}
	if err := validateEmail(email); err != nil {
		return nil, false, err
	}

	existing, err := s.userRepo.FindByUsername(username)
	if err == nil {
		// Same pair: treat as a re-send request instead of a conflict, so a
		// lost email never locks the account out of confirmation.
		if existing.Email != email {
			return nil, false, ErrEmailMismatch
		}
		if err := s.issueCode(ctx, existing); err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	if _, err := s.userRepo.FindByEmail(email); err == nil {
		return nil, false, ErrEmailInUse
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Role:     models.RoleUser,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, false, err
	}

	if err := s.issueCode(ctx, user); err != nil {
		return nil, false, err
	}
	return user, true, nil
}

// issueCode generates a fresh confirmation code, stores only its hash and
// mails the plaintext.
func (s *authService) issueCode(ctx context.Context, user *models.User) error {
	code := uuid.New().String()

	hash, err := auth.HashCode(code)
	if err != nil {
		return err
	}
	if err := s.codeRepo.Save(ctx, user.ID, hash); err != nil {
		return err
	}
	return s.mail.SendConfirmationCode(user.Email, user.Username, code)
}

func (s *authService) IssueToken(ctx context.Context, username, code string) (string, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	hash, err := s.codeRepo.Get(ctx, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrCodeNotFound) {
			return "", ErrInvalidCode
		}
		return "", err
	}
	if err := auth.VerifyCode(hash, code); err != nil {
		return "", ErrInvalidCode
	}

	// Codes are single-use.
	if err := s.codeRepo.Delete(ctx, user.ID); err != nil {
		return "", err
	}

	return s.generateAccessToken(user)
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      user.Role,
		Superuser: user.Superuser,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
