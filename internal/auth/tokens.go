package auth

import (
	"errors"
	"time"

	"palboti_backend/internal/models"
	"palboti_backend/internal/repositories"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrTokenInvalid: malformed token, signature mismatch, or kind mismatch.
	ErrTokenInvalid = errors.New("token is invalid")
	// ErrTokenExpired: the embedded expiry has passed.
	ErrTokenExpired = errors.New("token has expired")
	// ErrTokenNotFound: no persisted row matches (consumed or never issued).
	ErrTokenNotFound = errors.New("token not found")
)

// Claims embedded in every issued token.
type Claims struct {
	Kind models.TokenKind `json:"kind"`
	jwt.RegisteredClaims
}

// TokenConfig holds the signing secret and per-kind lifetimes. It is
// injected at construction; nothing in this package reads globals.
type TokenConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	ResetTTL   time.Duration
	VerifyTTL  time.Duration
}

// IssuedToken is a signed token string plus its expiry.
type IssuedToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires"`
}

// TokenService issues and verifies tokens of all kinds. Access tokens
// are stateless; refresh/reset/verify tokens are additionally persisted
// so they can be consumed exactly once.
type TokenService struct {
	cfg    TokenConfig
	tokens repositories.TokenRepository
}

func NewTokenService(cfg TokenConfig, tokens repositories.TokenRepository) *TokenService {
	return &TokenService{
		cfg:    cfg,
		tokens: tokens,
	}
}

func (s *TokenService) sign(userID string, kind models.TokenKind, ttl time.Duration) (IssuedToken, error) {
	expiresAt := time.Now().Add(ttl)

	claims := Claims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			// The jti keeps tokens minted within the same second distinct,
			// so concurrent sessions never collide on the unique value column.
			ID:        uuid.NewString(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return IssuedToken{}, err
	}

	return IssuedToken{Token: signed, ExpiresAt: expiresAt}, nil
}

func (s *TokenService) issuePersisted(db *gorm.DB, user *models.User, kind models.TokenKind, ttl time.Duration) (IssuedToken, error) {
	issued, err := s.sign(user.ID, kind, ttl)
	if err != nil {
		return IssuedToken{}, err
	}

	row := &models.Token{
		UserID:    user.ID,
		Value:     issued.Token,
		Kind:      kind,
		ExpiresAt: issued.ExpiresAt,
	}
	if err := s.tokens.Create(db, row); err != nil {
		return IssuedToken{}, err
	}

	return issued, nil
}

// IssueAccessToken signs a short-lived stateless access token.
func (s *TokenService) IssueAccessToken(user *models.User) (IssuedToken, error) {
	return s.sign(user.ID, models.TokenKindAccess, s.cfg.AccessTTL)
}

// IssueRefreshToken signs and persists a refresh token.
func (s *TokenService) IssueRefreshToken(db *gorm.DB, user *models.User) (IssuedToken, error) {
	return s.issuePersisted(db, user, models.TokenKindRefresh, s.cfg.RefreshTTL)
}

// IssueResetToken signs and persists a password-reset token.
func (s *TokenService) IssueResetToken(db *gorm.DB, user *models.User) (IssuedToken, error) {
	return s.issuePersisted(db, user, models.TokenKindPasswordReset, s.cfg.ResetTTL)
}

// IssueVerifyToken signs and persists an email-verification token.
func (s *TokenService) IssueVerifyToken(db *gorm.DB, user *models.User) (IssuedToken, error) {
	return s.issuePersisted(db, user, models.TokenKindEmailValidation, s.cfg.VerifyTTL)
}

// Verify validates signature and expiry, checks the kind claim, and for
// persisted kinds cross-checks existence in the token store.
//
// On expiry the stale row is deleted unconditionally before the error
// is returned, so expired rows never outlive their first presentation.
func (s *TokenService) Verify(db *gorm.DB, tokenString string, kind models.TokenKind) (*models.Token, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			if kind != models.TokenKindAccess {
				_ = s.tokens.DeleteByValue(db, tokenString, kind)
			}
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	if claims.Kind != kind || claims.Subject == "" {
		return nil, ErrTokenInvalid
	}

	if kind == models.TokenKindAccess {
		// Stateless: synthesize a record from the claims.
		return &models.Token{
			UserID:    claims.Subject,
			Value:     tokenString,
			Kind:      kind,
			ExpiresAt: claims.ExpiresAt.Time,
		}, nil
	}

	row, err := s.tokens.FindByValue(db, tokenString, kind)
	if err != nil {
		if errors.Is(err, repositories.ErrTokenNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return row, nil
}

// ParseAccessToken verifies a bearer token without touching the store.
// Used by the HTTP auth middleware.
func (s *TokenService) ParseAccessToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if claims.Kind != models.TokenKindAccess {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
