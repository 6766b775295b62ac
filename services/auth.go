// auth.go - Registration, login and session tokens

package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-blog-backend/database"
	"go-blog-backend/models"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// Claims is what a session token asserts about its holder
type Claims struct {
	UserID string `json:"id"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// Session is handed back on a successful login
type Session struct {
	Token  string `json:"token"`
	UserID string `json:"id"`
	Name   string `json:"name"`
}

type RegisterInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

type AuthService struct {
	db     *gorm.DB
	secret []byte
	ttl    time.Duration
	now    func() time.Time

	comparePassword func(hash, password string) bool
}

func NewAuthService(store *database.Store, secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		db:     store.DB,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,

		comparePassword: checkPassword,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Register creates a user with a zero post count.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if blank(in.Name) || blank(in.Email) || in.Password == "" || in.ConfirmPassword == "" {
		return nil, ValidationError("Fill in all fields")
	}
	if len(strings.TrimSpace(in.Password)) < minPasswordLength {
		return nil, ValidationError("Password should be at least %d characters", minPasswordLength)
	}
	if in.Password != in.ConfirmPassword {
		return nil, ValidationError("Passwords do not match")
	}

	email := normalizeEmail(in.Email)
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, InternalError("user registration failed", err)
	}
	if count > 0 {
		return nil, ConflictError("Email already exists")
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, InternalError("user registration failed", err)
	}

	user := &models.User{Name: strings.TrimSpace(in.Name), Email: email, Password: hash}
	if err := db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) { // Lost a race with another registration
			return nil, ConflictError("Email already exists")
		}
		return nil, InternalError("user registration failed", err)
	}
	return user, nil
}

// Login checks credentials and issues a session token. Unknown email and wrong password
// fail with the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	if blank(email) || password == "" {
		return nil, ValidationError("Fill in all fields")
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Same bcrypt cost as a real mismatch so response time doesn't reveal the email
		s.comparePassword(dummyHash(), password)
		return nil, AuthError("Invalid email or password")
	}
	if err != nil {
		return nil, InternalError("login failed", err)
	}
	if !s.comparePassword(user.Password, password) {
		return nil, AuthError("Invalid email or password")
	}

	token, err := s.IssueToken(&user)
	if err != nil {
		return nil, InternalError("login failed", err)
	}
	return &Session{Token: token, UserID: user.ID, Name: user.Name}, nil
}

// IssueToken signs an HS256 token carrying the user's id and name
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	now := s.now()
	claims := Claims{
		UserID: user.ID,
		Name:   user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// VerifyToken returns the claims of a well-formed, unexpired token signed with our secret
func (s *AuthService) VerifyToken(tokenStr string) (*Claims, error) {
	if tokenStr == "" {
		return nil, AuthError("missing token")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims,
		func(*jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid || claims.UserID == "" {
		return nil, AuthError("invalid token")
	}
	return claims, nil
}
