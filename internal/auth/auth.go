// Package auth hashes passwords and issues signed session tokens.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/fx"
	"golang.org/x/crypto/bcrypt"

	"github.com/Additional-Code/geosstore/internal/config"
)

// RoleCustomer is the role carried by storefront customer tokens.
const RoleCustomer = "customer"

var (
	// ErrInvalidToken covers malformed, forged and expired tokens.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrMismatchedPassword is returned when a password does not match its hash.
	ErrMismatchedPassword = errors.New("password does not match")
)

// Module provides the Authenticator to Fx.
var Module = fx.Provide(New)

// Claims identifies the subject of a session token.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// SubjectID parses the numeric account id from the subject claim.
func (c *Claims) SubjectID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

// Authenticator hashes passwords with bcrypt and signs HS256 tokens.
type Authenticator struct {
	secret      []byte
	customerTTL time.Duration
	workerTTL   time.Duration
	cost        int
	now         func() time.Time
}

// New builds an Authenticator from configuration.
func New(cfg config.Config) *Authenticator {
	return &Authenticator{
		secret:      []byte(cfg.Auth.JWTSecret),
		customerTTL: cfg.Auth.CustomerTokenTTL,
		workerTTL:   cfg.Auth.WorkerTokenTTL,
		cost:        cfg.Auth.BcryptCost,
		now:         time.Now,
	}
}

// HashPassword returns the bcrypt hash of password.
func (a *Authenticator) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// ComparePassword checks password against a stored bcrypt hash.
func (a *Authenticator) ComparePassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrMismatchedPassword
	}
	return nil
}

// CustomerToken signs a token for a storefront customer.
func (a *Authenticator) CustomerToken(id int64, email string) (string, error) {
	return a.sign(id, email, RoleCustomer, a.customerTTL)
}

// WorkerToken signs a token for a staff member carrying their role.
func (a *Authenticator) WorkerToken(id int64, email, role string) (string, error) {
	return a.sign(id, email, role, a.workerTTL)
}

func (a *Authenticator) sign(id int64, email, role string, ttl time.Duration) (string, error) {
	now := a.now()
	claims := Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(id, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token.
func (a *Authenticator) Verify(token string) (*Claims, error) {
	claims := new(Claims)
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}
