// Package auth covers both credential concerns of the portal: one-way
// password digests (bcrypt) and signed-claims bearer tokens (HS256 JWT).
package auth

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleStudent    = "student"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

type Auth struct {
	secret        []byte
	studentExpiry time.Duration
	adminExpiry   time.Duration
}

// Claims carry the account identity. StudentID and AdminID mirror the
// legacy portal's token wire format; exactly one of them is set.
type Claims struct {
	StudentID int    `json:"student_id,omitempty"`
	AdminID   int    `json:"admin_id,omitempty"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

func New(secret string, studentExpiryMin, adminExpiryMin int) *Auth {
	return &Auth{
		secret:        []byte(secret),
		studentExpiry: time.Duration(studentExpiryMin) * time.Minute,
		adminExpiry:   time.Duration(adminExpiryMin) * time.Minute,
	}
}

func (a *Auth) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (a *Auth) CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// StudentToken issues a bearer token for a student account.
func (a *Auth) StudentToken(studentID int, email string) (string, error) {
	return a.sign(Claims{
		StudentID: studentID,
		Email:     email,
		Role:      RoleStudent,
	}, a.studentExpiry, studentID)
}

// AdminToken issues a bearer token for an admin or super_admin account.
// Admin tokens live longer than student ones; both windows come from config.
func (a *Auth) AdminToken(adminID int, email, role string) (string, error) {
	return a.sign(Claims{
		AdminID: adminID,
		Email:   email,
		Role:    role,
	}, a.adminExpiry, adminID)
}

func (a *Auth) sign(claims Claims, expiry time.Duration, subject int) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("%d", subject),
		ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

func (a *Auth) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// ExtractClaims reads the JWT from the Authorization header (Bearer token).
// Returns nil if no valid token is present (for public endpoints).
func (a *Auth) ExtractClaims(r *http.Request) *Claims {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil
	}
	claims, err := a.ValidateToken(parts[1])
	if err != nil {
		return nil
	}
	return claims
}
