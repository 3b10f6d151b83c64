package echoapi

import (
	"crypto/subtle"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/masomo-landing/core"
)

const jwtContextKey = "adminToken"

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	Username string `json:"username,omitempty"`
	IsAdmin  bool   `json:"is_admin,omitempty"`
}

func newJWTConfig(secretKey string) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(secretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    jwtContextKey,
		Claims:        new(Claims),
	}
}

func getAdminClaims(conf *core.Config) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   conf.Admin.Username,
			Audience:  "Admin",
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Username: conf.Admin.Username,
		IsAdmin:  true,
	}
}

// authenticate checks the credentials against the configured admin account.
func authenticate(uname, pwd string, conf *core.Config) (*Claims, error) {
	if conf.Admin.PasswordHash == "" {
		return nil, errAuthenticationFailed // admin login disabled
	}
	pwdErr := bcrypt.CompareHashAndPassword([]byte(conf.Admin.PasswordHash), []byte(pwd))
	if subtle.ConstantTimeCompare([]byte(uname), []byte(conf.Admin.Username)) != 1 || pwdErr != nil {
		return nil, errAuthenticationFailed
	}
	return getAdminClaims(conf), nil
}

// GenerateToken generates a signed JWT token string representing the Claims.
func (s *Server) GenerateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(s.jwt.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(s.jwt.SigningKey)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(jwtContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}
