package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/authz"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

var ErrInvalidClaims = errors.New("token claims do not identify a caller")

type Service interface {
	GenerateAccessToken(userID string, employeeID *string, role authz.Role) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
	SubjectFromClaims(claims map[string]interface{}) (authz.Subject, error)
}

type JWTService struct {
	secretKey                 string
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
	now                       func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) *JWTService {
	return &JWTService{
		secretKey:                 secretKey,
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:                       time.Now,
	}
}

func (j *JWTService) GenerateAccessToken(userID string, employeeID *string, role authz.Role) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = j.now().Add(expDuration).Unix()

	claims := map[string]interface{}{
		"user_id":     userID,
		"employee_id": j.returnValueOrNil(employeeID),
		"role":        string(role),
		"type":        "access",
		"exp":         expiresAt,
	}

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// SubjectFromClaims turns verified access-token claims into the caller identity.
func (j *JWTService) SubjectFromClaims(claims map[string]interface{}) (authz.Subject, error) {
	if tokenType, _ := claims["type"].(string); tokenType != "access" {
		return authz.Subject{}, ErrInvalidClaims
	}
	userID, _ := claims["user_id"].(string)
	role, _ := claims["role"].(string)
	if userID == "" || role == "" {
		return authz.Subject{}, ErrInvalidClaims
	}
	employeeID, _ := claims["employee_id"].(string)

	return authz.Subject{UserID: userID, EmployeeID: employeeID, Role: authz.Role(role)}, nil
}

// VerifyContext reads the claims jwtauth.Verifier stored on ctx.
func (j *JWTService) VerifyContext(ctx context.Context) (authz.Subject, error) {
	token, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return authz.Subject{}, err
	}
	if token == nil {
		return authz.Subject{}, ErrInvalidClaims
	}
	return j.SubjectFromClaims(claims)
}

func (j *JWTService) returnValueOrNil(value *string) interface{} {
	if value == nil {
		return nil
	}
	return *value
}

var _ Service = (*JWTService)(nil)
