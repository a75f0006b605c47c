package jwt

import (
	"testing"

	"github.com/cmlabs-hris/attendance-engine/internal/domain/authz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_AccessTokenRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", "1h")
	emp := "emp-1"

	token, _, err := svc.GenerateAccessToken("u-1", &emp, authz.RoleEmployee)
	require.NoError(t, err)

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)
	claims, err := decoded.AsMap(t.Context())
	require.NoError(t, err)

	subject, err := svc.SubjectFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, authz.Subject{UserID: "u-1", EmployeeID: "emp-1", Role: authz.RoleEmployee}, subject)
}

func TestJWTService_SubjectFromClaims_Rejects(t *testing.T) {
	svc := NewJWTService("test-secret", "1h")

	tests := []struct {
		name   string
		claims map[string]interface{}
	}{
		{"refresh token", map[string]interface{}{"type": "refresh", "user_id": "u-1", "role": "owner"}},
		{"missing role", map[string]interface{}{"type": "access", "user_id": "u-1"}},
		{"missing user", map[string]interface{}{"type": "access", "role": "owner"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SubjectFromClaims(tt.claims)
			assert.ErrorIs(t, err, ErrInvalidClaims)
		})
	}
}

func TestJWTService_InvalidExpiration(t *testing.T) {
	svc := NewJWTService("test-secret", "forever")
	_, _, err := svc.GenerateAccessToken("u-1", nil, authz.RoleOwner)
	assert.Error(t, err)
}
