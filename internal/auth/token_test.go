package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/dossiman/coursera-fullstack-web-dev/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuer_IssueAndParse(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	user := &models.User{ID: "u-1", Username: "jdoe"}

	token, err := issuer.Issue(user)
	require.NoError(t, err)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "jdoe", claims.Username)
	assert.Equal(t, "u-1", claims.Subject)
}

func TestIssuer_RejectsExpired(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Minute)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := issuer.Issue(&models.User{ID: "u-1"})
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.Parse(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestIssuer_RejectsOtherSecret(t *testing.T) {
	token, err := NewIssuer("secret-a", time.Hour).Issue(&models.User{ID: "u-1"})
	require.NoError(t, err)

	_, err = NewIssuer("secret-b", time.Hour).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssuer_RejectsUnsignedAndMissingSubject(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		UserID:           "u-1",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	none, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = issuer.Parse(none)
	assert.ErrorIs(t, err, ErrInvalidToken)

	anonymous := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	signed, err := anonymous.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = issuer.Parse(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr error
	}{
		{header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{header: "bearer abc", want: "abc"},
		{header: "", wantErr: ErrMissingToken},
		{header: "Basic dXNlcjpwYXNz", wantErr: ErrInvalidToken},
		{header: "Bearer", wantErr: ErrInvalidToken},
		{header: "Bearer a b", wantErr: ErrInvalidToken},
	}

	for _, tt := range tests {
		got, err := BearerToken(tt.header)
		if tt.wantErr != nil {
			assert.ErrorIs(t, err, tt.wantErr, tt.header)
			continue
		}
		require.NoError(t, err, tt.header)
		assert.Equal(t, tt.want, got)
	}
}

func TestPrincipalFromUser(t *testing.T) {
	p := PrincipalFromUser(&models.User{ID: "u-9", Username: "chef", Admin: true})
	assert.Equal(t, &Principal{ID: "u-9", Username: "chef", Admin: true}, p)
}
