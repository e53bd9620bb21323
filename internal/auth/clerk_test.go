package auth

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/skillverse/internal/apperror"
)

func newRSAKey(t *testing.T) (*rsa.PrivateKey, string) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pemKey := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
	return key, string(pemKey)
}

func signSession(t *testing.T, key *rsa.PrivateKey, c clerkClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, c).SignedString(key)
	require.NoError(t, err)
	return token
}

func validClaims(sub string) clerkClaims {
	return clerkClaims{
		AuthorizedParty: "http://localhost:5173",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
}

func TestClerkVerifier_Valid(t *testing.T) {
	key, pemKey := newRSAKey(t)
	v, err := NewClerkVerifier(pemKey, nil)
	require.NoError(t, err)

	sub, err := v.Verify(signSession(t, key, validClaims("user_2abc")))
	require.NoError(t, err)
	assert.Equal(t, "user_2abc", sub)
}

func TestClerkVerifier_Rejects(t *testing.T) {
	key, pemKey := newRSAKey(t)
	otherKey, _ := newRSAKey(t)

	v, err := NewClerkVerifier(pemKey, []string{"http://localhost:5173"})
	require.NoError(t, err)

	expired := validClaims("user_1")
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	noExp := validClaims("user_1")
	noExp.ExpiresAt = nil

	wrongParty := validClaims("user_1")
	wrongParty.AuthorizedParty = "https://evil.example.com"

	noSubject := validClaims("")

	hs, err := jwt.NewWithClaims(jwt.SigningMethodHS256, validClaims("user_1")).SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := map[string]string{
		"expired":        signSession(t, key, expired),
		"no expiry":      signSession(t, key, noExp),
		"wrong party":    signSession(t, key, wrongParty),
		"no subject":     signSession(t, key, noSubject),
		"other key":      signSession(t, otherKey, validClaims("user_1")),
		"hmac algorithm": hs,
		"garbage":        "abc.def.ghi",
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := v.Verify(token)
			assert.Error(t, err)
		})
	}
}

func TestNewClerkVerifier_BadPEM(t *testing.T) {
	_, err := NewClerkVerifier("not a key", nil)
	assert.Error(t, err)
}

func strPtr(s string) *string { return &s }

func TestSanitize(t *testing.T) {
	tests := []struct {
		name      string
		in        ClerkUser
		wantEmail string
		wantFirst string
	}{
		{
			name: "primary email wins",
			in: ClerkUser{
				ID:                    "user_1",
				FirstName:             strPtr("Ada"),
				PrimaryEmailAddressID: strPtr("idn_2"),
				EmailAddresses: []ClerkEmailAddress{
					{ID: "idn_1", EmailAddress: "old@example.com"},
					{ID: "idn_2", EmailAddress: "ada@example.com"},
				},
			},
			wantEmail: "ada@example.com",
			wantFirst: "Ada",
		},
		{
			name: "first email when no primary",
			in: ClerkUser{
				ID:             "user_1",
				EmailAddresses: []ClerkEmailAddress{{ID: "idn_1", EmailAddress: "first@example.com"}},
			},
			wantEmail: "first@example.com",
		},
		{
			name:      "no emails",
			in:        ClerkUser{ID: "user_1"},
			wantEmail: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := Sanitize(&tt.in)
			assert.Equal(t, "user_1", id.SubjectID)
			assert.Equal(t, tt.wantEmail, id.Email)
			assert.Equal(t, tt.wantFirst, id.FirstName)
			assert.Equal(t, "", id.LastName)
		})
	}
}

func TestClerkClient_GetUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/v1/users/user_1":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"user_1","first_name":"Ada","last_name":null,"image_url":"https://img/1.png",
				"primary_email_address_id":"idn_1","email_addresses":[{"id":"idn_1","email_address":"ada@example.com"}]}`))
		case "/v1/users/missing":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	c := NewClerkClient("sk_test_123", srv.URL+"/v1/")

	u, err := c.GetUser(context.Background(), "user_1")
	require.NoError(t, err)
	id := Sanitize(u)
	assert.Equal(t, "ada@example.com", id.Email)
	assert.Equal(t, "Ada", id.FirstName)
	assert.Equal(t, "https://img/1.png", id.AvatarURL)

	_, err = c.GetUser(context.Background(), "missing")
	assert.True(t, errors.Is(err, apperror.ErrNotFound))

	_, err = c.GetUser(context.Background(), "broken")
	assert.True(t, errors.Is(err, apperror.ErrUpstream))
}
