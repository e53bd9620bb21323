package auth

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"github.com/sakif/skillverse/internal/apperror"
	"github.com/sakif/skillverse/internal/model"
)

// SessionVerifier turns a learner's session token into a subject id.
type SessionVerifier interface {
	Verify(token string) (string, error)
}

type clerkClaims struct {
	AuthorizedParty string `json:"azp,omitempty"`
	jwt.RegisteredClaims
}

// ClerkVerifier checks Clerk session tokens offline with the instance's
// public key (the "JWT public key" PEM in the Clerk dashboard).
type ClerkVerifier struct {
	key               *rsa.PublicKey
	authorizedParties []string
	leeway            time.Duration
}

var _ SessionVerifier = (*ClerkVerifier)(nil)

// NewClerkVerifier parses pemKey. When authorizedParties is non-empty, tokens
// whose azp claim is not in the list are rejected.
func NewClerkVerifier(pemKey string, authorizedParties []string) (*ClerkVerifier, error) {
	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pemKey))
	if err != nil {
		return nil, fmt.Errorf("auth: parsing clerk public key: %w", err)
	}
	return &ClerkVerifier{
		key:               key,
		authorizedParties: authorizedParties,
		leeway:            5 * time.Second,
	}, nil
}

func (v *ClerkVerifier) Verify(tokenStr string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&clerkClaims{},
		func(*jwt.Token) (any, error) { return v.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
	)
	if err != nil {
		return "", fmt.Errorf("auth: invalid session token: %w", err)
	}

	c, ok := token.Claims.(*clerkClaims)
	if !ok || !token.Valid {
		return "", errors.New("auth: invalid session token claims")
	}
	if c.Subject == "" {
		return "", errors.New("auth: session token has no subject")
	}
	if len(v.authorizedParties) > 0 && !slices.Contains(v.authorizedParties, c.AuthorizedParty) {
		return "", fmt.Errorf("auth: session token issued for unauthorized party %q", c.AuthorizedParty)
	}
	return c.Subject, nil
}

// ClerkUser is the part of the Clerk Backend API user object we read.
type ClerkUser struct {
	ID                    string              `json:"id"`
	FirstName             *string             `json:"first_name"`
	LastName              *string             `json:"last_name"`
	ImageURL              string              `json:"image_url"`
	PrimaryEmailAddressID *string             `json:"primary_email_address_id"`
	EmailAddresses        []ClerkEmailAddress `json:"email_addresses"`
}

type ClerkEmailAddress struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
}

// ProfileFetcher looks up the identity behind a subject id.
type ProfileFetcher interface {
	GetUser(ctx context.Context, subjectID string) (*ClerkUser, error)
}

// ClerkClient calls the Clerk Backend API, authenticated with the instance
// secret key as a static bearer token.
type ClerkClient struct {
	httpClient *http.Client
	baseURL    string
}

var _ ProfileFetcher = (*ClerkClient)(nil)

func NewClerkClient(secretKey, apiURL string) *ClerkClient {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: secretKey, TokenType: "Bearer"})
	httpClient := oauth2.NewClient(context.Background(), src)
	httpClient.Timeout = 10 * time.Second
	return &ClerkClient{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(apiURL, "/"),
	}
}

// GetUser fetches GET /users/{id}. A 404 maps to apperror.ErrNotFound, any
// other failure to apperror.ErrUpstream.
func (c *ClerkClient) GetUser(ctx context.Context, subjectID string) (*ClerkUser, error) {
	endpoint := c.baseURL + "/users/" + url.PathEscape(subjectID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("auth: building clerk request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperror.Upstream("Clerk", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, apperror.NotFound("clerk user", subjectID)
	case resp.StatusCode != http.StatusOK:
		return nil, apperror.Upstream("Clerk", fmt.Errorf("GET /users/%s returned %d", subjectID, resp.StatusCode))
	}

	var u ClerkUser
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return nil, apperror.Upstream("Clerk", fmt.Errorf("decoding user: %w", err))
	}
	return &u, nil
}

// Sanitize reduces a Clerk user to the fields we store. The email is the
// primary address, else the first address, else empty. Missing names and
// avatar become empty strings.
func Sanitize(u *ClerkUser) model.Identity {
	id := model.Identity{SubjectID: u.ID, AvatarURL: u.ImageURL}
	if u.FirstName != nil {
		id.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		id.LastName = *u.LastName
	}

	if len(u.EmailAddresses) > 0 {
		id.Email = u.EmailAddresses[0].EmailAddress
		if u.PrimaryEmailAddressID != nil {
			for _, e := range u.EmailAddresses {
				if e.ID == *u.PrimaryEmailAddressID {
					id.Email = e.EmailAddress
					break
				}
			}
		}
	}
	return id
}
