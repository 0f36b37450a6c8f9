// Package authtest runs an in-process OpenID Connect provider for tests.
// It serves discovery, keys and the token endpoint of a single tenant and signs ID tokens with RS256.
package authtest

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/google/uuid"
)

const (
	// TenantID is the tenant the provider serves.
	TenantID = "00000000-0000-0000-0000-000000000001"
	// ClientID is the client the provider issues tokens for.
	ClientID = "backoffice-client"
	// ClientSecret is the secret the token endpoint expects.
	ClientSecret = "backoffice-secret"

	keyID = "test-key"
)

// Provider is a fake identity provider.
type Provider struct {
	server *httptest.Server
	key    *rsa.PrivateKey

	mu    sync.Mutex
	codes map[string]grant
}

type grant struct {
	claims    map[string]interface{}
	noIDToken bool
}

// New starts a provider that is closed with the test.
func New(t testing.TB) *Provider {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048) //nolint:mnd
	if err != nil {
		t.Fatalf("failed to generate signing key: %v", err)
	}

	p := &Provider{
		key:   key,
		codes: make(map[string]grant),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /"+TenantID+"/v2.0/.well-known/openid-configuration", p.discovery)
	mux.HandleFunc("GET /"+TenantID+"/discovery/v2.0/keys", p.keys)
	mux.HandleFunc("GET /"+TenantID+"/oauth2/v2.0/authorize", p.authorize)
	mux.HandleFunc("POST /"+TenantID+"/oauth2/v2.0/token", p.token)

	p.server = httptest.NewServer(mux)
	t.Cleanup(p.server.Close)

	return p
}

// Authority returns the base URL to use as authority of a registration.
func (p *Provider) Authority() string {
	return p.server.URL
}

// Issuer returns the issuer of the tenant.
func (p *Provider) Issuer() string {
	return p.server.URL + "/" + TenantID + "/v2.0"
}

// IssueCode registers an authorization code whose ID token carries the given claims.
// iss, aud, iat and exp are added unless set.
func (p *Provider) IssueCode(claims map[string]interface{}) string {
	return p.issue(grant{claims: claims})
}

// IssueCodeWithoutIDToken registers an authorization code whose token response lacks the ID token.
func (p *Provider) IssueCodeWithoutIDToken() string {
	return p.issue(grant{noIDToken: true})
}

func (p *Provider) issue(g grant) string {
	code := uuid.NewString()

	p.mu.Lock()
	p.codes[code] = g
	p.mu.Unlock()

	return code
}

func (p *Provider) discovery(w http.ResponseWriter, _ *http.Request) {
	base := p.server.URL + "/" + TenantID

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"issuer":                                p.Issuer(),
		"authorization_endpoint":                base + "/oauth2/v2.0/authorize",
		"token_endpoint":                        base + "/oauth2/v2.0/token",
		"jwks_uri":                              base + "/discovery/v2.0/keys",
		"response_types_supported":              []string{"code"},
		"subject_types_supported":               []string{"pairwise"},
		"id_token_signing_alg_values_supported": []string{string(jose.RS256)},
	})
}

func (p *Provider) keys(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, jose.JSONWebKeySet{
		Keys: []jose.JSONWebKey{{
			Key:       &p.key.PublicKey,
			KeyID:     keyID,
			Algorithm: string(jose.RS256),
			Use:       "sig",
		}},
	})
}

// authorize redirects straight back with the state and a code for a fixed user.
func (p *Provider) authorize(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	redirect, err := url.Parse(q.Get("redirect_uri"))
	if err != nil || redirect.String() == "" {
		http.Error(w, "invalid redirect_uri", http.StatusBadRequest)
		return
	}

	code := p.IssueCode(map[string]interface{}{
		"sub":   "test-subject",
		"name":  "Jane Doe",
		"email": "jane@example.com",
		"roles": []string{"editor"},
	})

	rq := redirect.Query()
	rq.Set("code", code)
	rq.Set("state", q.Get("state"))
	redirect.RawQuery = rq.Encode()

	http.Redirect(w, r, redirect.String(), http.StatusFound)
}

func (p *Provider) token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_request"})
		return
	}

	clientID, clientSecret, ok := r.BasicAuth()
	if !ok {
		clientID, clientSecret = r.PostForm.Get("client_id"), r.PostForm.Get("client_secret")
	}

	if clientID != ClientID || clientSecret != ClientSecret {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid_client"})
		return
	}

	code := r.PostForm.Get("code")

	p.mu.Lock()
	g, ok := p.codes[code]
	delete(p.codes, code)
	p.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_grant"})
		return
	}

	resp := map[string]interface{}{
		"access_token":  "access-" + code,
		"refresh_token": "refresh-" + code,
		"token_type":    "Bearer",
		"expires_in":    3600, //nolint:mnd
	}

	if !g.noIDToken {
		idToken, err := p.sign(g.claims)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "server_error"})
			return
		}

		resp["id_token"] = idToken
	}

	writeJSON(w, http.StatusOK, resp)
}

func (p *Provider) sign(claims map[string]interface{}) (string, error) {
	now := time.Now()

	payload := map[string]interface{}{
		"iss": p.Issuer(),
		"aud": ClientID,
		"iat": now.Unix(),
		"exp": now.Add(time.Hour).Unix(),
		"tid": TenantID,
	}

	for k, v := range claims {
		payload[k] = v
	}

	signer, err := jose.NewSigner(
		jose.SigningKey{Algorithm: jose.RS256, Key: p.key},
		(&jose.SignerOptions{}).WithType("JWT").WithHeader("kid", keyID),
	)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	jws, err := signer.Sign(body)
	if err != nil {
		return "", err
	}

	return jws.CompactSerialize()
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
