package acme_test

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/certflow/certflow/core/issuance"
	"github.com/certflow/certflow/core/keys"
	"github.com/certflow/certflow/integration/acme"
)

func testAccountKeyPEM(t *testing.T) string {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)
	return string(pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: der}))
}

func testCertificatePEM(t *testing.T) string {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "example.com"},
		DNSNames:     []string{"example.com"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	require.NoError(t, err)
	return string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}))
}

// fakeAuthority is a minimal ACME v2 server driving a single order through
// pending -> ready (on challenge submission) -> valid (on finalization).
type fakeAuthority struct {
	server  *httptest.Server
	certPEM string

	mu        sync.Mutex
	status    string
	nonce     int
	submitted []string
	finalized bool
}

func newFakeAuthority(t *testing.T, initialStatus string) *fakeAuthority {
	t.Helper()

	f := &fakeAuthority{
		status:  initialStatus,
		certPEM: testCertificatePEM(t),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/directory", f.handleDirectory)
	mux.HandleFunc("/new-nonce", f.handleNonce)
	mux.HandleFunc("/new-order", f.handleNewOrder)
	mux.HandleFunc("/order/1", f.handleOrder)
	mux.HandleFunc("/order/1/finalize", f.handleFinalize)
	mux.HandleFunc("/authz/1", f.handleAuthz)
	mux.HandleFunc("/challenge/", f.handleChallenge)
	mux.HandleFunc("/cert/1", f.handleCertificate)

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeAuthority) url(path string) string {
	return f.server.URL + path
}

func (f *fakeAuthority) config(t *testing.T) acme.Config {
	t.Helper()
	return acme.Config{
		DirectoryURL:  f.url("/directory"),
		AccountURL:    f.url("/account/1"),
		AccountKeyPEM: testAccountKeyPEM(t),
		PollInterval:  25 * time.Millisecond,
	}
}

func (f *fakeAuthority) submittedChallenges() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.submitted...)
}

func (f *fakeAuthority) writeJSON(w http.ResponseWriter, code int, body any) {
	f.stampNonce(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

func (f *fakeAuthority) stampNonce(w http.ResponseWriter) {
	f.mu.Lock()
	f.nonce++
	n := f.nonce
	f.mu.Unlock()
	w.Header().Set("Replay-Nonce", fmt.Sprintf("nonce-%d", n))
}

func (f *fakeAuthority) orderBody() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()

	body := map[string]any{
		"status":         f.status,
		"identifiers":    []map[string]string{{"type": "dns", "value": "example.com"}},
		"authorizations": []string{f.url("/authz/1")},
		"finalize":       f.url("/order/1/finalize"),
	}
	if f.status == "valid" {
		body["certificate"] = f.url("/cert/1")
	}
	return body
}

func (f *fakeAuthority) handleDirectory(w http.ResponseWriter, r *http.Request) {
	f.writeJSON(w, http.StatusOK, map[string]string{
		"newNonce":   f.url("/new-nonce"),
		"newAccount": f.url("/new-account"),
		"newOrder":   f.url("/new-order"),
		"revokeCert": f.url("/revoke-cert"),
		"keyChange":  f.url("/key-change"),
	})
}

func (f *fakeAuthority) handleNonce(w http.ResponseWriter, r *http.Request) {
	f.stampNonce(w)
	w.WriteHeader(http.StatusOK)
}

func (f *fakeAuthority) handleNewOrder(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Location", f.url("/order/1"))
	f.writeJSON(w, http.StatusCreated, f.orderBody())
}

func (f *fakeAuthority) handleOrder(w http.ResponseWriter, r *http.Request) {
	f.writeJSON(w, http.StatusOK, f.orderBody())
}

func (f *fakeAuthority) handleAuthz(w http.ResponseWriter, r *http.Request) {
	f.writeJSON(w, http.StatusOK, map[string]any{
		"status":     "pending",
		"identifier": map[string]string{"type": "dns", "value": "example.com"},
		"challenges": []map[string]string{
			{"type": "http-01", "url": f.url("/challenge/http-01"), "token": "http-token", "status": "pending"},
			{"type": "dns-01", "url": f.url("/challenge/dns-01"), "token": "dns-token", "status": "pending"},
		},
	})
}

func (f *fakeAuthority) handleChallenge(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.submitted = append(f.submitted, r.URL.Path)
	f.status = "ready"
	f.mu.Unlock()

	f.writeJSON(w, http.StatusOK, map[string]string{
		"type":   strings.TrimPrefix(r.URL.Path, "/challenge/"),
		"url":    f.url(r.URL.Path),
		"token":  "http-token",
		"status": "processing",
	})
}

func (f *fakeAuthority) handleFinalize(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.finalized = true
	f.status = "valid"
	f.mu.Unlock()

	f.writeJSON(w, http.StatusOK, f.orderBody())
}

func (f *fakeAuthority) handleCertificate(w http.ResponseWriter, r *http.Request) {
	f.stampNonce(w)
	w.Header().Set("Content-Type", "application/pem-certificate-chain")
	// Leaf plus issuer, already bundled.
	_, _ = w.Write([]byte(f.certPEM + f.certPEM))
}

func TestNewConfigValidation(t *testing.T) {
	base := func() acme.Config {
		return acme.Config{
			DirectoryURL:  "https://acme.invalid/directory",
			AccountURL:    "https://acme.invalid/account/1",
			AccountKeyPEM: testAccountKeyPEM(t),
		}
	}

	tests := []struct {
		name    string
		mutate  func(*acme.Config)
		wantErr error
	}{
		{
			name:    "missing directory",
			mutate:  func(cfg *acme.Config) { cfg.DirectoryURL = "" },
			wantErr: acme.ErrDirectoryRequired,
		},
		{
			name:    "missing account URL",
			mutate:  func(cfg *acme.Config) { cfg.AccountURL = "" },
			wantErr: acme.ErrAccountURLRequired,
		},
		{
			name:    "missing account key",
			mutate:  func(cfg *acme.Config) { cfg.AccountKeyPEM = "" },
			wantErr: acme.ErrAccountKeyRequired,
		},
		{
			name:    "unknown key algorithm",
			mutate:  func(cfg *acme.Config) { cfg.CertificateKeyAlgorithm = "dsa" },
			wantErr: keys.ErrUnsupportedAlgorithm,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)

			_, err := acme.New(cfg)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNewRejectsGarbageAccountKey(t *testing.T) {
	_, err := acme.New(acme.Config{
		DirectoryURL:  "https://acme.invalid/directory",
		AccountURL:    "https://acme.invalid/account/1",
		AccountKeyPEM: "not a pem key",
	})
	assert.Error(t, err)
}

func TestIssueCertificateHTTP01(t *testing.T) {
	f := newFakeAuthority(t, "pending")
	client, err := acme.New(f.config(t))
	require.NoError(t, err)

	var (
		mu     sync.Mutex
		served [][]issuance.HTTPResource
	)
	result, err := issuance.RequestCertificate(context.Background(), issuance.Config{
		Account: client,
		Domains: []string{"example.com"},
		Strategy: issuance.HTTPStrategy{
			UpdateResources: func(ctx context.Context, resources []issuance.HTTPResource) error {
				mu.Lock()
				defer mu.Unlock()
				served = append(served, resources)
				return nil
			},
		},
		Timeout: 10 * time.Second,
	})
	require.NoError(t, err)

	assert.Contains(t, result.CertificatePEM, "BEGIN CERTIFICATE")
	require.NotNil(t, result.KeyPair)
	assert.Equal(t, keys.EC, result.KeyPair.Algorithm)
	assert.NotNil(t, result.Order)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, served, 1, "resources must be published in a single batch")
	require.Len(t, served[0], 1)
	assert.Equal(t, "http://example.com/.well-known/acme-challenge/http-token", served[0][0].URL)
	assert.NotEmpty(t, served[0][0].Content)

	assert.Equal(t, []string{"/challenge/http-01"}, f.submittedChallenges())
}

func TestFinalizeUsesConfiguredKeyAlgorithm(t *testing.T) {
	f := newFakeAuthority(t, "ready")

	cfg := f.config(t)
	cfg.CertificateKeyAlgorithm = string(keys.RSA)
	client, err := acme.New(cfg)
	require.NoError(t, err)

	result, err := issuance.RequestCertificate(context.Background(), issuance.Config{
		Account: client,
		Domains: []string{"example.com"},
		Timeout: 10 * time.Second,
	})
	require.NoError(t, err)

	require.NotNil(t, result.KeyPair)
	assert.Equal(t, keys.RSA, result.KeyPair.Algorithm)
	// Pre-authorized order: no challenge was ever submitted.
	assert.Empty(t, f.submittedChallenges())
}

func TestChallengeArtifacts(t *testing.T) {
	f := newFakeAuthority(t, "pending")
	client, err := acme.New(f.config(t))
	require.NoError(t, err)

	ctx := context.Background()
	ord, err := client.NewOrder(ctx, []string{"example.com"})
	require.NoError(t, err)

	authzs, err := ord.Authorizations(ctx)
	require.NoError(t, err)
	require.Len(t, authzs, 1)
	assert.Equal(t, "example.com", authzs[0].Identifier())

	dnsCh, ok := authzs[0].DNS01()
	require.True(t, ok)
	record, err := dnsCh.DNSRecord(ctx)
	require.NoError(t, err)
	assert.Equal(t, "_acme-challenge.example.com.", record.FQDN)
	assert.Len(t, record.Value, 43, "base64url-encoded SHA-256 digest")

	_, err = dnsCh.HTTPResource(ctx)
	assert.ErrorIs(t, err, acme.ErrWrongChallengeType)

	httpCh, ok := authzs[0].HTTP01()
	require.True(t, ok)
	resource, err := httpCh.HTTPResource(ctx)
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/.well-known/acme-challenge/http-token", resource.URL)
	assert.True(t, strings.HasPrefix(resource.Content, "http-token."),
		"key authorization starts with the token")

	_, err = httpCh.DNSRecord(ctx)
	assert.ErrorIs(t, err, acme.ErrWrongChallengeType)
}

func TestPollStatusTimeout(t *testing.T) {
	f := newFakeAuthority(t, "pending")
	client, err := acme.New(f.config(t))
	require.NoError(t, err)

	ctx := context.Background()
	ord, err := client.NewOrder(ctx, []string{"example.com"})
	require.NoError(t, err)

	err = ord.PollStatus(ctx, issuance.StatusValid, 100*time.Millisecond)
	require.Error(t, err)
	assert.ErrorIs(t, err, issuance.ErrPollTimeout)
}

func TestPollStatusOrderFailure(t *testing.T) {
	f := newFakeAuthority(t, "invalid")
	client, err := acme.New(f.config(t))
	require.NoError(t, err)

	ctx := context.Background()
	ord, err := client.NewOrder(ctx, []string{"example.com"})
	require.NoError(t, err)

	err = ord.PollStatus(ctx, issuance.StatusReady, time.Second)
	require.Error(t, err)
	assert.ErrorIs(t, err, acme.ErrOrderFailed)
	assert.NotErrorIs(t, err, issuance.ErrPollTimeout)
}
