package e2e

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mr-tron/base58"
)

// TestContext carries the state one scenario accumulates: the last HTTP
// response, values saved between steps, and the wallet key pair the scenario
// acts with. Each scenario gets a fresh context.
type TestContext struct {
	baseURL string
	client  *http.Client

	lastStatus int
	lastBody   []byte

	saved       map[string]string
	accessToken string

	walletPriv ed25519.PrivateKey
	walletDID  string
}

func NewTestContext(baseURL string) (*TestContext, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate wallet key: %w", err)
	}
	raw := append([]byte{0xed, 0x01}, pub...)

	return &TestContext{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		client:     &http.Client{Timeout: 10 * time.Second},
		saved:      make(map[string]string),
		walletPriv: priv,
		walletDID:  "did:key:z" + base58.Encode(raw),
	}, nil
}

func (tc *TestContext) BaseURL() string { return tc.baseURL }

// POST sends a JSON body. The saved bearer token, when present, rides along;
// endpoints that do not require it ignore the header.
func (tc *TestContext) POST(path string, body any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(http.MethodPost, tc.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if tc.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+tc.accessToken)
	}
	return tc.do(req)
}

// PostForm sends an application/x-www-form-urlencoded body.
func (tc *TestContext) PostForm(path string, form map[string]string) error {
	values := url.Values{}
	for key, value := range form {
		values.Set(key, value)
	}
	req, err := http.NewRequest(http.MethodPost, tc.baseURL+path, strings.NewReader(values.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return tc.do(req)
}

func (tc *TestContext) GET(path string, headers map[string]string) error {
	req, err := http.NewRequest(http.MethodGet, tc.baseURL+path, nil)
	if err != nil {
		return err
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	return tc.do(req)
}

func (tc *TestContext) do(req *http.Request) error {
	resp, err := tc.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	tc.lastStatus = resp.StatusCode
	tc.lastBody = body
	return nil
}

func (tc *TestContext) ResponseStatus() int  { return tc.lastStatus }
func (tc *TestContext) ResponseBody() string { return string(tc.lastBody) }

// GetResponseField reads one top-level field of the last JSON response.
func (tc *TestContext) GetResponseField(field string) (any, error) {
	var decoded map[string]any
	if err := json.Unmarshal(tc.lastBody, &decoded); err != nil {
		return nil, fmt.Errorf("response is not a JSON object: %s", tc.lastBody)
	}
	value, ok := decoded[field]
	if !ok {
		return nil, fmt.Errorf("response has no field %q: %s", field, tc.lastBody)
	}
	return value, nil
}

// Save and Saved pass values between steps, such as ids minted by the agent.
func (tc *TestContext) Save(key, value string) { tc.saved[key] = value }

func (tc *TestContext) Saved(key string) (string, error) {
	value, ok := tc.saved[key]
	if !ok {
		return "", fmt.Errorf("no %q was saved by an earlier step", key)
	}
	return value, nil
}

func (tc *TestContext) SetAccessToken(token string) { tc.accessToken = token }

func (tc *TestContext) WalletDID() string { return tc.walletDID }

// SignWalletJWT signs claims with the scenario's wallet key, the way a wallet
// produces proofs of possession and authorization response tokens.
func (tc *TestContext) SignWalletJWT(claims map[string]any) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodEdDSA, jwt.MapClaims(claims)).SignedString(tc.walletPriv)
}

// DecodeJWTPayload reads a JWT's claim set without verifying the signature;
// scenarios only use it to pick values out of artifacts the agent produced.
func (tc *TestContext) DecodeJWTPayload(token string) (map[string]any, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("not a JWT: %q", token)
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("decode JWT payload: %w", err)
	}
	var claims map[string]any
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, fmt.Errorf("parse JWT claims: %w", err)
	}
	return claims, nil
}
