package signer

import (
	"crypto/ed25519"
	"crypto/sha256"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"

	dErrors "github.com/impierce/ssi-agent-sub000/pkg/domain-errors"
)

// Methods this agent can derive an identifier for.
const (
	MethodDIDKey = "did:key"
	MethodDIDWeb = "did:web"
)

// Subject holds the agent's ed25519 key pair and derives its decentralized
// identifiers. Key material access is serialized internally; callers share
// one Subject across aggregate types.
type Subject struct {
	mu   sync.Mutex
	priv ed25519.PrivateKey
	pub  ed25519.PublicKey

	// webHost backs the did:web method, taken from the agent's external URL.
	webHost string
}

// New derives a deterministic ed25519 key from the configured secret via
// HKDF-SHA256, so restarts keep the same identifiers.
func New(secret, externalURL string) (*Subject, error) {
	if secret == "" {
		return nil, fmt.Errorf("signing secret must not be empty")
	}

	seed := make([]byte, ed25519.SeedSize)
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte("ssi-agent-signing-key"))
	if _, err := io.ReadFull(kdf, seed); err != nil {
		return nil, fmt.Errorf("derive signing seed: %w", err)
	}

	priv := ed25519.NewKeyFromSeed(seed)

	webHost := ""
	if u, err := url.Parse(externalURL); err == nil && u.Host != "" {
		webHost = strings.ReplaceAll(u.Host, ":", "%3A")
	}

	return &Subject{
		priv:    priv,
		pub:     priv.Public().(ed25519.PublicKey),
		webHost: webHost,
	}, nil
}

// Identifier returns the agent's DID for the given method.
func (s *Subject) Identifier(method string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch method {
	case MethodDIDKey:
		return EncodeDIDKey(s.pub), nil
	case MethodDIDWeb:
		if s.webHost == "" {
			return "", dErrors.New(dErrors.CodeBadRequest, "did:web requires a configured external URL")
		}
		return "did:web:" + s.webHost, nil
	default:
		return "", dErrors.New(dErrors.CodeBadRequest, "unsupported did method: "+method)
	}
}

// Sign signs the message with the agent's key. The method selects the
// identifier the signature will be attributed to; all methods share the same
// ed25519 key.
func (s *Subject) Sign(message []byte, method string) ([]byte, error) {
	if _, err := s.Identifier(method); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return ed25519.Sign(s.priv, message), nil
}

// SignJWT signs the claims as an EdDSA JWT with the agent's DID as kid.
func (s *Subject) SignJWT(claims jwt.Claims, method string) (string, error) {
	did, err := s.Identifier(method)
	if err != nil {
		return "", err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	token.Header["kid"] = did + "#key-1"

	s.mu.Lock()
	defer s.mu.Unlock()
	signed, err := token.SignedString(s.priv)
	if err != nil {
		return "", fmt.Errorf("sign jwt: %w", err)
	}
	return signed, nil
}

// VerificationKey resolves a did:key identifier (optionally carrying a
// fragment) to its ed25519 public key, for verifying counter-party JWTs.
func VerificationKey(did string) (ed25519.PublicKey, error) {
	return DecodeDIDKey(did)
}
