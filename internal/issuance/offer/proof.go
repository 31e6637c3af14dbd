package offer

import (
	"slices"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/impierce/ssi-agent-sub000/internal/openid4vc"
	"github.com/impierce/ssi-agent-sub000/internal/services/signer"
)

// proofClaims is the claim set of a proof-of-possession JWT. The issuer claim
// identifies the credential subject; nonce and audience bind the proof to the
// token response previously issued for this offer.
type proofClaims struct {
	Nonce string `json:"nonce"`
	jwt.RegisteredClaims
}

// verifyProof validates a wallet's proof of possession against the issuer's
// registered signature algorithms and identifier-method set, and binds it to
// the audience and c_nonce of the most recently issued token response.
// It returns the subject DID on success.
func (o *Offer) verifyProof(proof *openid4vc.Proof) (string, error) {
	if proof == nil || proof.JWT == "" {
		return "", ErrMissingProof
	}

	// The issuer claim names the key the proof is signed with, so it has to
	// be read before signature verification.
	unverified := jwt.NewParser()
	claims := &proofClaims{}
	if _, _, err := unverified.ParseUnverified(proof.JWT, claims); err != nil {
		return "", ErrInvalidProof
	}
	if claims.Issuer == "" {
		return "", ErrMissingProofIssuer
	}
	if !o.supportedMethod(claims.Issuer) {
		return "", ErrUnsupportedProofMethod
	}

	publicKey, err := signer.VerificationKey(claims.Issuer)
	if err != nil {
		return "", ErrInvalidProof
	}

	verified := jwt.NewParser(
		jwt.WithValidMethods(o.svc.SupportedSigningAlgorithms),
		jwt.WithAudience(o.svc.CredentialIssuer),
	)
	parsed, err := verified.ParseWithClaims(proof.JWT, &proofClaims{}, func(*jwt.Token) (any, error) {
		return publicKey, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidProof
	}

	bound, ok := parsed.Claims.(*proofClaims)
	if !ok || bound.Nonce == "" || bound.Nonce != o.tokenResponse.CNonce {
		return "", ErrInvalidProof
	}
	return bound.Issuer, nil
}

func (o *Offer) supportedMethod(did string) bool {
	return slices.ContainsFunc(o.svc.SupportedDIDMethods, func(method string) bool {
		return strings.HasPrefix(did, method+":")
	})
}
