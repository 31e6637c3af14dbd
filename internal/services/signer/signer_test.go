package signer

import (
	"crypto/ed25519"
	"crypto/rand"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "github.com/impierce/ssi-agent-sub000/pkg/domain-errors"
)

func Test_New_DerivationIsDeterministic(t *testing.T) {
	first, err := New("test-secret", "https://agent.example.com")
	require.NoError(t, err)
	second, err := New("test-secret", "https://agent.example.com")
	require.NoError(t, err)

	firstDID, err := first.Identifier(MethodDIDKey)
	require.NoError(t, err)
	secondDID, err := second.Identifier(MethodDIDKey)
	require.NoError(t, err)
	assert.Equal(t, firstDID, secondDID, "same secret derives the same identifier across restarts")

	other, err := New("other-secret", "https://agent.example.com")
	require.NoError(t, err)
	otherDID, err := other.Identifier(MethodDIDKey)
	require.NoError(t, err)
	assert.NotEqual(t, firstDID, otherDID)
}

func Test_New_RequiresSecret(t *testing.T) {
	_, err := New("", "https://agent.example.com")
	require.Error(t, err)
}

func Test_DIDKey_RoundTrip(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	did := EncodeDIDKey(pub)
	assert.True(t, strings.HasPrefix(did, "did:key:z"))

	decoded, err := DecodeDIDKey(did)
	require.NoError(t, err)
	assert.Equal(t, pub, decoded)

	// Fragments are stripped before decoding.
	withFragment, err := DecodeDIDKey(did + "#key-1")
	require.NoError(t, err)
	assert.Equal(t, pub, withFragment)
}

func Test_DecodeDIDKey_RejectsOtherMethods(t *testing.T) {
	_, err := DecodeDIDKey("did:web:agent.example.com")
	require.Error(t, err)
}

func Test_Identifier_DIDWeb(t *testing.T) {
	s, err := New("test-secret", "https://agent.example.com:3033")
	require.NoError(t, err)

	did, err := s.Identifier(MethodDIDWeb)
	require.NoError(t, err)
	assert.Equal(t, "did:web:agent.example.com%3A3033", did)
}

func Test_Identifier_UnsupportedMethod(t *testing.T) {
	s, err := New("test-secret", "https://agent.example.com")
	require.NoError(t, err)

	_, err = s.Identifier("did:ion")
	require.Error(t, err)

	var domainErr *dErrors.Error
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, dErrors.CodeBadRequest, domainErr.Code)
}

func Test_SignJWT_VerifiesAgainstOwnDID(t *testing.T) {
	s, err := New("test-secret", "https://agent.example.com")
	require.NoError(t, err)

	did, err := s.Identifier(MethodDIDKey)
	require.NoError(t, err)

	signed, err := s.SignJWT(jwt.MapClaims{"iss": did}, MethodDIDKey)
	require.NoError(t, err)

	publicKey, err := VerificationKey(did)
	require.NoError(t, err)

	parsed, err := jwt.NewParser(jwt.WithValidMethods([]string{"EdDSA"})).Parse(signed, func(token *jwt.Token) (any, error) {
		assert.Equal(t, did+"#key-1", token.Header["kid"])
		return publicKey, nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
}

func Test_Sign_RawMessage(t *testing.T) {
	s, err := New("test-secret", "https://agent.example.com")
	require.NoError(t, err)

	signature, err := s.Sign([]byte("payload"), MethodDIDKey)
	require.NoError(t, err)

	did, err := s.Identifier(MethodDIDKey)
	require.NoError(t, err)
	publicKey, err := DecodeDIDKey(did)
	require.NoError(t, err)
	assert.True(t, ed25519.Verify(publicKey, []byte("payload"), signature))
}
