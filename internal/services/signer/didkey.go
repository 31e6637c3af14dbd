package signer

import (
	"crypto/ed25519"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
)

// did:key encodes an ed25519 public key as a multibase base58btc string with
// the 0xed01 multicodec prefix.
const didKeyPrefix = "did:key:z"

var multicodecEd25519 = []byte{0xed, 0x01}

// EncodeDIDKey derives the did:key identifier for an ed25519 public key.
func EncodeDIDKey(pub ed25519.PublicKey) string {
	raw := append(append([]byte{}, multicodecEd25519...), pub...)
	return didKeyPrefix + base58.Encode(raw)
}

// DecodeDIDKey extracts the ed25519 public key from a did:key identifier.
// Fragments (#key-1) are tolerated and stripped.
func DecodeDIDKey(did string) (ed25519.PublicKey, error) {
	did, _, _ = strings.Cut(did, "#")
	encoded, ok := strings.CutPrefix(did, didKeyPrefix)
	if !ok {
		return nil, fmt.Errorf("not a base58btc did:key: %q", did)
	}
	raw, err := base58.Decode(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode did:key %q: %w", did, err)
	}
	if len(raw) != len(multicodecEd25519)+ed25519.PublicKeySize ||
		raw[0] != multicodecEd25519[0] || raw[1] != multicodecEd25519[1] {
		return nil, fmt.Errorf("did:key %q does not carry an ed25519 key", did)
	}
	return ed25519.PublicKey(raw[2:]), nil
}
