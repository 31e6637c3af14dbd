package openid4vc

import (
	"encoding/json"
	"fmt"
	"net/url"
)

// GrantTypePreAuthorizedCode is the grant used by the pre-authorized code flow.
const GrantTypePreAuthorizedCode = "urn:ietf:params:oauth:grant-type:pre-authorized_code"

// CredentialOffer is the object an issuer hands to a wallet, inline or by
// reference, to start the issuance flow.
type CredentialOffer struct {
	CredentialIssuer           string   `json:"credential_issuer"`
	CredentialConfigurationIDs []string `json:"credential_configuration_ids"`
	Grants                     *Grants  `json:"grants,omitempty"`
}

// Grants carries the authorization grants offered alongside the credentials.
// Only the pre-authorized code grant is supported.
type Grants struct {
	PreAuthorizedCode *PreAuthorizedCodeGrant `json:"urn:ietf:params:oauth:grant-type:pre-authorized_code,omitempty"`
}

// PreAuthorizedCodeGrant holds the one-time code a wallet exchanges for a
// bearer token without interactive authorization.
type PreAuthorizedCodeGrant struct {
	PreAuthorizedCode string `json:"pre-authorized_code"`
}

// FormURLEncoded renders the offer as the credential_offer query parameter
// form used in openid-credential-offer:// deep links.
func (o CredentialOffer) FormURLEncoded() (string, error) {
	raw, err := json.Marshal(o)
	if err != nil {
		return "", fmt.Errorf("encode credential offer: %w", err)
	}
	values := url.Values{}
	values.Set("credential_offer", string(raw))
	return "openid-credential-offer://?" + values.Encode(), nil
}
