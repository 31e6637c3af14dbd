package openid4vc

// TokenRequest is the pre-authorized code exchange request.
type TokenRequest struct {
	GrantType         string `json:"grant_type"`
	PreAuthorizedCode string `json:"pre-authorized_code"`
}

// TokenResponse is the bearer token handed out for a valid pre-authorized
// code. CNonce binds the subsequent proof of possession to this exchange.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in,omitempty"`
	CNonce      string `json:"c_nonce,omitempty"`
}

// CredentialRequest asks the credential endpoint for one credential, proving
// key possession with a signed proof bound to the token's c_nonce.
type CredentialRequest struct {
	Format               string                `json:"format"`
	CredentialDefinition *CredentialDefinition `json:"credential_definition,omitempty"`
	Proof                *Proof                `json:"proof,omitempty"`
}

// Proof is a signed statement whose issuer claim identifies the credential
// subject, bound to the issuer's audience and the most recent c_nonce.
type Proof struct {
	ProofType string `json:"proof_type"`
	JWT       string `json:"jwt"`
}

// CredentialResponse carries the issued credential.
type CredentialResponse struct {
	Format     string `json:"format"`
	Credential string `json:"credential"`
}
