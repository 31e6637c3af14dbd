package openid4vc

// FormatJWTVCJSON is the only credential format this agent issues.
const FormatJWTVCJSON = "jwt_vc_json"

// CredentialIssuerMetadata is the issuer's published metadata document.
type CredentialIssuerMetadata struct {
	CredentialIssuer                  string                             `json:"credential_issuer"`
	AuthorizationServers              []string                           `json:"authorization_servers,omitempty"`
	CredentialEndpoint                string                             `json:"credential_endpoint"`
	CredentialConfigurationsSupported map[string]CredentialConfiguration `json:"credential_configurations_supported"`
}

// CredentialConfiguration describes one issuable credential.
type CredentialConfiguration struct {
	Format                               string               `json:"format"`
	CredentialDefinition                 CredentialDefinition `json:"credential_definition"`
	CryptographicBindingMethodsSupported []string             `json:"cryptographic_binding_methods_supported,omitempty"`
	ProofSigningAlgValuesSupported       []string             `json:"proof_signing_alg_values_supported,omitempty"`
}

// CredentialDefinition names the credential type being issued.
type CredentialDefinition struct {
	Type []string `json:"type"`
}

// AuthorizationServerMetadata is the OAuth metadata document of the issuer's
// authorization server.
type AuthorizationServerMetadata struct {
	Issuer        string `json:"issuer"`
	TokenEndpoint string `json:"token_endpoint"`
}
