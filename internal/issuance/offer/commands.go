package offer

import "github.com/impierce/ssi-agent-sub000/internal/openid4vc"

// Command is the closed set of offer commands. Each variant is matched
// exhaustively in Handle; there is no shape-based decoding.
type Command interface {
	CommandType() string
	isOfferCommand()
}

// CreateCredentialOffer starts a new offer. A pre-authorized code is minted
// unless the caller supplies one.
type CreateCredentialOffer struct {
	CredentialConfigurationID string
	PreAuthorizedCode         string
}

// AddCredentials attaches the credential ids issued under this offer.
type AddCredentials struct {
	CredentialIDs []string
}

// CreateFormURLEncodedCredentialOffer renders the offer as a wallet deep
// link. The caller passes the issuer metadata it wants advertised; the
// command fails when none is available.
type CreateFormURLEncodedCredentialOffer struct {
	CredentialIssuerMetadata *openid4vc.CredentialIssuerMetadata
}

// CreateTokenResponse exchanges a pre-authorized code for a fresh bearer
// token and c_nonce.
type CreateTokenResponse struct {
	TokenRequest openid4vc.TokenRequest
}

// VerifyCredentialRequest validates a wallet's credential request, most
// importantly its signed proof of possession.
type VerifyCredentialRequest struct {
	CredentialRequest openid4vc.CredentialRequest
}

// CreateCredentialResponse finalizes the offer with the signed credential.
type CreateCredentialResponse struct {
	SignedCredentials []string
}

func (CreateCredentialOffer) CommandType() string               { return "CreateCredentialOffer" }
func (AddCredentials) CommandType() string                      { return "AddCredentials" }
func (CreateFormURLEncodedCredentialOffer) CommandType() string { return "CreateFormUrlEncodedCredentialOffer" }
func (CreateTokenResponse) CommandType() string                 { return "CreateTokenResponse" }
func (VerifyCredentialRequest) CommandType() string             { return "VerifyCredentialRequest" }
func (CreateCredentialResponse) CommandType() string            { return "CreateCredentialResponse" }

func (CreateCredentialOffer) isOfferCommand()               {}
func (AddCredentials) isOfferCommand()                      {}
func (CreateFormURLEncodedCredentialOffer) isOfferCommand() {}
func (CreateTokenResponse) isOfferCommand()                 {}
func (VerifyCredentialRequest) isOfferCommand()             {}
func (CreateCredentialResponse) isOfferCommand()            {}
