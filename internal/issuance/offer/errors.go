package offer

import dErrors "github.com/impierce/ssi-agent-sub000/pkg/domain-errors"

// The offer aggregate's closed error taxonomy. Every rejected command
// returns one of these, never a raw transport or crypto error.
var (
	ErrOfferNotCreated          = dErrors.New(dErrors.CodeInvalidState, "credential offer does not exist")
	ErrMissingIssuerMetadata    = dErrors.New(dErrors.CodeMissingMetadata, "credential issuer metadata is missing")
	ErrInvalidPreAuthorizedCode = dErrors.New(dErrors.CodeInvalidPreAuthorizedCode, "invalid pre-authorized code")
	ErrTokenNotIssued           = dErrors.New(dErrors.CodeInvalidState, "no token response was issued for this offer")
	ErrMissingProof             = dErrors.New(dErrors.CodeInvalidProof, "credential request carries no proof of possession")
	ErrMissingProofIssuer       = dErrors.New(dErrors.CodeInvalidProof, "proof of possession carries no issuer claim")
	ErrUnsupportedProofMethod   = dErrors.New(dErrors.CodeInvalidProof, "proof issuer uses an unsupported did method")
	ErrInvalidProof             = dErrors.New(dErrors.CodeInvalidProof, "proof of possession is invalid")
	ErrRequestNotVerified       = dErrors.New(dErrors.CodeInvalidState, "credential request was not verified")
	ErrMissingSignedCredentials = dErrors.New(dErrors.CodeInvalidState, "no signed credentials available for this offer")
	ErrBatchResponseUnsupported = dErrors.New(dErrors.CodeUnsupported, "batch credential responses are not supported")
)
