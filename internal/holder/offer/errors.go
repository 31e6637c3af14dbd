package offer

import dErrors "github.com/impierce/ssi-agent-sub000/pkg/domain-errors"

var (
	ErrMissingOffer             = dErrors.New(dErrors.CodeBadRequest, "neither an inline offer nor an offer reference was provided")
	ErrOfferAlreadyReceived     = dErrors.New(dErrors.CodeConflict, "a credential offer was already received")
	ErrNoOfferReceived          = dErrors.New(dErrors.CodeInvalidState, "no credential offer has been received")
	ErrOfferNotPending          = dErrors.New(dErrors.CodeInvalidState, "the credential offer is no longer pending")
	ErrOfferNotAccepted         = dErrors.New(dErrors.CodeInvalidState, "the credential offer has not been accepted")
	ErrMissingPreAuthorizedCode = dErrors.New(dErrors.CodeBadRequest, "the offer does not carry a pre-authorized code grant")
	ErrUnknownConfiguration     = dErrors.New(dErrors.CodeMissingMetadata, "the offer names a credential configuration the issuer does not advertise")
	ErrNoTokenReceived          = dErrors.New(dErrors.CodeInvalidState, "no token response has been received for this offer")
	ErrBatchUnsupported         = dErrors.New(dErrors.CodeUnsupported, "offers with multiple credential configurations are not supported")
)
