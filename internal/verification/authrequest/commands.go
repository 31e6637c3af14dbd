package authrequest

import "github.com/impierce/ssi-agent-sub000/internal/openid4vc"

// Command is the closed set of authorization request commands.
type Command interface {
	CommandType() string
	isAuthRequestCommand()
}

// CreateAuthorizationRequest builds the request object a wallet will resolve.
// Supplying a presentation definition selects the presentation-bearing shape;
// leaving it out selects the identity-only shape.
type CreateAuthorizationRequest struct {
	// RequestID names the reference URI the signed object is published at.
	RequestID string

	// Nonce is chosen by the caller and echoed back in the wallet's response.
	Nonce string

	PresentationDefinition *openid4vc.PresentationDefinition
}

// SignAuthorizationRequestObject signs the previously created request object.
type SignAuthorizationRequestObject struct{}

func (CreateAuthorizationRequest) CommandType() string     { return "CreateAuthorizationRequest" }
func (SignAuthorizationRequestObject) CommandType() string { return "SignAuthorizationRequestObject" }

func (CreateAuthorizationRequest) isAuthRequestCommand()     {}
func (SignAuthorizationRequestObject) isAuthRequestCommand() {}
