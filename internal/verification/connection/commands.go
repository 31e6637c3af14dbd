package connection

import "github.com/impierce/ssi-agent-sub000/internal/openid4vc"

// Command is the closed set of connection commands.
type Command interface {
	CommandType() string
	isConnectionCommand()
}

// VerifyAuthorizationResponse validates a wallet's response against the
// authorization request its state value correlates to.
type VerifyAuthorizationResponse struct {
	Response openid4vc.AuthorizationResponse
}

func (VerifyAuthorizationResponse) CommandType() string  { return "VerifyAuthorizationResponse" }
func (VerifyAuthorizationResponse) isConnectionCommand() {}
