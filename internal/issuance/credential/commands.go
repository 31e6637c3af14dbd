package credential

import "encoding/json"

// Command is the closed set of credential commands.
type Command interface {
	CommandType() string
	isCredentialCommand()
}

// CreateUnsignedCredential records the credential data supplied for an offer
// before it is signed.
type CreateUnsignedCredential struct {
	OfferID                   string
	CredentialConfigurationID string
	Subject                   json.RawMessage
}

// SignCredential signs the credential for the verified subject. Signing an
// already signed credential is a no-op.
type SignCredential struct {
	SubjectID string
	Format    string
}

func (CreateUnsignedCredential) CommandType() string { return "CreateUnsignedCredential" }
func (SignCredential) CommandType() string           { return "SignCredential" }

func (CreateUnsignedCredential) isCredentialCommand() {}
func (SignCredential) isCredentialCommand()           {}
