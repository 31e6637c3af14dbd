package offer

import "github.com/impierce/ssi-agent-sub000/internal/openid4vc"

// Command is the closed set of held-offer commands.
type Command interface {
	CommandType() string
	isHeldOfferCommand()
}

// ReceiveCredentialOffer records an offer presented to this holder, either
// inline or by reference. The issuer's metadata is fetched and its supported
// credential configurations are filtered down to the ones the offer names.
type ReceiveCredentialOffer struct {
	// OfferURI references an offer to be resolved via the protocol client.
	// Ignored when Offer is set.
	OfferURI string

	// Offer is an inline credential offer.
	Offer *openid4vc.CredentialOffer
}

// AcceptCredentialOffer exchanges the offer's pre-authorized code for a
// bearer token at the issuer's authorization server.
type AcceptCredentialOffer struct{}

// SendCredentialRequest requests the offered credential from the issuer,
// proving key possession against the token's c_nonce.
type SendCredentialRequest struct{}

// RejectCredentialOffer declines an offer. Valid only while the offer is
// still pending.
type RejectCredentialOffer struct{}

func (ReceiveCredentialOffer) CommandType() string { return "ReceiveCredentialOffer" }
func (AcceptCredentialOffer) CommandType() string  { return "AcceptCredentialOffer" }
func (SendCredentialRequest) CommandType() string  { return "SendCredentialRequest" }
func (RejectCredentialOffer) CommandType() string  { return "RejectCredentialOffer" }

func (ReceiveCredentialOffer) isHeldOfferCommand() {}
func (AcceptCredentialOffer) isHeldOfferCommand()  {}
func (SendCredentialRequest) isHeldOfferCommand()  {}
func (RejectCredentialOffer) isHeldOfferCommand()  {}
