package openid4vc

// Authorization response types a verifier can request.
const (
	ResponseTypeIDToken = "id_token" // SIOPv2: prove who you are
	ResponseTypeVPToken = "vp_token" // OpenID4VP: present credentials
)

// AuthorizationRequestObject is the signed request a verifier publishes at a
// reference URI. Exactly one of the two shapes exists per request: an
// identity-only SIOPv2 request (no presentation definition) or a
// presentation-bearing OpenID4VP request.
type AuthorizationRequestObject struct {
	Client                 string                  `json:"client_id"`
	ResponseType           string                  `json:"response_type"`
	ResponseMode           string                  `json:"response_mode,omitempty"`
	RedirectURI            string                  `json:"redirect_uri"`
	Scope                  string                  `json:"scope,omitempty"`
	Nonce                  string                  `json:"nonce"`
	State                  string                  `json:"state"`
	PresentationDefinition *PresentationDefinition `json:"presentation_definition,omitempty"`
}

// IsPresentationRequest reports whether the request asks for credentials
// rather than bare identity.
func (r AuthorizationRequestObject) IsPresentationRequest() bool {
	return r.PresentationDefinition != nil
}
