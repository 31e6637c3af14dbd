package openid4vc

import "github.com/golang-jwt/jwt/v5"

// AuthorizationResponse is a wallet's answer to an authorization request,
// posted back to the verifier. Exactly one of IDToken or VPToken is expected;
// Response carries the combined signed-object encoding, which this agent does
// not interpret.
type AuthorizationResponse struct {
	IDToken  string `json:"id_token,omitempty"`
	VPToken  string `json:"vp_token,omitempty"`
	State    string `json:"state,omitempty"`
	Response string `json:"response,omitempty"`
}

// DecodeJWTClaims extracts the claim set of a compact JWT without verifying
// it. Signature verification is the caller's responsibility.
func DecodeJWTClaims(token string) (map[string]any, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, false
	}
	return claims, true
}
