package connection

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/impierce/ssi-agent-sub000/internal/openid4vc"
	"github.com/impierce/ssi-agent-sub000/internal/services/signer"
)

const AggregateType = "connection"

// RequestResolver correlates a response's state value back to the
// authorization request it answers. The second return value is false when no
// request carries that state.
type RequestResolver func(ctx context.Context, state string) (*openid4vc.AuthorizationRequestObject, bool, error)

// Services are the collaborators a connection needs to validate responses.
type Services struct {
	RequestByState RequestResolver

	// SupportedSigningAlgorithms restricts which JWT algorithms wallet
	// responses may be signed with.
	SupportedSigningAlgorithms []string
}

// Connection tracks the verified relationship established by one wallet
// response.
type Connection struct {
	svc Services

	verified bool
}

func New(svc Services) *Connection { return &Connection{svc: svc} }

func (*Connection) AggregateType() string { return AggregateType }

func (c *Connection) Handle(ctx context.Context, cmd Command) ([]Event, error) {
	switch cmd := cmd.(type) {
	case VerifyAuthorizationResponse:
		return c.verify(ctx, cmd.Response)
	default:
		return nil, fmt.Errorf("unhandled connection command %T", cmd)
	}
}

func (c *Connection) verify(ctx context.Context, response openid4vc.AuthorizationResponse) ([]Event, error) {
	if response.Response != "" {
		return nil, ErrUnsupportedResponseType
	}
	if response.State == "" {
		return nil, ErrMissingState
	}

	request, found, err := c.svc.RequestByState(ctx, response.State)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrUnknownState
	}

	if request.IsPresentationRequest() {
		if response.VPToken == "" {
			return nil, ErrMissingToken
		}
		if err := c.verifyPresentation(request, response.VPToken); err != nil {
			return nil, err
		}
		return []Event{&OID4VPAuthorizationResponseVerified{
			VPToken: response.VPToken,
			State:   response.State,
		}}, nil
	}

	if response.IDToken == "" {
		return nil, ErrMissingToken
	}
	if err := c.verifyIdentity(request, response.IDToken); err != nil {
		return nil, err
	}
	return []Event{&SIOPv2AuthorizationResponseVerified{
		IDToken: response.IDToken,
		State:   response.State,
	}}, nil
}

// responseClaims is the claim set shared by id_token and vp_token responses.
// Nonce binds the response to the request; VP is only present on vp_tokens.
type responseClaims struct {
	Nonce string     `json:"nonce"`
	VP    *vpPayload `json:"vp,omitempty"`
	jwt.RegisteredClaims
}

type vpPayload struct {
	VerifiableCredential []string `json:"verifiableCredential"`
}

func (c *Connection) verifyIdentity(request *openid4vc.AuthorizationRequestObject, idToken string) error {
	_, err := c.verifyToken(request, idToken)
	return err
}

func (c *Connection) verifyPresentation(request *openid4vc.AuthorizationRequestObject, vpToken string) error {
	claims, err := c.verifyToken(request, vpToken)
	if err != nil {
		return err
	}
	if claims.VP == nil {
		return ErrInvalidResponse
	}

	credentials := make([]map[string]any, 0, len(claims.VP.VerifiableCredential))
	for _, credential := range claims.VP.VerifiableCredential {
		decoded, ok := openid4vc.DecodeJWTClaims(credential)
		if !ok {
			return ErrInvalidResponse
		}
		credentials = append(credentials, decoded)
	}
	if !request.PresentationDefinition.Satisfies(credentials) {
		return ErrDefinitionNotSatisfied
	}
	return nil
}

// verifyToken checks the response token's signature against the wallet's
// decentralized identifier and binds it to the request's nonce and the
// verifier's client id.
func (c *Connection) verifyToken(request *openid4vc.AuthorizationRequestObject, token string) (*responseClaims, error) {
	unverified := &responseClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, unverified); err != nil {
		return nil, ErrInvalidResponse
	}
	if unverified.Issuer == "" {
		return nil, ErrInvalidResponse
	}

	publicKey, err := signer.VerificationKey(unverified.Issuer)
	if err != nil {
		return nil, ErrInvalidResponse
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods(c.svc.SupportedSigningAlgorithms),
		jwt.WithAudience(request.Client),
	)
	parsed, err := parser.ParseWithClaims(token, &responseClaims{}, func(*jwt.Token) (any, error) {
		return publicKey, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidResponse
	}

	claims, ok := parsed.Claims.(*responseClaims)
	if !ok || claims.Nonce == "" || claims.Nonce != request.Nonce {
		return nil, ErrInvalidResponse
	}
	return claims, nil
}

func (c *Connection) Apply(event Event) error {
	switch event.(type) {
	case *SIOPv2AuthorizationResponseVerified, *OID4VPAuthorizationResponseVerified:
		c.verified = true
	default:
		return fmt.Errorf("unhandled connection event %T", event)
	}
	return nil
}
