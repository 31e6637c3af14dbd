package authrequest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/impierce/ssi-agent-sub000/internal/openid4vc"
	"github.com/impierce/ssi-agent-sub000/internal/services/signer"
	dErrors "github.com/impierce/ssi-agent-sub000/pkg/domain-errors"
)

const AggregateType = "authorization_request"

var (
	ErrRequestAlreadyCreated  = dErrors.New(dErrors.CodeConflict, "an authorization request was already created")
	ErrMissingNonce           = dErrors.New(dErrors.CodeBadRequest, "a nonce is required to create an authorization request")
	ErrMissingRequestID       = dErrors.New(dErrors.CodeBadRequest, "a request id is required to build the reference uri")
	ErrNoAuthorizationRequest = dErrors.New(dErrors.CodeInvalidState, "no authorization request has been created")
)

// Services are the collaborators the verifier side needs to build and sign
// authorization requests.
type Services struct {
	Signer *signer.Subject

	// ExternalURL is where this agent publishes request objects and receives
	// responses.
	ExternalURL string
	DIDMethod   string
}

// AuthorizationRequest tracks one verifier-initiated authentication or
// presentation exchange up to the signed request object.
type AuthorizationRequest struct {
	svc Services

	requestObject       *openid4vc.AuthorizationRequestObject
	requestURI          string
	signedRequestObject string
}

func New(svc Services) *AuthorizationRequest { return &AuthorizationRequest{svc: svc} }

func (*AuthorizationRequest) AggregateType() string { return AggregateType }

func (a *AuthorizationRequest) Handle(ctx context.Context, cmd Command) ([]Event, error) {
	switch cmd := cmd.(type) {
	case CreateAuthorizationRequest:
		return a.create(cmd)
	case SignAuthorizationRequestObject:
		return a.sign()
	default:
		return nil, fmt.Errorf("unhandled authorization request command %T", cmd)
	}
}

func (a *AuthorizationRequest) create(cmd CreateAuthorizationRequest) ([]Event, error) {
	if a.requestObject != nil {
		return nil, ErrRequestAlreadyCreated
	}
	if cmd.Nonce == "" {
		return nil, ErrMissingNonce
	}
	if cmd.RequestID == "" {
		return nil, ErrMissingRequestID
	}

	clientID, err := a.svc.Signer.Identifier(a.svc.DIDMethod)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "build authorization request")
	}

	base := strings.TrimSuffix(a.svc.ExternalURL, "/")
	object := openid4vc.AuthorizationRequestObject{
		Client:       clientID,
		ResponseMode: "direct_post",
		RedirectURI:  base + "/redirect",
		Nonce:        cmd.Nonce,
		State:        uuid.NewString(),
	}
	requestURI := base + "/request/" + cmd.RequestID

	if cmd.PresentationDefinition != nil {
		object.ResponseType = openid4vc.ResponseTypeVPToken
		object.PresentationDefinition = cmd.PresentationDefinition
		return []Event{&OID4VPAuthorizationRequestCreated{
			RequestObject: object,
			RequestURI:    requestURI,
		}}, nil
	}

	object.ResponseType = openid4vc.ResponseTypeIDToken
	object.Scope = "openid"
	return []Event{&SIOPv2AuthorizationRequestCreated{
		RequestObject: object,
		RequestURI:    requestURI,
	}}, nil
}

// requestObjectClaims is the claim set of the signed request object JWT.
type requestObjectClaims struct {
	openid4vc.AuthorizationRequestObject
	jwt.RegisteredClaims
}

func (a *AuthorizationRequest) sign() ([]Event, error) {
	if a.requestObject == nil {
		return nil, ErrNoAuthorizationRequest
	}
	if a.signedRequestObject != "" {
		return nil, nil
	}

	claims := requestObjectClaims{
		AuthorizationRequestObject: *a.requestObject,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   a.requestObject.Client,
			Subject:  a.requestObject.Client,
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	signed, err := a.svc.Signer.SignJWT(claims, a.svc.DIDMethod)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "sign authorization request object")
	}

	return []Event{&AuthorizationRequestObjectSigned{SignedRequestObject: signed}}, nil
}

func (a *AuthorizationRequest) Apply(event Event) error {
	switch event := event.(type) {
	case *SIOPv2AuthorizationRequestCreated:
		object := event.RequestObject
		a.requestObject = &object
		a.requestURI = event.RequestURI
	case *OID4VPAuthorizationRequestCreated:
		object := event.RequestObject
		a.requestObject = &object
		a.requestURI = event.RequestURI
	case *AuthorizationRequestObjectSigned:
		a.signedRequestObject = event.SignedRequestObject
	default:
		return fmt.Errorf("unhandled authorization request event %T", event)
	}
	return nil
}
