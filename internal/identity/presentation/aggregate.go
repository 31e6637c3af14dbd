package presentation

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/impierce/ssi-agent-sub000/internal/services/signer"
	dErrors "github.com/impierce/ssi-agent-sub000/pkg/domain-errors"
)

const AggregateType = "presentation"

var (
	ErrNoCredentials          = dErrors.New(dErrors.CodeBadRequest, "a presentation needs at least one signed credential")
	ErrPresentationExists     = dErrors.New(dErrors.CodeConflict, "this presentation was already created")
	ErrPresentationNotCreated = dErrors.New(dErrors.CodeInvalidState, "no presentation has been created")
)

// Command is the closed set of presentation commands.
type Command interface {
	CommandType() string
	isPresentationCommand()
}

// CreatePresentation bundles signed credentials into a presentation.
type CreatePresentation struct {
	SignedCredentials []string
}

// SignPresentation signs the bundled credentials as a JWT presentation.
type SignPresentation struct{}

func (CreatePresentation) CommandType() string { return "CreatePresentation" }
func (SignPresentation) CommandType() string   { return "SignPresentation" }

func (CreatePresentation) isPresentationCommand() {}
func (SignPresentation) isPresentationCommand()   {}

// Services are the collaborators consulted while signing.
type Services struct {
	Signer *signer.Subject

	DIDMethod string
}

// Presentation bundles credentials held by this agent into one signed,
// publishable artifact.
type Presentation struct {
	svc Services

	created            bool
	signedCredentials  []string
	signedPresentation string
}

func New(svc Services) *Presentation { return &Presentation{svc: svc} }

func (*Presentation) AggregateType() string { return AggregateType }

func (p *Presentation) Handle(ctx context.Context, cmd Command) ([]Event, error) {
	switch cmd := cmd.(type) {
	case CreatePresentation:
		if p.created {
			return nil, ErrPresentationExists
		}
		if len(cmd.SignedCredentials) == 0 {
			return nil, ErrNoCredentials
		}
		return []Event{&PresentationCreated{SignedCredentials: cmd.SignedCredentials}}, nil

	case SignPresentation:
		if !p.created {
			return nil, ErrPresentationNotCreated
		}
		if p.signedPresentation != "" {
			// Already signed; signing is idempotent.
			return nil, nil
		}
		signed, err := p.sign()
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "sign presentation")
		}
		return []Event{&PresentationSigned{SignedPresentation: signed}}, nil

	default:
		return nil, fmt.Errorf("unhandled presentation command %T", cmd)
	}
}

// vpClaims is the claim set of a JWT verifiable presentation.
type vpClaims struct {
	VP struct {
		Context              []string `json:"@context"`
		Type                 []string `json:"type"`
		VerifiableCredential []string `json:"verifiableCredential"`
	} `json:"vp"`
	jwt.RegisteredClaims
}

func (p *Presentation) sign() (string, error) {
	did, err := p.svc.Signer.Identifier(p.svc.DIDMethod)
	if err != nil {
		return "", err
	}

	claims := vpClaims{}
	claims.VP.Context = []string{"https://www.w3.org/2018/credentials/v1"}
	claims.VP.Type = []string{"VerifiablePresentation"}
	claims.VP.VerifiableCredential = p.signedCredentials
	claims.Issuer = did
	claims.Subject = did
	claims.IssuedAt = jwt.NewNumericDate(time.Now())

	return p.svc.Signer.SignJWT(claims, p.svc.DIDMethod)
}

func (p *Presentation) Apply(event Event) error {
	switch event := event.(type) {
	case *PresentationCreated:
		p.created = true
		p.signedCredentials = event.SignedCredentials
	case *PresentationSigned:
		p.signedPresentation = event.SignedPresentation
	default:
		return fmt.Errorf("unhandled presentation event %T", event)
	}
	return nil
}
