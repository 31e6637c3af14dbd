package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/impierce/ssi-agent-sub000/internal/identity/document"
	"github.com/impierce/ssi-agent-sub000/internal/services/signer"
	dErrors "github.com/impierce/ssi-agent-sub000/pkg/domain-errors"
)

const AggregateType = "service"

var (
	ErrServiceAlreadyCreated = dErrors.New(dErrors.CodeConflict, "this service was already created")
	ErrMissingPresentationID = dErrors.New(dErrors.CodeBadRequest, "a presentation id is required to link a presentation")
)

// Command is the closed set of service commands.
type Command interface {
	CommandType() string
	isServiceCommand()
}

// CreateDomainLinkageService proves control of the agent's domain by signing
// a domain-linkage credential bound to the external URL.
type CreateDomainLinkageService struct {
	ServiceID string
}

// CreateLinkedVerifiablePresentationService publishes a service entry
// pointing at one of the agent's signed presentations.
type CreateLinkedVerifiablePresentationService struct {
	ServiceID      string
	PresentationID string
}

func (CreateDomainLinkageService) CommandType() string { return "CreateDomainLinkageService" }
func (CreateLinkedVerifiablePresentationService) CommandType() string {
	return "CreateLinkedVerifiablePresentationService"
}

func (CreateDomainLinkageService) isServiceCommand()                {}
func (CreateLinkedVerifiablePresentationService) isServiceCommand() {}

// Services are the collaborators a service entry needs.
type Services struct {
	Signer *signer.Subject

	ExternalURL string
	DIDMethod   string
}

// Service tracks one service entry published under the agent's document.
type Service struct {
	svc Services

	created bool
}

func New(svc Services) *Service { return &Service{svc: svc} }

func (*Service) AggregateType() string { return AggregateType }

func (s *Service) Handle(ctx context.Context, cmd Command) ([]Event, error) {
	switch cmd := cmd.(type) {
	case CreateDomainLinkageService:
		if s.created {
			return nil, ErrServiceAlreadyCreated
		}
		return s.createDomainLinkage(cmd)

	case CreateLinkedVerifiablePresentationService:
		if s.created {
			return nil, ErrServiceAlreadyCreated
		}
		if cmd.PresentationID == "" {
			return nil, ErrMissingPresentationID
		}
		base := strings.TrimSuffix(s.svc.ExternalURL, "/")
		return []Event{&LinkedVerifiablePresentationServiceCreated{
			Service: document.ServiceEndpoint{
				ID:              cmd.ServiceID,
				Type:            "LinkedVerifiablePresentation",
				ServiceEndpoint: base + "/holder/presentations/" + cmd.PresentationID,
			},
		}}, nil

	default:
		return nil, fmt.Errorf("unhandled service command %T", cmd)
	}
}

// domainLinkageClaims is the claim set of a domain-linkage credential.
type domainLinkageClaims struct {
	VC struct {
		Context           []string       `json:"@context"`
		Type              []string       `json:"type"`
		CredentialSubject map[string]any `json:"credentialSubject"`
	} `json:"vc"`
	jwt.RegisteredClaims
}

func (s *Service) createDomainLinkage(cmd CreateDomainLinkageService) ([]Event, error) {
	did, err := s.svc.Signer.Identifier(s.svc.DIDMethod)
	if err != nil {
		return nil, err
	}

	origin := strings.TrimSuffix(s.svc.ExternalURL, "/")
	claims := domainLinkageClaims{}
	claims.VC.Context = []string{
		"https://www.w3.org/2018/credentials/v1",
		"https://identity.foundation/.well-known/did-configuration/v1",
	}
	claims.VC.Type = []string{"VerifiableCredential", "DomainLinkageCredential"}
	claims.VC.CredentialSubject = map[string]any{"id": did, "origin": origin}
	claims.Issuer = did
	claims.Subject = did
	claims.IssuedAt = jwt.NewNumericDate(time.Now())

	signed, err := s.svc.Signer.SignJWT(claims, s.svc.DIDMethod)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "sign domain linkage credential")
	}

	return []Event{&DomainLinkageServiceCreated{
		Service: document.ServiceEndpoint{
			ID:              cmd.ServiceID,
			Type:            "LinkedDomains",
			ServiceEndpoint: origin,
		},
		SignedCredential: signed,
	}}, nil
}

func (s *Service) Apply(event Event) error {
	switch event.(type) {
	case *DomainLinkageServiceCreated, *LinkedVerifiablePresentationServiceCreated:
		s.created = true
	default:
		return fmt.Errorf("unhandled service event %T", event)
	}
	return nil
}
