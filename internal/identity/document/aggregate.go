package document

import (
	"context"
	"fmt"
	"slices"

	"github.com/impierce/ssi-agent-sub000/internal/services/signer"
	dErrors "github.com/impierce/ssi-agent-sub000/pkg/domain-errors"
)

const AggregateType = "document"

var (
	ErrDocumentAlreadyExists  = dErrors.New(dErrors.CodeConflict, "a document for this method already exists")
	ErrDocumentNotCreated     = dErrors.New(dErrors.CodeInvalidState, "no document has been created")
	ErrMissingServiceEndpoint = dErrors.New(dErrors.CodeBadRequest, "a service endpoint needs an id, a type and an endpoint")
	ErrServiceAlreadyAdded    = dErrors.New(dErrors.CodeConflict, "a service with this id is already part of the document")
)

// ServiceEndpoint is one service entry of a did document.
type ServiceEndpoint struct {
	ID              string `json:"id"`
	Type            string `json:"type"`
	ServiceEndpoint string `json:"serviceEndpoint"`
}

// Command is the closed set of document commands.
type Command interface {
	CommandType() string
	isDocumentCommand()
}

// CreateDocument establishes the agent's document for one did method. A
// method's document is created once; services are added incrementally.
type CreateDocument struct {
	Method string
}

// AddServiceEndpoint appends a service entry to the document.
type AddServiceEndpoint struct {
	Service ServiceEndpoint
}

func (CreateDocument) CommandType() string     { return "CreateDocument" }
func (AddServiceEndpoint) CommandType() string { return "AddServiceEndpoint" }

func (CreateDocument) isDocumentCommand()     {}
func (AddServiceEndpoint) isDocumentCommand() {}

// Services are the collaborators a document needs.
type Services struct {
	Signer *signer.Subject
}

// Document tracks the agent's did document for one method.
type Document struct {
	svc Services

	created    bool
	serviceIDs []string
}

func New(svc Services) *Document { return &Document{svc: svc} }

func (*Document) AggregateType() string { return AggregateType }

func (d *Document) Handle(ctx context.Context, cmd Command) ([]Event, error) {
	switch cmd := cmd.(type) {
	case CreateDocument:
		if d.created {
			return nil, ErrDocumentAlreadyExists
		}
		did, err := d.svc.Signer.Identifier(cmd.Method)
		if err != nil {
			return nil, err
		}
		return []Event{&DocumentCreated{Method: cmd.Method, DID: did}}, nil

	case AddServiceEndpoint:
		if !d.created {
			return nil, ErrDocumentNotCreated
		}
		service := cmd.Service
		if service.ID == "" || service.Type == "" || service.ServiceEndpoint == "" {
			return nil, ErrMissingServiceEndpoint
		}
		if slices.Contains(d.serviceIDs, service.ID) {
			return nil, ErrServiceAlreadyAdded
		}
		return []Event{&ServiceEndpointAdded{Service: service}}, nil

	default:
		return nil, fmt.Errorf("unhandled document command %T", cmd)
	}
}

func (d *Document) Apply(event Event) error {
	switch event := event.(type) {
	case *DocumentCreated:
		d.created = true
	case *ServiceEndpointAdded:
		d.serviceIDs = append(d.serviceIDs, event.Service.ID)
	default:
		return fmt.Errorf("unhandled document event %T", event)
	}
	return nil
}
