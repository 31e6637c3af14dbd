package credential

import (
	"context"
	"fmt"

	dErrors "github.com/impierce/ssi-agent-sub000/pkg/domain-errors"
)

const AggregateType = "held_credential"

var (
	ErrMissingCredential = dErrors.New(dErrors.CodeBadRequest, "a signed credential is required")
	ErrAlreadyStored     = dErrors.New(dErrors.CodeConflict, "this credential is already stored")
)

// Command is the closed set of held-credential commands.
type Command interface {
	CommandType() string
	isHeldCredentialCommand()
}

// AddReceivedCredential stores a credential obtained through an offer.
type AddReceivedCredential struct {
	OfferID          string
	SignedCredential string
}

func (AddReceivedCredential) CommandType() string      { return "AddReceivedCredential" }
func (AddReceivedCredential) isHeldCredentialCommand() {}

// Credential is one credential held by this agent.
type Credential struct {
	stored bool
}

func New() *Credential { return &Credential{} }

func (*Credential) AggregateType() string { return AggregateType }

func (c *Credential) Handle(ctx context.Context, cmd Command) ([]Event, error) {
	switch cmd := cmd.(type) {
	case AddReceivedCredential:
		if c.stored {
			return nil, ErrAlreadyStored
		}
		if cmd.SignedCredential == "" {
			return nil, ErrMissingCredential
		}
		return []Event{&ReceivedCredentialAdded{
			OfferID:          cmd.OfferID,
			SignedCredential: cmd.SignedCredential,
		}}, nil
	default:
		return nil, fmt.Errorf("unhandled held-credential command %T", cmd)
	}
}

func (c *Credential) Apply(event Event) error {
	switch event.(type) {
	case *ReceivedCredentialAdded:
		c.stored = true
	default:
		return fmt.Errorf("unhandled held-credential event %T", event)
	}
	return nil
}
