package credential

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/impierce/ssi-agent-sub000/internal/openid4vc"
	"github.com/impierce/ssi-agent-sub000/internal/services/signer"
	dErrors "github.com/impierce/ssi-agent-sub000/pkg/domain-errors"
)

const AggregateType = "credential"

// The aggregate's closed error taxonomy.
var (
	ErrMissingSubject       = dErrors.New(dErrors.CodeBadRequest, "credential subject is absent")
	ErrCredentialNotCreated = dErrors.New(dErrors.CodeInvalidState, "credential does not exist")
	ErrUnsupportedFormat    = dErrors.New(dErrors.CodeUnsupportedFormat, "only jwt_vc_json credentials can be signed")
)

// Services are the collaborators consulted while signing.
type Services struct {
	Signer *signer.Subject

	// CredentialIssuer is the iss claim of issued credentials.
	CredentialIssuer string

	// DIDMethod selects which identifier the credential is issued under.
	DIDMethod string
}

// Credential models one issuable credential: created unsigned with its
// subject data, then signed once for a verified holder.
type Credential struct {
	svc *Services

	created                   bool
	offerID                   string
	credentialConfigurationID string
	subject                   json.RawMessage
	signedCredential          string
}

func New(svc *Services) *Credential {
	return &Credential{svc: svc}
}

func (*Credential) AggregateType() string { return AggregateType }

func (c *Credential) Handle(ctx context.Context, cmd Command) ([]Event, error) {
	switch cmd := cmd.(type) {
	case CreateUnsignedCredential:
		if len(cmd.Subject) == 0 || string(cmd.Subject) == "null" {
			return nil, ErrMissingSubject
		}
		return []Event{&UnsignedCredentialCreated{
			OfferID:                   cmd.OfferID,
			CredentialConfigurationID: cmd.CredentialConfigurationID,
			Subject:                   cmd.Subject,
		}}, nil

	case SignCredential:
		if !c.created {
			return nil, ErrCredentialNotCreated
		}
		if cmd.Format != "" && cmd.Format != openid4vc.FormatJWTVCJSON {
			return nil, ErrUnsupportedFormat
		}
		if c.signedCredential != "" {
			// Already signed; signing is idempotent.
			return nil, nil
		}
		signed, err := c.sign(cmd.SubjectID)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "sign credential")
		}
		return []Event{&CredentialSigned{
			SubjectID:        cmd.SubjectID,
			SignedCredential: signed,
		}}, nil

	default:
		return nil, fmt.Errorf("unhandled credential command %T", cmd)
	}
}

func (c *Credential) Apply(event Event) error {
	switch event := event.(type) {
	case *UnsignedCredentialCreated:
		c.created = true
		c.offerID = event.OfferID
		c.credentialConfigurationID = event.CredentialConfigurationID
		c.subject = event.Subject
	case *CredentialSigned:
		c.signedCredential = event.SignedCredential
	default:
		return fmt.Errorf("unhandled credential event %T", event)
	}
	return nil
}

// vcClaims is the claim set of a jwt_vc_json credential.
type vcClaims struct {
	VC struct {
		Context           []string       `json:"@context"`
		Type              []string       `json:"type"`
		CredentialSubject map[string]any `json:"credentialSubject"`
	} `json:"vc"`
	jwt.RegisteredClaims
}

func (c *Credential) sign(subjectID string) (string, error) {
	var subject map[string]any
	if err := json.Unmarshal(c.subject, &subject); err != nil {
		return "", fmt.Errorf("decode credential subject: %w", err)
	}
	if subjectID != "" {
		subject["id"] = subjectID
	}

	claims := vcClaims{}
	claims.VC.Context = []string{"https://www.w3.org/2018/credentials/v1"}
	claims.VC.Type = []string{"VerifiableCredential", c.credentialConfigurationID}
	claims.VC.CredentialSubject = subject
	claims.Issuer = c.svc.CredentialIssuer
	claims.Subject = subjectID
	claims.IssuedAt = jwt.NewNumericDate(time.Now())

	return c.svc.Signer.SignJWT(claims, c.svc.DIDMethod)
}
