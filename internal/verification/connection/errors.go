package connection

import dErrors "github.com/impierce/ssi-agent-sub000/pkg/domain-errors"

var (
	ErrMissingState            = dErrors.New(dErrors.CodeBadRequest, "the authorization response carries no state value")
	ErrUnknownState            = dErrors.New(dErrors.CodeUnknownState, "the state value does not correlate to any authorization request")
	ErrUnsupportedResponseType = dErrors.New(dErrors.CodeUnsupported, "combined signed-object response encodings are not supported")
	ErrMissingToken            = dErrors.New(dErrors.CodeBadRequest, "the authorization response carries neither an id_token nor a vp_token")
	ErrInvalidResponse         = dErrors.New(dErrors.CodeInvalidResponse, "the authorization response failed validation")
	ErrDefinitionNotSatisfied  = dErrors.New(dErrors.CodeInvalidResponse, "the presented credentials do not satisfy the presentation definition")
)
