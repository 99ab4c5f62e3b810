package types

import (
	"encoding/json"
	"net/http"
)

// State is a terminal state of the per-call state machine.
type State string

const (
	StateRejected        State = "rejected"
	StateTransportFailed State = "transport_failed"
	StateProtocolFailed  State = "protocol_failed"
	StateBusinessFailure State = "business_failure"
	StateSuccess         State = "success"
)

// Success carries the fields of a successful remote reply.
type Success struct {
	FreightValue       *float64 `json:"freightValue,omitempty"`
	DeadlineDays       *int     `json:"deadlineDays"`
	QuotationNumber    string   `json:"quotationNumber,omitempty"`
	CollectionProtocol string   `json:"collectionProtocol,omitempty"`
	Token              string   `json:"token,omitempty"`
	Message            string   `json:"message"`
}

// Diagnostics is the optional echo attached to failure results. Credential and
// token fields must already be masked before anything lands here.
type Diagnostics struct {
	SentRequest  string          `json:"sentRequest,omitempty"`
	SentArgs     json.RawMessage `json:"sentArgs,omitempty"`
	ReplyPreview string          `json:"replyPreview,omitempty"`
}

// Outcome is the single result value the engine produces for every inbound
// call, whichever terminal state the call reached.
type Outcome struct {
	State State

	// Authorization marks a business failure caused by an invalid-credential
	// signal from the remote side.
	Authorization bool

	Success     *Success
	OutcomeCode int
	Message     string
	Violations  []string
	Reason      string
	Diagnostics *Diagnostics
}

type successPayload struct {
	OK bool `json:"ok"`
	*Success
}

type validationPayload struct {
	OK         bool     `json:"ok"`
	Violations []string `json:"violations"`
}

type businessPayload struct {
	OK          bool   `json:"ok"`
	OutcomeCode int    `json:"outcomeCode"`
	Message     string `json:"message"`
	*Diagnostics
}

type failurePayload struct {
	OK     bool   `json:"ok"`
	Reason string `json:"reason"`
	*Diagnostics
}

// Payload returns the JSON document shape rendered to the client.
func (o *Outcome) Payload() any {
	switch o.State {
	case StateSuccess:
		return successPayload{OK: true, Success: o.Success}
	case StateRejected:
		return validationPayload{OK: false, Violations: o.Violations}
	case StateBusinessFailure:
		return businessPayload{OK: false, OutcomeCode: o.OutcomeCode, Message: o.Message, Diagnostics: o.Diagnostics}
	default:
		return failurePayload{OK: false, Reason: o.Reason, Diagnostics: o.Diagnostics}
	}
}

// HTTPStatus maps the terminal state to the status code the HTTP layer sends.
func (o *Outcome) HTTPStatus() int {
	switch o.State {
	case StateSuccess:
		return http.StatusOK
	case StateRejected:
		return http.StatusBadRequest
	case StateBusinessFailure:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}
