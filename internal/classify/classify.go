// Package classify turns extracted reply fields into the engine's terminal
// outcomes and owns the credential masking applied to diagnostic echoes.
package classify

import (
	"strconv"
	"strings"

	"github.com/ostlog/go-freightgate/internal/convert"
	"github.com/ostlog/go-freightgate/internal/extract"
	"github.com/ostlog/go-freightgate/internal/types"
)

const (
	// invalidLoginOutcome is the outcome code the remote service reports for
	// credential failures. A case-insensitive "login" keyword in the message
	// classifies the same way.
	invalidLoginOutcome = 1

	// defaultOKMessage replaces a blank message on success.
	defaultOKMessage = "OK"
)

// Reply reads the remote reply fields from an isolated result fragment. Each
// field is read independently; missing tags leave zero values.
func Reply(frag *extract.Fragment) *types.RemoteReply {
	reply := &types.RemoteReply{
		OutcomeRaw:         frag.Field("erro", "codigo"),
		Message:            frag.Field("mensagem", "msg"),
		QuotationNumber:    frag.Field("cotacao"),
		Token:              frag.Field("token"),
		CollectionProtocol: frag.Field("protocoloColeta", "protocolo"),
	}
	if n, err := strconv.Atoi(reply.OutcomeRaw); err == nil {
		reply.OutcomeCode = n
	}
	if v, ok := convert.ToDecimal(frag.Field("frete")); ok {
		reply.FreightValue = &v
	}
	if d := frag.Field("prazo"); d != "" {
		if n, err := strconv.Atoi(d); err == nil {
			reply.DeadlineDays = &n
		}
	}
	return reply
}

// Outcome maps a decoded remote reply to a success or a typed business
// failure. The original remote message text is preserved verbatim on failure.
func Outcome(reply *types.RemoteReply) *types.Outcome {
	if isSuccess(reply.OutcomeRaw) {
		message := reply.Message
		if message == "" {
			message = defaultOKMessage
		}
		return &types.Outcome{
			State: types.StateSuccess,
			Success: &types.Success{
				FreightValue:       reply.FreightValue,
				DeadlineDays:       reply.DeadlineDays,
				QuotationNumber:    reply.QuotationNumber,
				CollectionProtocol: reply.CollectionProtocol,
				Token:              reply.Token,
				Message:            message,
			},
		}
	}

	return &types.Outcome{
		State:         types.StateBusinessFailure,
		OutcomeCode:   reply.OutcomeCode,
		Message:       reply.Message,
		Authorization: isAuthorizationFailure(reply),
	}
}

// isSuccess applies the success sentinel: an absent outcome, the numeric zero
// sentinel, or the literal OK all mean the remote accepted the request.
func isSuccess(raw string) bool {
	raw = strings.TrimSpace(raw)
	return raw == "" || raw == "0" || strings.EqualFold(raw, "OK")
}

func isAuthorizationFailure(reply *types.RemoteReply) bool {
	if reply.OutcomeCode == invalidLoginOutcome {
		return true
	}
	return strings.Contains(strings.ToLower(reply.Message), "login")
}
