// Package engine orchestrates one inbound call through the pipeline:
// normalize, validate, build the wire envelope, make exactly one bounded
// transport call, extract the reply and classify the outcome. Calls are
// stateless and independent; there is no retry and no shared mutable state.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ostlog/go-freightgate/internal/classify"
	"github.com/ostlog/go-freightgate/internal/config"
	"github.com/ostlog/go-freightgate/internal/envelope"
	"github.com/ostlog/go-freightgate/internal/extract"
	"github.com/ostlog/go-freightgate/internal/normalize"
	"github.com/ostlog/go-freightgate/internal/types"
	"github.com/ostlog/go-freightgate/internal/validate"
)

// replyPreviewLimit bounds the raw-body prefix kept for diagnostics.
const replyPreviewLimit = 280

// Transport sends one serialized request body to the remote service and
// returns the raw reply text. Implementations must honor ctx cancellation.
type Transport interface {
	Call(ctx context.Context, action string, body []byte) (string, error)
}

// Engine is the request/response normalization engine.
type Engine struct {
	cfg       *config.ServerConfig
	transport Transport
}

// New creates an engine backed by the given transport.
func New(cfg *config.ServerConfig, t Transport) *Engine {
	return &Engine{cfg: cfg, transport: t}
}

// Quote processes a raw quotation payload end to end.
func (e *Engine) Quote(ctx context.Context, body []byte) *types.Outcome {
	in := normalize.Quote(body, normalize.Options{DefaultCollect: e.cfg.DefaultCollect})
	if violations := validate.Quote(in.Credentials, &in.Request); len(violations) > 0 {
		return e.rejected("quote", violations)
	}

	env, err := envelope.Quotation(in.Credentials, &in.Request)
	if err != nil {
		return e.transportFailed("quote", fmt.Sprintf("serialize request: %v", err), nil)
	}
	return e.call(ctx, "quote", envelope.ActionQuote, env, quoteArgs(in))
}

// RequestCollection processes a raw collection-request payload end to end.
func (e *Engine) RequestCollection(ctx context.Context, body []byte) *types.Outcome {
	in := normalize.Collection(body)
	if violations := validate.Collection(in.Credentials, &in.Request); len(violations) > 0 {
		return e.rejected("collect", violations)
	}

	env, err := envelope.Collection(in.Credentials, &in.Request)
	if err != nil {
		return e.transportFailed("collect", fmt.Sprintf("serialize request: %v", err), nil)
	}
	return e.call(ctx, "collect", envelope.ActionCollect, env, collectionArgs(in))
}

// call makes the single transport call for a validated request and walks the
// reply through extraction and classification.
func (e *Engine) call(ctx context.Context, op, action string, env, sentArgs []byte) *types.Outcome {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	diag := &types.Diagnostics{
		SentRequest: classify.MaskEnvelope(string(env)),
		SentArgs:    classify.MaskArgs(sentArgs),
	}

	raw, err := e.transport.Call(ctx, action, env)
	if err != nil {
		reason := fmt.Sprintf("remote call failed: %v", err)
		if errors.Is(err, context.DeadlineExceeded) {
			reason = fmt.Sprintf("remote call timed out after %s", e.cfg.Timeout)
		}
		return e.transportFailed(op, reason, diag)
	}

	frag, err := extract.Result(raw)
	if err != nil {
		diag.ReplyPreview = extract.Preview(raw, replyPreviewLimit)
		out := &types.Outcome{State: types.StateProtocolFailed, Reason: err.Error(), Diagnostics: diag}
		e.logOutcome(op, out)
		return out
	}

	out := classify.Outcome(classify.Reply(frag))
	if out.State != types.StateSuccess {
		out.Diagnostics = diag
	}
	e.logOutcome(op, out)
	return out
}

func (e *Engine) rejected(op string, violations []string) *types.Outcome {
	out := &types.Outcome{State: types.StateRejected, Violations: violations}
	e.logOutcome(op, out)
	return out
}

func (e *Engine) transportFailed(op, reason string, diag *types.Diagnostics) *types.Outcome {
	out := &types.Outcome{State: types.StateTransportFailed, Reason: reason, Diagnostics: diag}
	e.logOutcome(op, out)
	return out
}

func (e *Engine) logOutcome(op string, out *types.Outcome) {
	if !e.cfg.Verbose {
		return
	}
	attrs := []any{"operation", op, "state", out.State}
	switch out.State {
	case types.StateSuccess:
		attrs = append(attrs, "quotation", out.Success.QuotationNumber)
	case types.StateRejected:
		attrs = append(attrs, "violations", len(out.Violations))
	case types.StateBusinessFailure:
		attrs = append(attrs, "outcome_code", out.OutcomeCode, "authorization", out.Authorization)
	default:
		attrs = append(attrs, "reason", out.Reason)
	}
	slog.Info("engine.outcome", attrs...)
}

// quoteArgs renders the normalized quotation fields for diagnostic echoes,
// using the historical wire names. Credentials are masked before exposure.
func quoteArgs(in *normalize.QuoteInput) []byte {
	args, _ := json.Marshal(struct {
		Dominio          string  `json:"dominio"`
		Login            string  `json:"login"`
		Senha            string  `json:"senha"`
		CnpjPagador      string  `json:"cnpjPagador"`
		SenhaPagador     string  `json:"senhaPagador"`
		CepOrigem        string  `json:"cepOrigem"`
		CepDestino       string  `json:"cepDestino"`
		ValorNF          float64 `json:"valorNF"`
		Quantidade       int     `json:"quantidade"`
		Peso             float64 `json:"peso"`
		Volume           float64 `json:"volume"`
		Mercadoria       int     `json:"mercadoria"`
		Ciffob           string  `json:"ciffob"`
		CnpjRemetente    string  `json:"cnpjRemetente"`
		CnpjDestinatario string  `json:"cnpjDestinatario"`
		Coletar          bool    `json:"coletar"`
	}{
		Dominio:          in.Credentials.Domain,
		Login:            in.Credentials.Login,
		Senha:            in.Credentials.Password,
		CnpjPagador:      in.Request.PayerDocument,
		SenhaPagador:     in.Credentials.PayerPassword,
		CepOrigem:        in.Request.OriginPostalCode,
		CepDestino:       in.Request.DestinationPostalCode,
		ValorNF:          in.Request.MerchandiseValue,
		Quantidade:       in.Request.Quantity,
		Peso:             in.Request.Weight,
		Volume:           in.Request.Volume,
		Mercadoria:       in.Request.MerchandiseTypeCode,
		Ciffob:           in.Request.PaymentResponsibility.WireCode(),
		CnpjRemetente:    in.Request.SenderDocument,
		CnpjDestinatario: in.Request.RecipientDocument,
		Coletar:          in.Request.CollectionRequested,
	})
	return args
}

// collectionArgs renders the normalized collection fields for diagnostics.
func collectionArgs(in *normalize.CollectionInput) []byte {
	args, _ := json.Marshal(struct {
		Dominio      string `json:"dominio"`
		Login        string `json:"login"`
		Senha        string `json:"senha"`
		Cotacao      string `json:"cotacao"`
		LimiteColeta string `json:"limiteColeta"`
		Token        string `json:"token"`
		Solicitante  string `json:"solicitante"`
	}{
		Dominio:      in.Credentials.Domain,
		Login:        in.Credentials.Login,
		Senha:        in.Credentials.Password,
		Cotacao:      in.Request.QuotationNumber,
		LimiteColeta: in.Request.Deadline,
		Token:        in.Request.Token,
		Solicitante:  in.Request.Requester,
	})
	return args
}
