// Package normalize maps loosely-typed client payloads onto the canonical
// request models. It tolerates historical field aliases and malformed values
// and never rejects input itself; rejection is the validator's job.
package normalize

import (
	"strconv"
	"strings"

	"github.com/ostlog/go-freightgate/internal/convert"
	"github.com/ostlog/go-freightgate/internal/types"
)

// Options carries the defaulting rules that vary per deployment.
type Options struct {
	// DefaultCollect is applied when the payload has no recognizable
	// collection flag.
	DefaultCollect bool
}

// QuoteInput is a normalized quotation call: the canonical request plus the
// credentials split off for the envelope builder.
type QuoteInput struct {
	Credentials types.Credentials
	Request     types.CanonicalRequest
}

// CollectionInput is a normalized collection-request call.
type CollectionInput struct {
	Credentials types.Credentials
	Request     types.CollectionRequest
}

// noteLimit is the maximum note length the remote service accepts.
const noteLimit = 195

// Quote normalizes a raw quotation payload.
func Quote(body []byte, opts Options) *QuoteInput {
	in := &QuoteInput{
		Credentials: types.Credentials{
			Domain:        strings.ToUpper(fieldString(body, "dominio")),
			Login:         fieldString(body, "login"),
			Password:      fieldString(body, "senha"),
			PayerPassword: fieldString(body, "senhaPagador"),
		},
	}

	req := &in.Request
	req.PayerDocument = convert.PadDocument(fieldString(body, "cnpjPagador"))
	req.OriginPostalCode = convert.DigitsOnly(fieldString(body, "cepOrigem"))
	req.DestinationPostalCode = convert.DigitsOnly(fieldString(body, "cepDestino"))

	req.MerchandiseValue = convert.DecimalOrZero(fieldString(body, "merchandiseValue"))
	req.Quantity = positiveInt(fieldString(body, "quantidade"), 1)
	req.Weight = convert.DecimalOrZero(fieldString(body, "peso"))
	req.Volume = convert.DecimalOrZero(fieldString(body, "volume"))
	req.Height = convert.DecimalOrZero(fieldString(body, "altura"))
	req.Width = convert.DecimalOrZero(fieldString(body, "largura"))
	req.Length = convert.DecimalOrZero(fieldString(body, "comprimento"))
	deriveVolume(req)

	req.MerchandiseTypeCode = positiveInt(fieldString(body, "mercadoria"), 1)
	req.PaymentResponsibility = paymentResponsibility(fieldString(body, "ciffob"))

	req.SenderDocument = convert.PadDocument(fieldString(body, "cnpjRemetente"))
	req.RecipientDocument = convert.PadDocument(fieldString(body, "cnpjDestinatario"))
	applyDocumentFallback(req)

	req.Note = truncate(fieldString(body, "observacao"), noteLimit)
	req.CollectionRequested = collectFlag(fieldString(body, "coletar"), opts.DefaultCollect)

	req.TRT = fieldString(body, "trt")
	req.DifficultDelivery = fieldString(body, "entDificil")
	req.RecipientTaxpayer = fieldString(body, "destContribuinte")
	req.PairCount = fieldString(body, "qtdePares")
	req.MultiplierFactor = fieldString(body, "fatorMultiplicador")

	return in
}

// deriveVolume fills an absent volume from the dimensions when every factor is
// positive: height x width x length x quantity, rounded to 4 digits.
func deriveVolume(req *types.CanonicalRequest) {
	if req.Volume > 0 {
		return
	}
	if req.Height > 0 && req.Width > 0 && req.Length > 0 && req.Quantity > 0 {
		req.Volume = convert.Round(req.Height*req.Width*req.Length*float64(req.Quantity), 4)
	}
}

// applyDocumentFallback defaults the paying party's document to the payer
// document when absent: the sender under payer responsibility, the recipient
// otherwise.
func applyDocumentFallback(req *types.CanonicalRequest) {
	switch req.PaymentResponsibility {
	case types.PaymentPayer:
		if req.SenderDocument == "" {
			req.SenderDocument = req.PayerDocument
		}
	case types.PaymentRecipient:
		if req.RecipientDocument == "" {
			req.RecipientDocument = req.PayerDocument
		}
	}
}

func paymentResponsibility(v string) types.PaymentResponsibility {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "c", "cif":
		return types.PaymentPayer
	default:
		return types.PaymentRecipient
	}
}

func collectFlag(v string, defaultCollect bool) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "s", "sim", "true", "1", "y", "yes":
		return true
	case "n", "nao", "não", "false", "0":
		return false
	default:
		return defaultCollect
	}
}

func positiveInt(v string, defaultVal int) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 1 {
		return defaultVal
	}
	return n
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
