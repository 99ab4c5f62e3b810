package types

// Credentials is the narrowly-scoped authentication value for the remote
// service. It is produced by the normalizer, inspected (not retained) by the
// validator, and consumed only by the envelope builder. It must never appear
// unmasked in any result or log output.
type Credentials struct {
	Domain        string
	Login         string
	Password      string
	PayerPassword string
}

// PaymentResponsibility identifies which party pays the freight.
type PaymentResponsibility string

const (
	PaymentPayer     PaymentResponsibility = "payer"
	PaymentRecipient PaymentResponsibility = "recipient"
)

// Valid reports whether p is one of the two allowed values.
func (p PaymentResponsibility) Valid() bool {
	return p == PaymentPayer || p == PaymentRecipient
}

// WireCode returns the single-letter code the remote protocol expects.
func (p PaymentResponsibility) WireCode() string {
	if p == PaymentPayer {
		return "C"
	}
	return "F"
}

// CanonicalRequest is the unified internal representation of a quotation
// request after normalization: every field carries canonical units, decimal
// formats and document padding, ready for wire serialization. It is built once
// per inbound call and never mutated after the envelope builder consumes it.
type CanonicalRequest struct {
	PayerDocument         string
	OriginPostalCode      string
	DestinationPostalCode string

	MerchandiseValue float64
	Quantity         int
	Weight           float64
	Volume           float64
	Height           float64
	Width            float64
	Length           float64

	MerchandiseTypeCode   int
	PaymentResponsibility PaymentResponsibility
	SenderDocument        string
	RecipientDocument     string
	Note                  string
	CollectionRequested   bool

	// Opaque pass-through extras the remote protocol accepts but this engine
	// does not interpret.
	TRT               string
	DifficultDelivery string
	RecipientTaxpayer string
	PairCount         string
	MultiplierFactor  string
}

// CollectionRequest is the canonical form of a collection-request call,
// referencing a previously obtained quotation.
type CollectionRequest struct {
	QuotationNumber string
	Deadline        string // ISO-8601 local timestamp, e.g. 2026-08-30T17:00:00
	Token           string
	Requester       string
	Note            string
	InvoiceKey      string
	OrderNumber     string
}
