// Package validate enforces the preconditions the remote service requires.
// Every rule is checked; the caller gets the full list of violations, not just
// the first. A non-empty list is terminal: the remote service is never called.
package validate

import (
	"github.com/ostlog/go-freightgate/internal/types"
)

// Quote checks a normalized quotation request. The returned violations keep
// the wording the public API has always used.
func Quote(creds types.Credentials, req *types.CanonicalRequest) []string {
	var violations []string
	if creds.Domain == "" || creds.Login == "" || creds.Password == "" {
		violations = append(violations, "dominio, login e senha são obrigatórios")
	}
	if req.PayerDocument == "" {
		violations = append(violations, "cnpjPagador é obrigatório")
	}
	if req.OriginPostalCode == "" {
		violations = append(violations, "cepOrigem é obrigatório")
	}
	if req.DestinationPostalCode == "" {
		violations = append(violations, "cepDestino é obrigatório")
	}
	if req.MerchandiseValue <= 0 {
		violations = append(violations, "valorMercadoria deve ser > 0")
	}
	if req.Weight <= 0 && req.Volume <= 0 {
		violations = append(violations, "informe peso (>0) ou volume (>0)")
	}
	if !req.PaymentResponsibility.Valid() {
		violations = append(violations, "ciffob deve ser CIF ou FOB")
	}
	return violations
}

// Collection checks a normalized collection request.
func Collection(creds types.Credentials, req *types.CollectionRequest) []string {
	var violations []string
	if creds.Domain == "" || creds.Login == "" || creds.Password == "" {
		violations = append(violations, "dominio, login e senha são obrigatórios")
	}
	if req.QuotationNumber == "" {
		violations = append(violations, "cotacao é obrigatório")
	}
	if req.Token == "" {
		violations = append(violations, "token é obrigatório")
	}
	if req.Requester == "" {
		violations = append(violations, "solicitante é obrigatório")
	}
	if req.Deadline == "" {
		violations = append(violations, "limiteColeta ou data+hora são obrigatórios")
	}
	return violations
}
