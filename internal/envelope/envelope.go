// Package envelope serializes canonical requests into the SOAP RPC wire
// format of the remote quotation/collection service. The protocol is
// positionally sensitive, so the struct field order below is part of the
// contract; fields are always emitted, even when empty.
package envelope

import (
	"encoding/xml"
	"fmt"

	"github.com/ostlog/go-freightgate/internal/convert"
	"github.com/ostlog/go-freightgate/internal/types"
)

// Namespace and per-operation SOAPAction header values.
const (
	Namespace     = "urn:sswinfbr.sswCotacaoColeta"
	ActionQuote   = Namespace + "#cotarSite"
	ActionCollect = Namespace + "#coletar"

	nsSOAPEnv = "http://schemas.xmlsoap.org/soap/envelope/"
	nsXSI     = "http://www.w3.org/2001/XMLSchema-instance"
)

const xmlHeader = `<?xml version="1.0" encoding="utf-8"?>` + "\n"

type soapEnvelope struct {
	XMLName xml.Name `xml:"soap:Envelope"`
	NsSoap  string   `xml:"xmlns:soap,attr"`
	NsXSI   string   `xml:"xmlns:xsi,attr"`
	NsTns   string   `xml:"xmlns:tns,attr"`
	Body    soapBody `xml:"soap:Body"`
}

type soapBody struct {
	Quote   *quoteCall   `xml:"tns:cotarSite,omitempty"`
	Collect *collectCall `xml:"tns:coletar,omitempty"`
}

type quoteCall struct {
	Domain                string `xml:"dominio"`
	Login                 string `xml:"login"`
	Password              string `xml:"senha"`
	PayerDocument         string `xml:"cnpjPagador"`
	PayerPassword         string `xml:"senhaPagador"`
	OriginPostalCode      string `xml:"cepOrigem"`
	DestinationPostalCode string `xml:"cepDestino"`
	MerchandiseValue      string `xml:"valorNF"`
	Quantity              int    `xml:"quantidade"`
	Weight                string `xml:"peso"`
	Volume                string `xml:"volume"`
	MerchandiseType       int    `xml:"mercadoria"`
	PaymentResponsibility string `xml:"ciffob"`
	SenderDocument        string `xml:"cnpjRemetente"`
	RecipientDocument     string `xml:"cnpjDestinatario"`
	Note                  string `xml:"observacao"`
	TRT                   string `xml:"trt"`
	Collect               string `xml:"coletar"`
	DifficultDelivery     string `xml:"entDificil"`
	RecipientTaxpayer     string `xml:"destContribuinte"`
	PairCount             string `xml:"qtdePares"`
	Height                string `xml:"altura"`
	Width                 string `xml:"largura"`
	Length                string `xml:"comprimento"`
	MultiplierFactor      string `xml:"fatorMultiplicador"`
}

type collectCall struct {
	Domain          string `xml:"dominio"`
	Login           string `xml:"login"`
	Password        string `xml:"senha"`
	QuotationNumber string `xml:"cotacao"`
	Deadline        string `xml:"limiteColeta"`
	Token           string `xml:"token"`
	Requester       string `xml:"solicitante"`
	Note            string `xml:"observacao"`
	InvoiceKey      string `xml:"chaveNFe"`
	OrderNumber     string `xml:"nroPedido"`
}

// Quotation builds the cotarSite request body. This is the only place
// credentials are serialized.
func Quotation(creds types.Credentials, req *types.CanonicalRequest) ([]byte, error) {
	collect := "N"
	if req.CollectionRequested {
		collect = "S"
	}
	call := &quoteCall{
		Domain:                creds.Domain,
		Login:                 creds.Login,
		Password:              creds.Password,
		PayerDocument:         req.PayerDocument,
		PayerPassword:         creds.PayerPassword,
		OriginPostalCode:      req.OriginPostalCode,
		DestinationPostalCode: req.DestinationPostalCode,
		MerchandiseValue:      convert.FormatFixed(req.MerchandiseValue, 2),
		Quantity:              req.Quantity,
		Weight:                convert.FormatFixed(req.Weight, 3),
		Volume:                convert.FormatFixed(req.Volume, 4),
		MerchandiseType:       req.MerchandiseTypeCode,
		PaymentResponsibility: req.PaymentResponsibility.WireCode(),
		SenderDocument:        req.SenderDocument,
		RecipientDocument:     req.RecipientDocument,
		Note:                  req.Note,
		TRT:                   req.TRT,
		Collect:               collect,
		DifficultDelivery:     req.DifficultDelivery,
		RecipientTaxpayer:     req.RecipientTaxpayer,
		PairCount:             req.PairCount,
		Height:                convert.FormatFixed(req.Height, 3),
		Width:                 convert.FormatFixed(req.Width, 3),
		Length:                convert.FormatFixed(req.Length, 3),
		MultiplierFactor:      req.MultiplierFactor,
	}
	return marshal(soapBody{Quote: call})
}

// Collection builds the coletar request body.
func Collection(creds types.Credentials, req *types.CollectionRequest) ([]byte, error) {
	call := &collectCall{
		Domain:          creds.Domain,
		Login:           creds.Login,
		Password:        creds.Password,
		QuotationNumber: req.QuotationNumber,
		Deadline:        req.Deadline,
		Token:           req.Token,
		Requester:       req.Requester,
		Note:            req.Note,
		InvoiceKey:      req.InvoiceKey,
		OrderNumber:     req.OrderNumber,
	}
	return marshal(soapBody{Collect: call})
}

func marshal(body soapBody) ([]byte, error) {
	env := soapEnvelope{
		NsSoap: nsSOAPEnv,
		NsXSI:  nsXSI,
		NsTns:  Namespace,
		Body:   body,
	}
	out, err := xml.MarshalIndent(env, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal envelope: %w", err)
	}
	return append([]byte(xmlHeader), out...), nil
}
