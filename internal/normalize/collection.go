package normalize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ostlog/go-freightgate/internal/convert"
	"github.com/ostlog/go-freightgate/internal/types"
)

// defaultPickupHour is the time-of-day applied when the client omits the
// pickup hour or sends the literal word for "default".
const (
	defaultPickupHour   = 17
	defaultPickupMinute = 0
)

// Collection normalizes a raw collection-request payload.
func Collection(body []byte) *CollectionInput {
	in := &CollectionInput{
		Credentials: types.Credentials{
			Domain:   strings.ToUpper(fieldString(body, "dominio")),
			Login:    fieldString(body, "login"),
			Password: fieldString(body, "senha"),
		},
	}

	req := &in.Request
	req.QuotationNumber = convert.DigitsOnly(fieldString(body, "quotationNumber"))
	req.Token = fieldString(body, "token")
	req.Requester = fieldString(body, "solicitante")
	req.Deadline = deadline(
		fieldString(body, "limiteColeta"),
		fieldString(body, "data"),
		fieldString(body, "hora"),
	)
	req.Note = truncate(fieldString(body, "observacao"), noteLimit)
	req.InvoiceKey = fieldString(body, "chaveNFe")
	req.OrderNumber = fieldString(body, "nroPedido")

	return in
}

// deadline builds the ISO-8601 pickup deadline. An explicit limiteColeta wins;
// otherwise date plus time-of-day, where an absent hour or the literal
// "padrão"/"padrao" means 17:00.
func deadline(limit, date, hour string) string {
	if limit != "" {
		return limit
	}
	if date == "" {
		return ""
	}
	h, m := parseHourMinute(hour)
	return fmt.Sprintf("%sT%02d:%02d:00", date, h, m)
}

func parseHourMinute(hour string) (int, int) {
	hour = strings.ToLower(strings.TrimSpace(hour))
	if hour == "" || hour == "padrão" || hour == "padrao" {
		return defaultPickupHour, defaultPickupMinute
	}
	h, m := defaultPickupHour, defaultPickupMinute
	parts := strings.SplitN(hour, ":", 2)
	if v, err := strconv.Atoi(strings.TrimSpace(parts[0])); err == nil && v >= 0 && v <= 23 {
		h = v
		m = 0
	}
	if len(parts) == 2 {
		if v, err := strconv.Atoi(strings.TrimSpace(parts[1])); err == nil && v >= 0 && v <= 59 {
			m = v
		}
	}
	return h, m
}
