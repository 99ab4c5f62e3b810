package normalize

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Aliases is the one place the historical field-naming schemes meet. Each
// canonical field that ever accepted more than one inbound key lists its
// candidates in precedence order: the generic name first, the remote service's
// own field name last. The first non-absent candidate wins.
var Aliases = map[string][]string{
	"merchandiseValue": {"valorMercadoria", "valorNF"},
	"quotationNumber":  {"numeroCotacao", "cotacao"},
}

// field returns the first present candidate for key, falling back to reading
// key itself when no alias row exists.
func field(body []byte, key string) gjson.Result {
	candidates, ok := Aliases[key]
	if !ok {
		candidates = []string{key}
	}
	for _, k := range candidates {
		if r := gjson.GetBytes(body, k); r.Exists() {
			return r
		}
	}
	return gjson.Result{}
}

// fieldString reads a field as a trimmed string, tolerating numeric and
// boolean JSON values.
func fieldString(body []byte, key string) string {
	r := field(body, key)
	if !r.Exists() || r.Type == gjson.Null {
		return ""
	}
	return strings.TrimSpace(r.String())
}
