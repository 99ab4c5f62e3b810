package classify

import (
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// maskPlaceholder replaces credential and token values in diagnostic output.
const maskPlaceholder = "***"

// maskedFields are the wire fields that must never leave the engine unmasked.
var maskedFields = []string{"senha", "senhaPagador", "token"}

// MaskEnvelope returns a copy of a serialized request envelope with the
// content of every credential and token element replaced. Masking happens here
// at the boundary, not at envelope construction; the wire body itself is sent
// intact.
func MaskEnvelope(env string) string {
	for _, tag := range maskedFields {
		env = maskTag(env, tag)
	}
	return env
}

func maskTag(s, tag string) string {
	open := "<" + tag + ">"
	closing := "</" + tag + ">"
	var b strings.Builder
	for {
		i := strings.Index(s, open)
		if i < 0 {
			break
		}
		j := strings.Index(s[i:], closing)
		if j < 0 {
			break
		}
		b.WriteString(s[:i+len(open)])
		b.WriteString(maskPlaceholder)
		s = s[i+j:]
	}
	b.WriteString(s)
	return b.String()
}

// MaskArgs masks credential fields in a JSON diagnostics document.
func MaskArgs(doc []byte) []byte {
	for _, key := range maskedFields {
		if !gjson.GetBytes(doc, key).Exists() {
			continue
		}
		if masked, err := sjson.SetBytes(doc, key, maskPlaceholder); err == nil {
			doc = masked
		}
	}
	return doc
}
