package messaging

import (
	"net/url"
	"strings"
)

const DefaultCountryPrefix = "258"

// NormalizePhone strips all whitespace and prepends the country prefix
// when the number does not already start with it. Normalizing twice is a
// no-op.
func NormalizePhone(phone, prefix string) string {
	p := strings.Join(strings.Fields(phone), "")
	if p == "" {
		return ""
	}
	if prefix == "" {
		prefix = DefaultCountryPrefix
	}
	if !strings.HasPrefix(p, prefix) {
		p = prefix + p
	}
	return p
}

// Link builds a WhatsApp deep link that opens a chat with phone with text
// already typed in.
func Link(phone, text string) string {
	return "https://wa.me/" + phone + "?text=" + EncodeText(text)
}

// EncodeText percent-encodes text for a query value, spaces as %20.
func EncodeText(text string) string {
	return strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}
