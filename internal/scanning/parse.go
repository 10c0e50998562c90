package scanning

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Reply keys of the provider's JSON object
const (
	keyVendor        = "trgovina"
	keyAmount        = "znesek"
	keyDate          = "datum"
	keyReceiptNumber = "st_racuna"
	keyCategory      = "vrsta_odhodka"
)

// stripFences removes markdown code fences the model adds despite being told not to
func stripFences(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```JSON", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

// ParseExtraction decodes the provider reply. Missing or mistyped keys leave fields nil;
// only a reply that is not a JSON object is an error.
func ParseExtraction(text string) (*ExtractedFields, error) {
	text = stripFences(text)

	startIdx := strings.Index(text, "{")
	if startIdx == -1 {
		return nil, fmt.Errorf("%w: no JSON object found in response", ErrExtraction)
	}
	endIdx := strings.LastIndex(text, "}")
	if endIdx < startIdx {
		return nil, fmt.Errorf("%w: invalid JSON object in response", ErrExtraction)
	}
	text = text[startIdx : endIdx+1]

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("%w: unmarshaling json: %w", ErrExtraction, err)
	}

	return &ExtractedFields{
		Vendor:        textValue(raw[keyVendor]),
		Amount:        amountValue(raw[keyAmount]),
		Date:          textValue(raw[keyDate]),
		ReceiptNumber: textValue(raw[keyReceiptNumber]),
		Category:      exactText(raw[keyCategory]),
	}, nil
}

// scalar decodes a raw JSON value keeping numbers exact
func scalar(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil
	}
	return v
}

// textValue accepts strings and numbers (receipt numbers often come back as numbers)
func textValue(raw json.RawMessage) *string {
	var s string
	switch v := scalar(raw).(type) {
	case string:
		s = strings.TrimSpace(v)
	case json.Number:
		s = v.String()
	default:
		return nil
	}
	if s == "" {
		return nil
	}
	return &s
}

// exactText keeps a string as sent; the category must match a list entry byte for byte
func exactText(raw json.RawMessage) *string {
	s, ok := scalar(raw).(string)
	if !ok || strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// amountValue accepts a JSON number or a numeric string such as "12,50" or "1.234,56 EUR"
func amountValue(raw json.RawMessage) *decimal.Decimal {
	var s string
	switch v := scalar(raw).(type) {
	case json.Number:
		s = v.String()
	case string:
		s = normalizeAmount(v)
	default:
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !AmountInRange(d) {
		return nil
	}
	return &d
}

// Bounds for a receipt amount. The exponent is checked before any comparison so that
// values such as 1e200000000 are rejected without being expanded.
const (
	minAmountExponent = -10
	maxAmountExponent = 12
)

var maxAmount = decimal.New(1, 12)

// AmountInRange reports whether d is small enough and precise enough to be a receipt amount
func AmountInRange(d decimal.Decimal) bool {
	exp := d.Exponent()
	if exp < minAmountExponent || exp > maxAmountExponent {
		return false
	}
	return d.Abs().LessThan(maxAmount)
}

func normalizeAmount(s string) string {
	s = strings.TrimSpace(s)
	for _, junk := range []string{"€", "EUR", "eur", " ", "\u00a0"} {
		s = strings.ReplaceAll(s, junk, "")
	}
	comma := strings.LastIndex(s, ",")
	dot := strings.LastIndex(s, ".")
	switch {
	case comma >= 0 && dot >= 0 && comma > dot:
		// 1.234,56
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case comma >= 0 && dot >= 0:
		// 1,234.56
		s = strings.ReplaceAll(s, ",", "")
	case comma >= 0:
		s = strings.Replace(s, ",", ".", 1)
	}
	return s
}
