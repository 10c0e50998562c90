package scanning

import (
	"fmt"
	"strings"
)

// receiptScanPrompt is the instruction shared by all providers; %s receives the category list
const receiptScanPrompt = `You are analyzing a Slovenian receipt or invoice. Carefully read all text in the document and extract the following information:

1. **Vendor**: the store or issuer name, usually the largest text at the top (e.g. "CONAD", "SPAR", "Mercator").
2. **Total Amount**: the final amount paid, as a decimal number (e.g. 12.50 for "12,50 EUR").
3. **Date**: the receipt date in ISO 8601 format (YYYY-MM-DD).
4. **Receipt Number**: the receipt or invoice number, if there is one.
5. **Expense Category**: the single best matching category from this list, copied exactly:
%s

Return ONLY valid JSON in this exact format:
{
  "trgovina": "Name",
  "znesek": 0.00,
  "datum": "YYYY-MM-DD",
  "st_racuna": "123",
  "vrsta_odhodka": "one of the categories above"
}

Important:
- The amount must be a number (not a string)
- If you cannot find a field, use null for that field
- Do not include any text before or after the JSON
- Do not use markdown code blocks`

// BuildPrompt renders the scan prompt with the allowed categories
func BuildPrompt(categories []string) string {
	var b strings.Builder
	for _, c := range categories {
		fmt.Fprintf(&b, "   - %s\n", c)
	}
	return fmt.Sprintf(receiptScanPrompt, strings.TrimRight(b.String(), "\n"))
}
