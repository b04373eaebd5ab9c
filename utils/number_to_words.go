package utils

import (
	"math"
	"strings"
)

var ones = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen",
	"Sixteen", "Seventeen", "Eighteen", "Nineteen",
}

var tens = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

// indianScale lists the grouping used by the Indian numbering system, largest first.
var indianScale = []struct {
	value int64
	name  string
}{
	{10000000, "Crore"},
	{100000, "Lakh"},
	{1000, "Thousand"},
	{100, "Hundred"},
}

// NumberToWords spells n using lakh and crore grouping. Zero yields "".
func NumberToWords(n int64) string {
	if n <= 0 {
		return ""
	}
	var parts []string
	for _, s := range indianScale {
		if n >= s.value {
			parts = append(parts, NumberToWords(n/s.value)+" "+s.name)
			n %= s.value
		}
	}
	switch {
	case n >= 20:
		parts = append(parts, strings.TrimSpace(tens[n/10]+" "+ones[n%10]))
	case n > 0:
		parts = append(parts, ones[n])
	}
	return strings.Join(parts, " ")
}

// AmountInWords renders an invoice amount as "<n> Rupees and <m> Paise Only".
func AmountInWords(amount float64) string {
	totalPaise := int64(math.Round(math.Abs(amount) * 100))
	rupees, paise := totalPaise/100, totalPaise%100

	var parts []string
	if rupees > 0 {
		parts = append(parts, NumberToWords(rupees)+" Rupees")
	}
	if paise > 0 {
		parts = append(parts, NumberToWords(paise)+" Paise")
	}
	if len(parts) == 0 {
		return "Zero Rupees Only"
	}
	return strings.Join(parts, " and ") + " Only"
}
