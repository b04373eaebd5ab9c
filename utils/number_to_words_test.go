package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumberToWords(t *testing.T) {
	testCases := []struct {
		in   int64
		want string
	}{
		{7, "Seven"},
		{19, "Nineteen"},
		{40, "Forty"},
		{236, "Two Hundred Thirty Six"},
		{1000, "One Thousand"},
		{125050, "One Lakh Twenty Five Thousand Fifty"},
		{30000000, "Three Crore"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, NumberToWords(tc.in))
	}
}

func TestAmountInWords(t *testing.T) {
	assert.Equal(t, "Two Hundred Thirty Six Rupees Only", AmountInWords(236))
	assert.Equal(t, "Two Hundred Fifty Nine Rupees and Sixty Paise Only", AmountInWords(259.6))
	assert.Equal(t, "Eleven Rupees Only", AmountInWords(10.999))
	assert.Equal(t, "Zero Rupees Only", AmountInWords(0))
}
