package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompute(t *testing.T) {
	testCases := []struct {
		name    string
		charges Charges
		want    Breakdown
	}{
		{
			name:    "gst only",
			charges: Charges{BaseRate: 200, GSTPercent: 18},
			want:    Breakdown{Subtotal: 200, SubtotalWithFuel: 200, GSTAmount: 36, TotalAmount: 236},
		},
		{
			name:    "fuel then gst on fuel inclusive subtotal",
			charges: Charges{BaseRate: 100, DocketCharges: 50, OdaCharge: 25, FOV: 25, FuelChargePercent: 10, GSTPercent: 18},
			want:    Breakdown{Subtotal: 200, FuelAmount: 20, SubtotalWithFuel: 220, GSTAmount: 39.6, TotalAmount: 259.6},
		},
		{
			name:    "zero schedule",
			charges: Charges{},
			want:    Breakdown{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Compute(tc.charges)
			assert.InDelta(t, tc.want.Subtotal, got.Subtotal, 1e-9)
			assert.InDelta(t, tc.want.FuelAmount, got.FuelAmount, 1e-9)
			assert.InDelta(t, tc.want.SubtotalWithFuel, got.SubtotalWithFuel, 1e-9)
			assert.InDelta(t, tc.want.GSTAmount, got.GSTAmount, 1e-9)
			assert.InDelta(t, tc.want.TotalAmount, got.TotalAmount, 1e-9)
		})
	}
}

func TestConsignmentTotalExcludesFuelAndGST(t *testing.T) {
	c := Charges{BaseRate: 120, DocketCharges: 30, OdaCharge: 10, FOV: 5, FuelChargePercent: 12, GSTPercent: 18}

	assert.InDelta(t, 165.0, ConsignmentTotal(c), 1e-9)
	assert.Greater(t, Compute(c).TotalAmount, ConsignmentTotal(c))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 10.13, Round2(10.125))
	assert.Equal(t, -10.13, Round2(-10.125))
	assert.Equal(t, 259.6, Round2(259.6000000001))
	assert.Equal(t, 0.0, Round2(0.004))
}

func TestChargeableWeight(t *testing.T) {
	assert.Equal(t, 0.5, ChargeableWeight(0.2, 0.5))
	assert.Equal(t, 20.0, ChargeableWeight(20, 0.5))
}
