package repository

import "context"

// ConsignmentSerial is the counter behind consignment sr_no.
const ConsignmentSerial = "consignment_sr_no"

// Sequence hands out strictly increasing numbers per name.
type Sequence interface {
	Next(ctx context.Context, name string) (int64, error)
	// SeedAtLeast raises the counter so the next value is above floor. It never lowers it.
	SeedAtLeast(ctx context.Context, name string, floor int64) error
}
