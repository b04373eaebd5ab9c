package utils

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ConsignmentNumber is DXOO + UTC ddmmyyHHMM + the last three digits of the serial.
func ConsignmentNumber(now time.Time, srNo int64) string {
	return fmt.Sprintf("DXOO%s%03d", now.UTC().Format("0201061504"), srNo%1000)
}

// TrackingNumber is RR + UTC yyyymmddHHMMSS + six random uppercase hex characters.
func TrackingNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:6]
	return "RR" + now.UTC().Format("20060102150405") + suffix
}

// InvoiceNumber is INV-yyyymmdd-###### with six random digits.
func InvoiceNumber(now time.Time) string {
	return fmt.Sprintf("INV-%s-%06d", now.UTC().Format("20060102"), rand.IntN(1000000))
}
