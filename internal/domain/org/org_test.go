package org

import (
	"testing"
	"time"

	"gorm.io/datatypes"
)

func TestAcademicYearExpiredOnIsDateOnly(t *testing.T) {
	ay := AcademicYear{ExpiryDate: datatypes.Date(time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC))}

	if ay.ExpiredOn(time.Date(2025, 6, 30, 23, 59, 0, 0, time.UTC)) {
		t.Fatalf("expiry day itself must still be valid")
	}
	if !ay.ExpiredOn(time.Date(2025, 7, 1, 0, 0, 1, 0, time.UTC)) {
		t.Fatalf("day after expiry must be expired")
	}
	if ay.ExpiredOn(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("earlier day must not be expired")
	}
}
