package services

import (
	"testing"

	"github.com/google/uuid"
)

func TestShouldNotify(t *testing.T) {
	tests := []struct {
		scansLeft int
		wantType  string
		wantOK    bool
	}{
		{scansLeft: 50, wantOK: false},
		{scansLeft: 11, wantOK: false},
		{scansLeft: 10, wantType: "low_scans", wantOK: true},
		{scansLeft: 9, wantOK: false},
		{scansLeft: 6, wantOK: false},
		{scansLeft: 5, wantType: "low_scans", wantOK: true},
		{scansLeft: 4, wantOK: false},
		{scansLeft: 1, wantOK: false},
		{scansLeft: 0, wantType: "scans_exhausted", wantOK: true},
	}

	for _, tt := range tests {
		emailType, ok := shouldNotify(tt.scansLeft)
		if ok != tt.wantOK {
			t.Errorf("shouldNotify(%d) ok = %v, want %v", tt.scansLeft, ok, tt.wantOK)
			continue
		}
		if ok && emailType != tt.wantType {
			t.Errorf("shouldNotify(%d) type = %q, want %q", tt.scansLeft, emailType, tt.wantType)
		}
	}
}

func mustUUID(t *testing.T) uuid.UUID {
	t.Helper()
	return uuid.New()
}
