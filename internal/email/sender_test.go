package email

import (
	"strings"
	"testing"
)

func TestLowScanContentTiers(t *testing.T) {
	const frontend = "https://nutrisight.app"

	tests := []struct {
		name        string
		scansLeft   int
		wantSubject string
		wantInBody  string
	}{
		{
			name:        "exhausted",
			scansLeft:   0,
			wantSubject: "You're out of free scans",
			wantInBody:  "used all your free scans",
		},
		{
			name:        "critically low",
			scansLeft:   5,
			wantSubject: "Only 5 scans left",
			wantInBody:  "5 scans remaining",
		},
		{
			name:        "plain warning",
			scansLeft:   10,
			wantSubject: "10 scans remaining",
			wantInBody:  "10 scans remaining on your free plan",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, html := lowScanContent(tt.scansLeft, frontend)
			if subject != tt.wantSubject {
				t.Errorf("subject = %q, want %q", subject, tt.wantSubject)
			}
			if !strings.Contains(html, tt.wantInBody) {
				t.Errorf("body missing %q:\n%s", tt.wantInBody, html)
			}
			if !strings.Contains(html, frontend+"/upgrade") {
				t.Errorf("body missing upgrade link:\n%s", html)
			}
		})
	}
}
