package model

import "testing"

// ParseDomainが定義済みの5つのdomainをすべて受理することを検証
func TestParseDomain_Known(t *testing.T) {
	for _, s := range []string{"dashboard", "state", "logs", "rules", "future"} {
		d, err := ParseDomain(s)
		if err != nil {
			t.Errorf("ParseDomain(%q) returned error: %v", s, err)
		}
		if string(d) != s {
			t.Errorf("ParseDomain(%q) = %q", s, d)
		}
	}
}

// ParseDomainが未知の値を拒否することを検証
func TestParseDomain_Unknown(t *testing.T) {
	for _, s := range []string{"", "settings", "DASHBOARD", "log"} {
		if _, err := ParseDomain(s); err == nil {
			t.Errorf("ParseDomain(%q) should fail", s)
		}
	}
}

// BadgeDomainsにdashboardが含まれないことを検証
func TestBadgeDomains_ExcludesDashboard(t *testing.T) {
	for _, d := range BadgeDomains {
		if d == DomainDashboard {
			t.Error("BadgeDomains must not contain dashboard")
		}
	}
	if len(BadgeDomains) != 4 {
		t.Errorf("expected 4 badge domains, got %d", len(BadgeDomains))
	}
}
