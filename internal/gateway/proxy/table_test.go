package proxy

import "testing"

func TestSelectTarget(t *testing.T) {
	table := NewTable("http://f", "http://t", "http://p")

	tests := []struct {
		name   string
		path   string
		target string
		found  bool
	}{
		{name: "flights", path: "/flights/123", target: "http://f", found: true},
		{name: "flights mixed case", path: "/Flights/123", target: "http://f", found: true},
		{name: "airports", path: "/airports", target: "http://f", found: true},
		{name: "tickets", path: "/tickets/abc", target: "http://t", found: true},
		{name: "privilege singular", path: "/privilege", target: "http://p", found: true},
		{name: "privileges plural", path: "/privileges/history", target: "http://p", found: true},
		{name: "unknown", path: "/unknown/x", found: false},
		{name: "empty", path: "", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, found := table.SelectTarget(tt.path)
			if found != tt.found {
				t.Fatalf("SelectTarget(%q) found = %v, want %v", tt.path, found, tt.found)
			}
			if target != tt.target {
				t.Fatalf("SelectTarget(%q) = %q, want %q", tt.path, target, tt.target)
			}
		})
	}
}

func TestSelectTarget_TrimsTrailingSlash(t *testing.T) {
	table := NewTable("http://f/", "http://t/", "http://p/")

	target, found := table.SelectTarget("/flights/1")
	if !found {
		t.Fatalf("expected match for /flights/1")
	}
	if target != "http://f" {
		t.Fatalf("target = %q, want %q", target, "http://f")
	}
}
