package main

import (
	"testing"

	"github.com/ineffectivecoder/LogonGooser/pkg/msv1_0"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		args   []string
		domain string
		want   invocation
	}{
		{nil, "", invocation{List: true}},
		{[]string{"alice"}, "", invocation{Package: msv1_0.PackageMSV1_0, User: "alice", PromptPassword: true}},
		{[]string{"alice", "secret"}, "", invocation{Package: msv1_0.PackageMSV1_0, User: "alice", Password: "secret"}},
		{[]string{"Negotiate", "alice", "secret"}, "", invocation{Package: "Negotiate", User: "alice", Password: "secret"}},
		{[]string{`CORP\alice`, "secret"}, "", invocation{Package: msv1_0.PackageMSV1_0, Domain: "CORP", User: "alice", Password: "secret"}},
		{[]string{`CORP\alice`, "secret"}, "LAB", invocation{Package: msv1_0.PackageMSV1_0, Domain: "LAB", User: "alice", Password: "secret"}},
		{[]string{"alice", ""}, "", invocation{Package: msv1_0.PackageMSV1_0, User: "alice"}},
	}

	for _, tt := range tests {
		got, err := parseArgs(tt.args, tt.domain)
		if err != nil {
			t.Errorf("parseArgs(%q) error: %v", tt.args, err)
			continue
		}
		if *got != tt.want {
			t.Errorf("parseArgs(%q) = %+v, want %+v", tt.args, *got, tt.want)
		}
	}
}

func TestParseArgsUsage(t *testing.T) {
	for _, args := range [][]string{
		{"a", "b", "c", "d"},
		{`CORP\`, "secret"},
	} {
		if _, err := parseArgs(args, ""); err == nil {
			t.Errorf("parseArgs(%q) accepted", args)
		}
	}
}

func TestFormatTime(t *testing.T) {
	if got := formatTime(msv1_0.Forever); got != "never" {
		t.Errorf("Forever = %s", got)
	}
	if got := formatTime(0); got != "not set" {
		t.Errorf("0 = %s", got)
	}
	// 2000-01-01T00:00:00Z
	if got := formatTime(125911584000000000); got != "2000-01-01T00:00:00Z" {
		t.Errorf("2000-01-01 = %s", got)
	}
}
