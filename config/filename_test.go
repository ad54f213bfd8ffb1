package config

import "testing"

func TestCleanFileName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"paper", "paper"},
		{"hal-01234567v2", "hal-01234567v2"},
		{"a/b\\c", "abc"},
		{"what? <really>", "what really"},
		{"weird:name", "weirdname"},
		{".hidden", "hidden"},
		{"trailing. ", "trailing"},
		{"tab\there", "tabhere"},
		{"...", "_bad_file_name_"},
		{"", "_bad_file_name_"},
	}
	for _, tt := range tests {
		if got := CleanFileName(tt.in); got != tt.want {
			t.Errorf("CleanFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
