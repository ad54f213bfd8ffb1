package debug

import "testing"

func TestTreeWriter_Line(t *testing.T) {
	tw := NewTreeWriter()
	if tw.String() != "" {
		t.Fatal("Expected empty string from new TreeWriter")
	}
	tw.Line(0, "root")
	tw.Line(2, "%s = %d", "count", 5)
	want := "root\n    count = 5\n"
	if got := tw.String(); got != want {
		t.Errorf("Line() = %q, want %q", got, want)
	}
}

func TestTreeWriter_TextBlock(t *testing.T) {
	tests := []struct {
		name  string
		depth int
		label string
		value string
		want  string
	}{
		{"empty value", 0, "field", "", "field: \n"},
		{"indented", 1, "text", "hello world", "  text: \"hello world\"\n"},
		{"newline", 0, "multiline", "line1\nline2", "multiline: \"line1\\nline2\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.TextBlock(tt.depth, tt.label, tt.value)
			if got := tw.String(); got != tt.want {
				t.Errorf("TextBlock() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_Element(t *testing.T) {
	tw := NewTreeWriter()
	tw.Element(1, "title", "xml:lang", "en", "type")
	tw.Element(0, "body")
	want := "  title xml:lang=\"en\"\nbody\n"
	if got := tw.String(); got != want {
		t.Errorf("Element() = %q, want %q", got, want)
	}
}
