package markdown

import (
	"strings"
	"testing"
)

func TestRender_Empty(t *testing.T) {
	if out := Render(80, 0, nil); out != nil {
		t.Errorf("expected nil for empty input, got %q", out)
	}
	if out := Render(80, 0, []byte("   \n\n")); out != nil {
		t.Errorf("expected nil for blank input, got %q", out)
	}
}

func TestRender_Basic(t *testing.T) {
	out := Render(80, 0, []byte("# Heading\n\nsome text"))
	if len(out) == 0 {
		t.Fatal("expected rendered output")
	}
	if !strings.Contains(string(out), "Heading") {
		t.Errorf("expected heading in output, got %q", out)
	}
}

func TestRender_Indent(t *testing.T) {
	out := Render(80, 4, []byte("text"))
	if len(out) == 0 {
		t.Fatal("expected rendered output")
	}
	for _, line := range strings.Split(string(out), "\n") {
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "    ") {
			t.Errorf("expected indented line, got %q", line)
		}
	}
}

func TestReflowParagraphs(t *testing.T) {
	in := "first   paragraph with  extra   spaces\n\nsecond paragraph"
	out := ReflowParagraphs(in, 80)
	parts := strings.Split(out, "\n\n")
	if len(parts) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", len(parts))
	}
	if parts[0] != "first paragraph with extra spaces" {
		t.Errorf("expected normalized paragraph, got %q", parts[0])
	}
}

func TestReflowParagraphs_Wraps(t *testing.T) {
	in := strings.Repeat("word ", 30)
	out := ReflowParagraphs(in, 40)
	for _, line := range strings.Split(out, "\n") {
		if len(line) > 40 {
			t.Errorf("expected wrapped line within 40 chars, got %d: %q", len(line), line)
		}
	}
}

func TestRenderPlain(t *testing.T) {
	out := RenderPlain(40, 2, []byte("some   text that should  wrap without any styling applied to it"))
	if len(out) == 0 {
		t.Fatal("expected output")
	}
	for _, line := range strings.Split(string(out), "\n") {
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "  ") {
			t.Errorf("expected indented line, got %q", line)
		}
		if len(line) > 40 {
			t.Errorf("expected wrapped line within 40 chars, got %d: %q", len(line), line)
		}
	}
	if strings.Contains(string(out), "   text") {
		t.Errorf("expected collapsed whitespace, got %q", out)
	}
}

func TestRenderPlain_Blank(t *testing.T) {
	if out := RenderPlain(80, 0, nil); out != nil {
		t.Errorf("expected nil for empty input, got %q", out)
	}
	if out := RenderPlain(80, 0, []byte(" \n \n")); out != nil {
		t.Errorf("expected nil for blank input, got %q", out)
	}
}
