package markdown

import (
	"strings"
	"testing"
)

type panicRenderer struct{}

func (panicRenderer) Render(string) (string, error) {
	panic("boom")
}

func TestSafeRender_RecoversFromRendererPanic(t *testing.T) {
	key := rendererKey{style: StyleASCII, width: 20}

	rendererMu.Lock()
	prev, hadPrev := renderers[key]
	renderers[key] = panicRenderer{}
	rendererMu.Unlock()

	defer func() {
		rendererMu.Lock()
		if hadPrev {
			renderers[key] = prev
		} else {
			delete(renderers, key)
		}
		rendererMu.Unlock()
	}()

	out := SafeRender(StyleASCII, 20, 0, []byte("hello\n"))
	if string(out) != "hello" {
		t.Fatalf("expected fallback to original markdown, got %q", string(out))
	}
}

func TestRender_Blank(t *testing.T) {
	for _, input := range []string{"", "\n\n", "   "} {
		if out := Render(StyleASCII, 40, 0, []byte(input)); out != nil {
			t.Errorf("Render(%q) = %q, want nil", input, out)
		}
	}
}

func TestRender_ASCII(t *testing.T) {
	out := string(Render(StyleASCII, 40, 2, []byte("# Buy milk\n\n- priority: high\n")))

	if !strings.Contains(out, "Buy milk") {
		t.Fatalf("expected heading text, got %q", out)
	}
	if !strings.Contains(out, "- priority: high") {
		t.Fatalf("expected ascii list item, got %q", out)
	}
	for _, line := range strings.Split(out, "\n") {
		if !strings.HasPrefix(line, "  ") {
			t.Fatalf("expected every line indented, got %q", line)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no escape codes in ascii style, got %q", out)
	}
}

func TestStyleFor(t *testing.T) {
	if StyleFor(true) != StyleDark || StyleFor(false) != StyleLight {
		t.Fatal("unexpected style mapping")
	}
}
