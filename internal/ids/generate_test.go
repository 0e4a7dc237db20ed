package ids

import "testing"

func TestNew(t *testing.T) {
	id := New()

	if len(id) != 36 {
		t.Fatalf("expected ID length 36, got %d: %q", len(id), id)
	}
	if !Valid(id) {
		t.Fatalf("expected %q to be a valid UUID", id)
	}
	for _, c := range id {
		if c >= 'A' && c <= 'Z' {
			t.Fatalf("ID contains uppercase character %q: %q", c, id)
		}
	}
}

func TestNew_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := New()
		if seen[id] {
			t.Fatalf("duplicate ID after %d generations: %q", i, id)
		}
		seen[id] = true
	}
}

func TestValid(t *testing.T) {
	if Valid("not-a-uuid") {
		t.Error("expected garbage to be invalid")
	}
	if !Valid("6ba7b810-9dad-11d1-80b4-00c04fd430c8") {
		t.Error("expected canonical UUID to be valid")
	}
}
