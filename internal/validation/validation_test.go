package validation

import "testing"

func TestRequired(t *testing.T) {
	v := make(Violations)
	Required("title", "  ", v)
	if v["title"] != "required" {
		t.Fatalf("expected required violation, got %v", v)
	}

	v = make(Violations)
	Required("title", "hello", v)
	if !v.Empty() {
		t.Fatalf("expected no violations, got %v", v)
	}
}

func TestMaxLen(t *testing.T) {
	v := make(Violations)
	MaxLen("title", "あいうえお", 4, v)
	if v["title"] != "too_long" {
		t.Fatalf("expected too_long violation, got %v", v)
	}

	v = make(Violations)
	MaxLen("title", "あいうえ", 4, v)
	if !v.Empty() {
		t.Fatalf("expected no violations, got %v", v)
	}
}

func TestSlug(t *testing.T) {
	ok := []string{"go", "test_tag1", "with-hyphen", "ABC_123"}
	for _, s := range ok {
		v := make(Violations)
		Slug("slug", s, v)
		if !v.Empty() {
			t.Errorf("%q: expected valid slug, got %v", s, v)
		}
	}

	bad := []string{"has space", "日記", "a/b", "a.b"}
	for _, s := range bad {
		v := make(Violations)
		Slug("slug", s, v)
		if v["slug"] != "invalid_slug" {
			t.Errorf("%q: expected invalid_slug violation, got %v", s, v)
		}
	}

	// empty is Required's business
	v := make(Violations)
	Slug("slug", "", v)
	if !v.Empty() {
		t.Fatalf("empty slug should not be flagged here, got %v", v)
	}
}
