package search

import (
	"testing"
)

func TestFindEmptyQuery(t *testing.T) {
	if got := Find("", "anything at all"); len(got) != 0 {
		t.Fatalf("expected no matches, got %v", got)
	}
}

func TestFindCaseInsensitivePositions(t *testing.T) {
	got := Find("abc", "abcABCabc")
	want := []Match{{0, 3}, {3, 3}, {6, 3}}
	if len(got) != len(want) {
		t.Fatalf("got %d matches, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("match %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestFindNonOverlapping(t *testing.T) {
	got := Find("aa", "aaaa")
	want := []Match{{0, 2}, {2, 2}}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestFindRuneOffsets(t *testing.T) {
	got := Find("note", "héllo Note")
	if len(got) != 1 {
		t.Fatalf("got %v", got)
	}
	if got[0].Start != 6 || got[0].Length != 4 {
		t.Fatalf("got %v, want {6 4}", got[0])
	}
}

func TestSessionWraparound(t *testing.T) {
	s := NewSession()
	s.SetQuery("abc", "abcABCabc")

	first, ok := s.Current()
	if !ok || first.Start != 0 {
		t.Fatalf("current = %v ok=%v", first, ok)
	}

	if m, _ := s.Next(); m.Start != 3 {
		t.Fatalf("next = %v", m)
	}
	if m, _ := s.Next(); m.Start != 6 {
		t.Fatalf("next = %v", m)
	}
	if m, _ := s.Next(); m.Start != 0 {
		t.Fatalf("next should wrap to start, got %v", m)
	}
	if m, _ := s.Previous(); m.Start != 6 {
		t.Fatalf("previous should wrap to end, got %v", m)
	}
}

func TestSessionHideKeepsQuery(t *testing.T) {
	s := NewSession()
	s.SetQuery("beta", "alpha beta gamma beta")
	s.Show()
	s.Hide()

	if s.Query() != "beta" {
		t.Fatalf("query = %q, want %q", s.Query(), "beta")
	}
	if len(s.Matches()) != 2 {
		t.Fatalf("matches = %v", s.Matches())
	}
}

func TestSessionRefreshKeepsCursorInRange(t *testing.T) {
	s := NewSession()
	s.SetQuery("x", "x x x")
	s.Next()
	s.Next()

	s.Refresh("x")
	if pos, total := s.Position(); pos != 1 || total != 1 {
		t.Fatalf("position = %d/%d, want 1/1", pos, total)
	}

	s.Refresh("no hits in this line")
	if _, ok := s.Current(); ok {
		t.Fatal("expected no current match after refresh with no hits")
	}
}
