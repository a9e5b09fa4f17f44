package hashtag

import (
	"reflect"
	"testing"
)

func TestScanCountsTags(t *testing.T) {
	text := "call #work about #budget\n#work again\nno tags here\ntrailing # alone"
	got := Scan(text)
	want := map[string]int{"work": 2, "budget": 1}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("scan = %v, want %v", got, want)
	}
}

func TestScanTagEndsAtWhitespace(t *testing.T) {
	got := Scan("#multi-word_tag, then #end")
	if got["multi-word_tag,"] != 1 || got["end"] != 1 {
		t.Fatalf("scan = %v", got)
	}
}

func TestSuggestionsEmptyPrefixMostRecentFirst(t *testing.T) {
	ix := NewIndex(10)
	ix.Rescan("#alpha #beta #gamma")
	ix.RecordUsage("beta")
	ix.RecordUsage("alpha")

	got := ix.Suggestions("")
	if len(got) != 3 {
		t.Fatalf("got %v", got)
	}
	if got[0] != "alpha" || got[1] != "beta" {
		t.Fatalf("recency order wrong: %v", got)
	}
	if got[2] != "gamma" {
		t.Fatalf("unused tag should come last: %v", got)
	}
}

func TestSuggestionsPrefixFilter(t *testing.T) {
	ix := NewIndex(10)
	ix.Rescan("#xray #xylophone #yankee")

	got := ix.Suggestions("x")
	if len(got) != 2 {
		t.Fatalf("got %v", got)
	}
	for _, tag := range got {
		if tag[0] != 'x' {
			t.Fatalf("non-prefix tag in results: %v", got)
		}
	}
}

func TestSuggestionsCaseSensitiveAsAuthored(t *testing.T) {
	ix := NewIndex(10)
	ix.Rescan("#Work #work")

	if got := ix.Suggestions("W"); len(got) != 1 || got[0] != "Work" {
		t.Fatalf("got %v", got)
	}
	if ix.Len() != 2 {
		t.Fatalf("expected distinct case variants, have %d", ix.Len())
	}
}

func TestSuggestionsTieBreakCountThenLexical(t *testing.T) {
	ix := NewIndex(10)
	ix.Rescan("#busy #busy #bold #bare")

	got := ix.Suggestions("b")
	want := []string{"busy", "bare", "bold"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestSuggestionsCap(t *testing.T) {
	ix := NewIndex(2)
	ix.Rescan("#a #b #c #d")
	if got := ix.Suggestions(""); len(got) != 2 {
		t.Fatalf("got %v, want 2 entries", got)
	}
}

func TestRescanPreservesRecency(t *testing.T) {
	ix := NewIndex(10)
	ix.Rescan("#old #new")
	ix.RecordUsage("old")
	ix.Rescan("#old #new #fresh")

	got := ix.Suggestions("")
	if got[0] != "old" {
		t.Fatalf("recency lost across rescan: %v", got)
	}
}

func TestRescanDropsRemovedTags(t *testing.T) {
	ix := NewIndex(10)
	ix.Rescan("#keep #drop")
	ix.Rescan("#keep")
	if ix.Len() != 1 {
		t.Fatalf("expected 1 tag after rescan, have %d", ix.Len())
	}
}

func TestSeedRestoresOrdering(t *testing.T) {
	ix := NewIndex(10)
	ix.Rescan("#a #b #c")
	ix.Seed([]string{"b", "c"})

	got := ix.Suggestions("")
	if got[0] != "c" || got[1] != "b" || got[2] != "a" {
		t.Fatalf("seed order wrong: %v", got)
	}
}
