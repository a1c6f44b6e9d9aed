package pokeapi

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestToRecordsUniqueIDs(t *testing.T) {
	entries := []entry{
		{Name: "a", URL: "https://pokeapi.co/api/v2/pokemon/21/"},
		{Name: "b", URL: ""}, // position 2 is taken by c
		{Name: "c", URL: "https://pokeapi.co/api/v2/pokemon/2/"},
		{Name: "d", URL: "https://pokeapi.co/api/v2/pokemon/21/"},
		{Name: "e", URL: "not-a-url"},
	}

	got := toRecords(entries)

	ids := make([]int, len(got))
	seen := make(map[int]bool)
	for i, r := range got {
		ids[i] = r.ID
		if seen[r.ID] {
			t.Errorf("duplicate id %d", r.ID)
		}
		seen[r.ID] = true
	}
	if diff := cmp.Diff([]int{21, 3, 2, 4, 5}, ids); diff != "" {
		t.Errorf("ids (-want +got):\n%s", diff)
	}
}

func TestToRecordsPositionalWithoutURLs(t *testing.T) {
	got := toRecords([]entry{{Name: "x"}, {Name: "y"}, {Name: "z"}})
	for i, r := range got {
		if r.ID != i+1 {
			t.Errorf("record %d id = %d", i, r.ID)
		}
	}
}

func TestCleanName(t *testing.T) {
	tests := map[string]string{
		"pikachu":                        "pikachu",
		"  mr-mime ":                     "mr-mime",
		"<b>bold</b>":                    "bold",
		"<script>alert(1)</script>eevee": "eevee",
		"farfetch&#39;d":                 "farfetch'd",
	}
	for in, want := range tests {
		if got := cleanName(in); got != want {
			t.Errorf("cleanName(%q) = %q, want %q", in, got, want)
		}
	}
}
