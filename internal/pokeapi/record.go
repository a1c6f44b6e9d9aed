package pokeapi

import (
	"html"
	"path"
	"strconv"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// Record is one entry of the listing. ID is unique within one listing.
type Record struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// entry is the wire form of one result.
type entry struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// listing is the wire form of the endpoint response.
type listing struct {
	Count   int     `json:"count"`
	Next    *string `json:"next"`
	Results []entry `json:"results"`
}

var (
	namePolicyOnce sync.Once
	namePolicy     *bluemonday.Policy
)

// cleanName strips any markup from a remote name. The result is plain
// text; escaping is left to the renderer.
func cleanName(raw string) string {
	namePolicyOnce.Do(func() {
		namePolicy = bluemonday.StrictPolicy()
	})
	return strings.TrimSpace(html.UnescapeString(namePolicy.Sanitize(raw)))
}

// idFromURL extracts the trailing numeric segment of a record URL
// ("https://pokeapi.co/api/v2/pokemon/25/" is 25).
func idFromURL(raw string) (int, bool) {
	seg := path.Base(strings.TrimRight(raw, "/"))
	id, err := strconv.Atoi(seg)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// toRecords assigns every entry a unique id. The id embedded in the URL is
// used when present and not taken; other entries get their 1-based
// position, or the next free id after it.
func toRecords(entries []entry) []Record {
	records := make([]Record, len(entries))
	used := make(map[int]bool, len(entries))
	pending := make([]int, 0)

	for i, e := range entries {
		records[i] = Record{Name: cleanName(e.Name), URL: e.URL}
		if id, ok := idFromURL(e.URL); ok && !used[id] {
			records[i].ID = id
			used[id] = true
			continue
		}
		pending = append(pending, i)
	}

	for _, i := range pending {
		id := i + 1
		for used[id] {
			id++
		}
		records[i].ID = id
		used[id] = true
	}
	return records
}
