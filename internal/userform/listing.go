package userform

import (
	"context"
	"sync"
	"time"

	"github.com/vango-dev/userform/internal/pokeapi"
	"github.com/vango-dev/userform/pkg/features/resource"
	"github.com/vango-dev/userform/pkg/fields"
)

// ListingKey is the cache key of the pokemon listing.
const ListingKey = "pokemon-listing"

// Source fetches the records the select offers.
type Source interface {
	List(ctx context.Context) ([]pokeapi.Record, error)
}

// Catalog is the select's view of one fetched listing.
type Catalog struct {
	Records []pokeapi.Record
	Options []fields.Option
}

// Lookup returns the record behind the option with value id, for the
// select cascade.
func (c Catalog) Lookup(id int) (any, bool) {
	for i, opt := range c.Options {
		if v, ok := opt.Value.(int); ok && v == id {
			return c.Records[i], true
		}
	}
	return nil, false
}

// NewCatalog maps records to select options. Values are record ids, falling
// back to the 1-based position for a record without one.
func NewCatalog(records []pokeapi.Record) Catalog {
	return Catalog{
		Records: records,
		Options: fields.Options(records, func(r pokeapi.Record, i int) fields.Option {
			value := r.ID
			if value == 0 {
				value = i + 1
			}
			return fields.Option{Value: value, Label: r.Name}
		}),
	}
}

// Listing is the shared, cached pokemon listing. All sessions of a server
// read the same Listing.
type Listing struct {
	res *resource.Resource[[]pokeapi.Record]

	mu      sync.Mutex
	mapped  []pokeapi.Record
	catalog Catalog
	built   bool
}

// NewListing returns a listing fetched from source through client. A zero
// staleTime keeps a fetched listing until Invalidate.
func NewListing(client *resource.Client, source Source, staleTime time.Duration) *Listing {
	res := resource.New(client, ListingKey, resource.Fetcher[[]pokeapi.Record](source.List)).
		StaleTime(staleTime)
	return &Listing{res: res}
}

// Fetch starts loading unless a fetch is running or the data is fresh.
func (l *Listing) Fetch() { l.res.Fetch() }

// Refetch forces a new fetch.
func (l *Listing) Refetch() { l.res.Refetch() }

// Invalidate marks the listing stale.
func (l *Listing) Invalidate() { l.res.Invalidate() }

// State returns the current state.
func (l *Listing) State() resource.State { return l.res.State() }

// Snapshot returns a consistent read for one render.
func (l *Listing) Snapshot() resource.Snapshot[[]pokeapi.Record] { return l.res.Snapshot() }

// Watch calls fn on every state change until the returned func is called.
func (l *Listing) Watch(fn func(resource.State)) func() { return l.res.Watch(fn) }

// Load waits for the listing, fetching it when needed.
func (l *Listing) Load(ctx context.Context) ([]pokeapi.Record, error) { return l.res.Load(ctx) }

// Catalog returns the options for records. Mapping runs once per fetched
// result; later calls with the same result return the memoized catalog.
func (l *Listing) Catalog(records []pokeapi.Record) Catalog {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.built && sameSlice(l.mapped, records) {
		return l.catalog
	}
	l.mapped = records
	l.catalog = NewCatalog(records)
	l.built = true
	return l.catalog
}

func sameSlice(a, b []pokeapi.Record) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}
