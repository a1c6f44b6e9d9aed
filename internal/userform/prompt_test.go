package userform

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/vango-dev/userform/internal/errors"
	"github.com/vango-dev/userform/pkg/features/form"
)

// fakeDriver answers prompts from scripted queues.
type fakeDriver struct {
	selects   []int
	inputs    []string
	textareas []string
	infos     []string
	asked     []SelectConfig
}

func (d *fakeDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	if len(d.inputs) == 0 {
		return "", errors.New(errors.CodePromptAborted)
	}
	v := d.inputs[0]
	d.inputs = d.inputs[1:]
	return v, nil
}

func (d *fakeDriver) TextArea(_ context.Context, cfg TextAreaConfig) (string, error) {
	if len(d.textareas) == 0 {
		return "", errors.New(errors.CodePromptAborted)
	}
	v := d.textareas[0]
	d.textareas = d.textareas[1:]
	return v, nil
}

func (d *fakeDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	d.asked = append(d.asked, cfg)
	if len(d.selects) == 0 {
		return 0, errors.New(errors.CodePromptAborted)
	}
	v := d.selects[0]
	d.selects = d.selects[1:]
	return v, nil
}

func (d *fakeDriver) Info(_ context.Context, msg string) error {
	d.infos = append(d.infos, msg)
	return nil
}

func TestFillSubmitsFirstValidRound(t *testing.T) {
	driver := &fakeDriver{
		selects:   []int{0, 2}, // fan, ivysaur
		inputs:    []string{"Main St"},
		textareas: []string{"likes grass types"},
	}
	var observed form.Values
	got, err := Fill(context.Background(), driver, readyListing(t), ObserverFunc(func(_ context.Context, v form.Values) {
		observed = v
	}))
	if err != nil {
		t.Fatal(err)
	}

	want := form.Values{
		FieldPokemonFan:  "true",
		FieldAddress:     "Main St",
		FieldDescription: "likes grass types",
		FieldSelect:      2,
		FieldPokemon:     testRecords()[1],
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("values (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, observed); diff != "" {
		t.Errorf("observer (-want +got):\n%s", diff)
	}

	pokemon := driver.asked[1]
	if diff := cmp.Diff([]string{"Select an option", "bulbasaur", "ivysaur", "venusaur"}, pokemon.Options); diff != "" {
		t.Errorf("select options (-want +got):\n%s", diff)
	}
	if pokemon.DefaultIndex != 0 {
		t.Errorf("unset select should default to the empty entry, got %d", pokemon.DefaultIndex)
	}
}

func TestFillRepeatsUntilValid(t *testing.T) {
	driver := &fakeDriver{
		// round 1: not a fan; round 2: fan, no pokemon; round 3: fan, venusaur
		selects:   []int{1, 1, 0, 0, 0, 3},
		inputs:    []string{"a", "b", "c"},
		textareas: []string{"x", "y", "z"},
	}
	got, err := Fill(context.Background(), driver, readyListing(t), nil)
	if err != nil {
		t.Fatal(err)
	}
	if got[FieldPokemon] != testRecords()[2] || got[FieldAddress] != "c" {
		t.Errorf("values = %v", got)
	}
	if len(driver.infos) != 2 {
		t.Fatalf("infos = %q", driver.infos)
	}
	if driver.infos[0] != "Submit is only available to pokemon fans." {
		t.Errorf("first rejection = %q", driver.infos[0])
	}
	if driver.infos[1] != "Please fix the following:\n  selectOption: Please select an option." {
		t.Errorf("second rejection = %q", driver.infos[1])
	}

	// The second round starts from the answers of the first.
	if driver.asked[2].DefaultIndex != 1 {
		t.Errorf("radio default = %d, want the previous answer", driver.asked[2].DefaultIndex)
	}
}

func TestFillAborted(t *testing.T) {
	driver := &fakeDriver{selects: []int{0}}
	_, err := Fill(context.Background(), driver, readyListing(t), nil)
	if errors.CodeOf(err) != errors.CodePromptAborted {
		t.Fatalf("err = %v", err)
	}
}

func TestFillListingError(t *testing.T) {
	l := newListing(t, &fakeSource{err: errors.New(errors.CodeFetchTransport)})
	_, err := Fill(context.Background(), &fakeDriver{}, l, nil)
	if errors.CodeOf(err) != errors.CodeFetchTransport {
		t.Fatalf("err = %v", err)
	}
}
