package userform

import (
	"github.com/vango-dev/userform/internal/errors"
	"github.com/vango-dev/userform/internal/pokeapi"
	"github.com/vango-dev/userform/pkg/features/form"
	"github.com/vango-dev/userform/pkg/features/resource"
	"github.com/vango-dev/userform/pkg/fields"
	"github.com/vango-dev/userform/pkg/vdom"
)

// Field names.
const (
	FieldPokemonFan  = "pokemonFan"
	FieldAddress     = "address"
	FieldDescription = "description"
	FieldSelect      = "selectOption"
	FieldPokemon     = "pokemon"
)

// Title is the document title.
const Title = "User form"

// RootID is the id of the element a live render replaces.
const RootID = "userform"

const pageCSS = `
.form-container {
  display: flex;
  flex-direction: column;
  gap: 1rem;
  max-width: 200px;
  margin: 0 auto;
}
.submit-button {
  background-color: #0d6efd;
  color: white;
  border: none;
  padding: 0.5rem 1rem;
  border-radius: 0.25rem;
  cursor: pointer;
  font-size: 1rem;
}
.submit-button:hover {
  background-color: #0b5ed7;
}
.submit-button:disabled {
  background-color: #ced4da;
  color: #6c757d;
  cursor: not-allowed;
}
`

// Defaults returns the initial form values.
func Defaults() form.Values {
	return form.Values{
		FieldPokemonFan:  "true",
		FieldAddress:     "asd",
		FieldDescription: "adsf",
		FieldSelect:      nil,
		FieldPokemon:     pokeapi.Record{},
	}
}

// Schema returns the form rules.
func Schema() form.Schema {
	return form.Schema{
		form.FieldRule(FieldAddress, form.Required("Address is required")),
		form.FieldRule(FieldDescription, form.Required("Description is required")),
		form.FieldRule(FieldSelect, form.Defined("Please select an option.")),
	}
}

// RadioOptions are the choices of the pokemonFan field.
func RadioOptions() []fields.Option {
	return []fields.Option{
		{Value: "true", Label: "Yes I am pokemon fan"},
		{Value: "false", Label: "I don't like pokemon"},
	}
}

// NewController returns a controller with the page defaults and schema,
// validating on every change.
func NewController() *form.Controller {
	return form.New(Defaults(), form.WithSchema(Schema()), form.WithMode(form.OnChange))
}

// SubmitEnabled reports whether the submit action is available. It only is
// while pokemonFan holds the string "true".
func SubmitEnabled(v form.View) bool {
	fan, ok := v.Watch(FieldPokemonFan).(string)
	return ok && fan == "true"
}

// Page renders the form for one listing.
type Page struct {
	listing *Listing
}

// NewPage returns a page over listing.
func NewPage(listing *Listing) *Page {
	return &Page{listing: listing}
}

// Listing returns the data source behind the page.
func (p *Page) Listing() *Listing { return p.listing }

// Render returns the page content for the current listing state.
func (p *Page) Render(view form.View) *vdom.VNode {
	return p.render(view, p.listing.Snapshot())
}

func (p *Page) render(view form.View, snap resource.Snapshot[[]pokeapi.Record]) *vdom.VNode {
	body := snap.Match(
		resource.OnLoadingOrPending[[]pokeapi.Record](func() *vdom.VNode {
			return vdom.Div(vdom.Class("status"), "Loading...")
		}),
		resource.OnError[[]pokeapi.Record](func(err error) *vdom.VNode {
			return vdom.Div(vdom.Class("status", "status-error"), vdom.Role("alert"), "Error: "+Reason(err))
		}),
		resource.OnReady(func(records []pokeapi.Record) *vdom.VNode {
			return p.form(view, p.listing.Catalog(records))
		}),
	)
	return vdom.Main(vdom.ID(RootID), vdom.AriaLive("polite"), body)
}

func (p *Page) form(view form.View, catalog Catalog) *vdom.VNode {
	return vdom.Form(
		vdom.Class("form-container"),
		vdom.Method("post"),
		vdom.Action("/"),
		vdom.NoValidate(true),
		fields.Radio(view.Field(FieldPokemonFan), RadioOptions()),
		fields.Input(view.Field(FieldAddress), vdom.Type("text"), vdom.Placeholder("Enter address"), vdom.Autocomplete("street-address")),
		fields.Textarea(view.Field(FieldDescription), vdom.Placeholder("Enter description"), vdom.Rows(3)),
		fields.Select(view.Field(FieldSelect), catalog.Options, &fields.Cascade{
			Field:  FieldPokemon,
			Lookup: catalog.Lookup,
		}),
		vdom.Button(
			vdom.Class("submit-button"),
			vdom.Type("submit"),
			vdom.Disabled(!SubmitEnabled(view)),
			"Submit",
		),
	)
}

// Reason is the text shown after "Error: " for a failed listing.
func Reason(err error) string {
	var e *errors.Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return err.Error()
}
