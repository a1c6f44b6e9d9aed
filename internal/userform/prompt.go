package userform

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/vango-dev/userform/internal/errors"
	"github.com/vango-dev/userform/pkg/features/form"
	"github.com/vango-dev/userform/pkg/fields"
	"github.com/vango-dev/userform/pkg/render"
)

// InputConfig configures a single-line prompt.
type InputConfig struct {
	Message string
	Default string
	Help    string
}

// TextAreaConfig configures a multi-line prompt.
type TextAreaConfig struct {
	Message string
	Default string
	Help    string
}

// SelectConfig configures a single-choice prompt.
type SelectConfig struct {
	Message      string
	Options      []string
	DefaultIndex int
	Help         string
	PageSize     int
}

// PromptDriver asks the questions of the terminal form. Implementations
// return a CodePromptAborted error when the user interrupts.
type PromptDriver interface {
	Input(ctx context.Context, cfg InputConfig) (string, error)
	TextArea(ctx context.Context, cfg TextAreaConfig) (string, error)
	Select(ctx context.Context, cfg SelectConfig) (int, error)
	Info(ctx context.Context, msg string) error
}

// SurveyDriver prompts on a terminal.
type SurveyDriver struct {
	stdio terminal.Stdio
	out   io.Writer
}

// NewSurveyDriver returns a driver reading from in and writing to out.
func NewSurveyDriver(in terminal.FileReader, out terminal.FileWriter, errOut io.Writer) *SurveyDriver {
	return &SurveyDriver{
		stdio: terminal.Stdio{In: in, Out: out, Err: errOut},
		out:   out,
	}
}

func (d *SurveyDriver) Input(ctx context.Context, cfg InputConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	prompt := &survey.Input{Message: cfg.Message, Default: cfg.Default, Help: cfg.Help}
	if err := survey.AskOne(prompt, &out, survey.WithStdio(d.stdio.In, d.stdio.Out, d.stdio.Err)); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func (d *SurveyDriver) TextArea(ctx context.Context, cfg TextAreaConfig) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var out string
	prompt := &survey.Multiline{Message: cfg.Message, Default: cfg.Default, Help: cfg.Help}
	if err := survey.AskOne(prompt, &out, survey.WithStdio(d.stdio.In, d.stdio.Out, d.stdio.Err)); err != nil {
		return "", translateSurveyErr(err)
	}
	return out, nil
}

func (d *SurveyDriver) Select(ctx context.Context, cfg SelectConfig) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var out string
	prompt := &survey.Select{Message: cfg.Message, Options: cfg.Options, Help: cfg.Help}
	if cfg.PageSize > 0 {
		prompt.PageSize = cfg.PageSize
	}
	if cfg.DefaultIndex >= 0 && cfg.DefaultIndex < len(cfg.Options) {
		prompt.Default = cfg.Options[cfg.DefaultIndex]
	}
	if err := survey.AskOne(prompt, &out, survey.WithStdio(d.stdio.In, d.stdio.Out, d.stdio.Err)); err != nil {
		return 0, translateSurveyErr(err)
	}
	for i, option := range cfg.Options {
		if option == out {
			return i, nil
		}
	}
	return -1, nil
}

func (d *SurveyDriver) Info(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(d.out, msg)
	return err
}

func translateSurveyErr(err error) error {
	if stderrors.Is(err, terminal.InterruptErr) {
		return errors.New(errors.CodePromptAborted).Wrap(err)
	}
	return err
}

// Fill asks for every field of the form until a submit is accepted, using
// the same change handlers, schema and submit rule as the web page. The
// listing is loaded first; a failed listing is returned as is.
func Fill(ctx context.Context, driver PromptDriver, listing *Listing, observer Observer) (form.Values, error) {
	records, err := listing.Load(ctx)
	if err != nil {
		return nil, err
	}
	catalog := listing.Catalog(records)

	var submitted form.Values
	sess := NewSession("terminal", NewPage(listing), Observers(observer, ObserverFunc(func(_ context.Context, v form.Values) {
		submitted = v
	})), render.RendererConfig{})
	// Rendering once binds the change handlers.
	if _, err := sess.Fragment(); err != nil {
		return nil, err
	}

	for {
		if err := askAll(ctx, driver, sess, catalog); err != nil {
			return nil, err
		}

		_, err := sess.Submit(ctx)
		if err == nil {
			return submitted, nil
		}
		if info := rejection(err, sess.Controller().Errors()); info != "" {
			if err := driver.Info(ctx, info); err != nil {
				return nil, err
			}
		}
	}
}

func askAll(ctx context.Context, driver PromptDriver, sess *Session, catalog Catalog) error {
	view := sess.Controller().View()

	radio := RadioOptions()
	idx, err := driver.Select(ctx, SelectConfig{
		Message:      "Are you a pokemon fan?",
		Options:      labels(radio),
		DefaultIndex: optionIndex(radio, view.Field(FieldPokemonFan).String()),
	})
	if err != nil {
		return err
	}
	if idx >= 0 && idx < len(radio) {
		if err := sess.Apply(FieldPokemonFan, radio[idx].ValueString()); err != nil {
			return err
		}
	}

	address, err := driver.Input(ctx, InputConfig{
		Message: "Address",
		Default: view.Field(FieldAddress).String(),
		Help:    "Enter address",
	})
	if err != nil {
		return err
	}
	if err := sess.Apply(FieldAddress, address); err != nil {
		return err
	}

	description, err := driver.TextArea(ctx, TextAreaConfig{
		Message: "Description",
		Default: view.Field(FieldDescription).String(),
		Help:    "Enter description",
	})
	if err != nil {
		return err
	}
	if err := sess.Apply(FieldDescription, description); err != nil {
		return err
	}

	// The first entry is the empty option.
	choices := append([]string{fields.Placeholder}, labels(catalog.Options)...)
	idx, err = driver.Select(ctx, SelectConfig{
		Message:      "Pokemon",
		Options:      choices,
		DefaultIndex: optionIndex(catalog.Options, view.Field(FieldSelect).String()) + 1,
		PageSize:     10,
	})
	if err != nil {
		return err
	}
	raw := ""
	if idx > 0 && idx <= len(catalog.Options) {
		raw = catalog.Options[idx-1].ValueString()
	}
	return sess.Apply(FieldSelect, raw)
}

// rejection explains a refused submit.
func rejection(err error, failing form.Errors) string {
	switch errors.CodeOf(err) {
	case errors.CodeSubmitDisabled:
		return "Submit is only available to pokemon fans."
	case errors.CodeValidation:
		names := make([]string, 0, len(failing))
		for name := range failing {
			names = append(names, name)
		}
		sort.Strings(names)
		lines := make([]string, 0, len(names))
		for _, name := range names {
			lines = append(lines, fmt.Sprintf("  %s: %s", name, failing[name]))
		}
		return "Please fix the following:\n" + strings.Join(lines, "\n")
	default:
		return err.Error()
	}
}

func labels(options []fields.Option) []string {
	out := make([]string, len(options))
	for i, o := range options {
		out[i] = o.Label
	}
	return out
}

// optionIndex returns the position of the option with value, or -1.
func optionIndex(options []fields.Option, value string) int {
	if value == "" {
		return -1
	}
	for i, o := range options {
		if o.ValueString() == value {
			return i
		}
	}
	return -1
}
