package errors

import "sort"

// Registered error codes.
const (
	CodeFetchStatus    = "E100"
	CodeFetchTransport = "E101"
	CodeFetchDecode    = "E102"
	CodeFetchClosed    = "E103"

	CodeValidation     = "E200"
	CodeSubmitDisabled = "E201"

	CodeUnknownField = "E300"
	CodeMissingField = "E301"
	CodeNotRendered  = "E302"

	CodeConfigLoad    = "E400"
	CodeConfigInvalid = "E401"

	CodePromptAborted = "E500"
)

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	CodeFetchStatus: {
		Category: CategoryFetch,
		Message:  "Network response was not ok",
		Detail:   "The listing endpoint answered with a non-success HTTP status.",
	},
	CodeFetchTransport: {
		Category: CategoryFetch,
		Message:  "Request to the listing endpoint failed",
		Detail:   "The request never produced a response (DNS, connection or timeout failure).",
	},
	CodeFetchDecode: {
		Category: CategoryFetch,
		Message:  "Listing response could not be decoded",
		Detail:   "The response body was not the expected JSON document with a results array.",
	},
	CodeFetchClosed: {
		Category: CategoryFetch,
		Message:  "Resource client closed",
		Detail:   "The fetch was abandoned because the resource client shut down.",
	},
	CodeValidation: {
		Category: CategoryValidation,
		Message:  "Form values failed validation",
		Detail:   "One or more fields violate the form schema; see the per-field messages.",
	},
	CodeSubmitDisabled: {
		Category: CategoryValidation,
		Message:  "Submit is disabled",
		Detail:   "The form only accepts a submission while pokemonFan is \"true\".",
	},
	CodeUnknownField: {
		Category: CategoryContract,
		Message:  "Field is not part of the form defaults",
		Detail:   "Every field a renderer binds must be declared in the controller defaults.",
	},
	CodeMissingField: {
		Category: CategoryContract,
		Message:  "Field renderer called without a field binding",
		Detail:   "Field renderers require a name and a controller binding.",
	},
	CodeNotRendered: {
		Category: CategoryContract,
		Message:  "Field has no rendered control",
		Detail:   "Change events are only accepted for controls on the current page.",
	},
	CodeConfigLoad: {
		Category: CategoryConfig,
		Message:  "Configuration could not be loaded",
		Detail:   "The configuration file or environment could not be read or parsed.",
	},
	CodeConfigInvalid: {
		Category: CategoryConfig,
		Message:  "Configuration is invalid",
		Detail:   "One or more configuration values failed validation.",
	},
	CodePromptAborted: {
		Category: CategoryTerminal,
		Message:  "Prompt aborted",
		Detail:   "The terminal session was interrupted before the form was submitted.",
	},
}

// GetAllCodes returns all registered error codes, sorted.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
