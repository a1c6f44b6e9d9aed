package form

// Errors maps a field name to its first failing message.
type Errors map[string]string

// Clone returns a copy of e.
func (e Errors) Clone() Errors {
	out := make(Errors, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// Rule checks a complete set of values and reports failing fields.
// Rules are pure: the same values always produce the same errors.
type Rule interface {
	Check(values Values) Errors
}

// RuleFunc is a function that implements Rule.
type RuleFunc func(values Values) Errors

func (f RuleFunc) Check(values Values) Errors {
	return f(values)
}

// FieldRule applies validators to one field in order and reports the first
// failure.
func FieldRule(name string, validators ...Validator) Rule {
	return RuleFunc(func(values Values) Errors {
		value := values[name]
		for _, v := range validators {
			if err := v.Validate(value); err != nil {
				return Errors{name: err.Error()}
			}
		}
		return nil
	})
}

// Schema is an ordered list of rules. When two rules fail the same field,
// the earlier rule's message wins.
type Schema []Rule

// Validate runs every rule against values.
func (s Schema) Validate(values Values) Errors {
	out := make(Errors)
	for _, rule := range s {
		for field, msg := range rule.Check(values) {
			if _, seen := out[field]; !seen {
				out[field] = msg
			}
		}
	}
	return out
}
