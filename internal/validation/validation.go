// Package validation checks decoded JSON input against declarative
// schemas and reports every violation as a human-readable message.
package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Type is the JSON shape a field accepts.
type Type int

const (
	// TypeString accepts JSON strings.
	TypeString Type = iota
	// TypeNumber accepts integral JSON numbers and yields an int64.
	TypeNumber
	// TypeNumeric accepts integral JSON numbers or numeric strings and
	// yields an int64.
	TypeNumeric
	// TypeDate accepts date strings and yields a time.Time.
	TypeDate
)

// Transform normalizes a string value before its rules run.
type Transform func(string) string

var (
	Trim      Transform = strings.TrimSpace
	Lowercase Transform = strings.ToLower
)

// Rule is a validator tag paired with the message reported when it fails.
type Rule struct {
	Tag     string
	Message string
}

// Field declares one input key and how it is checked.
type Field struct {
	Name  string
	Label string
	Type  Type

	Required bool
	// Default is used when the field is absent. A field with a default is
	// never reported as missing.
	Default any

	Transforms []Transform
	Rules      []Rule

	RequiredMessage string
	TypeMessage     string
}

// Schema is a named, ordered set of fields. Its name prefixes error messages.
type Schema struct {
	Name   string
	Fields []Field
}

// ValidationError lists every violation found in one input.
type ValidationError struct {
	Schema   string
	Messages []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s validation error: %s", e.Schema, strings.Join(e.Messages, "; "))
}

// Validator checks input against schemas. It is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
}

var alnumUnderscore = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// New returns a Validator with the custom rule tags registered.
func New() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())
	// Registration only fails for empty tags or nil funcs.
	_ = validate.RegisterValidation("alnumunderscore", func(fl validator.FieldLevel) bool {
		return alnumUnderscore.MatchString(fl.Field().String())
	})
	_ = validate.RegisterValidation("datestring", func(fl validator.FieldLevel) bool {
		_, err := ParseDate(fl.Field().String())
		return err == nil
	})

	return &Validator{validate: validate}
}

// Validate checks raw against schema. Fields that are not declared in the
// schema are dropped. It returns either the normalized values or a
// *ValidationError, never both.
func (v *Validator) Validate(raw map[string]any, schema Schema) (Values, error) {
	values := make(Values, len(schema.Fields))
	var messages []string

	for _, f := range schema.Fields {
		value, present := raw[f.Name]
		if !present || value == nil {
			switch {
			case f.Default != nil:
				values[f.Name] = f.Default
			case f.Required:
				messages = append(messages, f.requiredMessage())
			}
			continue
		}

		normalized, errs := v.validateField(f, value)
		if len(errs) > 0 {
			messages = append(messages, errs...)
			continue
		}
		values[f.Name] = normalized
	}

	if len(messages) > 0 {
		return nil, &ValidationError{Schema: schema.Name, Messages: messages}
	}
	return values, nil
}

func (v *Validator) validateField(f Field, value any) (any, []string) {
	switch f.Type {
	case TypeString:
		s, ok := value.(string)
		if !ok {
			return nil, []string{f.typeMessage()}
		}
		for _, transform := range f.Transforms {
			s = transform(s)
		}
		if errs := v.checkRules(f, s); len(errs) > 0 {
			return nil, errs
		}
		return s, nil

	case TypeNumber:
		n, ok := toInt64(value)
		if !ok {
			return nil, []string{f.typeMessage()}
		}
		if errs := v.checkRules(f, n); len(errs) > 0 {
			return nil, errs
		}
		return n, nil

	case TypeNumeric:
		n, ok := toInt64(value)
		if !ok {
			s, isString := value.(string)
			if !isString {
				return nil, []string{f.typeMessage()}
			}
			parsed, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
			if err != nil {
				return nil, []string{f.typeMessage()}
			}
			n = parsed
		}
		if errs := v.checkRules(f, n); len(errs) > 0 {
			return nil, errs
		}
		return n, nil

	case TypeDate:
		s, ok := value.(string)
		if !ok {
			return nil, []string{f.typeMessage()}
		}
		if err := v.validate.Var(s, "datestring"); err != nil {
			return nil, []string{f.typeMessage()}
		}
		if errs := v.checkRules(f, s); len(errs) > 0 {
			return nil, errs
		}
		t, _ := ParseDate(s)
		return t, nil
	}

	return nil, []string{f.typeMessage()}
}

// checkRules runs every rule so that all violations of a field are
// reported, not only the first.
func (v *Validator) checkRules(f Field, value any) []string {
	var messages []string
	for _, rule := range f.Rules {
		err := v.validate.Var(value, rule.Tag)
		if err != nil {
			messages = append(messages, rule.Message)
		}
	}
	return messages
}

func (f Field) label() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

func (f Field) requiredMessage() string {
	if f.RequiredMessage != "" {
		return f.RequiredMessage
	}
	return f.label() + " is required"
}

func (f Field) typeMessage() string {
	if f.TypeMessage != "" {
		return f.TypeMessage
	}
	switch f.Type {
	case TypeNumber, TypeNumeric:
		return f.label() + " must be a number"
	case TypeDate:
		return "Invalid date format"
	default:
		return f.label() + " must be a string"
	}
}

func toInt64(value any) (int64, bool) {
	switch n := value.(type) {
	case json.Number:
		i, err := n.Int64()
		if err == nil {
			return i, true
		}
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return floatToInt64(f)
	case float64:
		return floatToInt64(n)
	case float32:
		return floatToInt64(float64(n))
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	}
	return 0, false
}

func floatToInt64(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
	"January 2, 2006",
	"Jan 2, 2006",
}

// ParseDate accepts the date formats clients commonly send. Values without
// a zone are read as UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
