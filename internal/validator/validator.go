package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	playground "github.com/go-playground/validator/v10"
)

var dateLayouts = []string{time.DateOnly, time.RFC3339}

// structValidate is safe for concurrent use and caches struct metadata.
var structValidate = newStructValidate()

// FieldError is a single failed check, serialized into the errors list of a
// 400 response.
type FieldError struct {
	Param string `json:"param,omitempty"`
	Msg   string `json:"msg"`
}

type Validator struct {
	Errors []FieldError
}

func New() *Validator {
	return &Validator{Errors: []FieldError{}}
}

func (v *Validator) IsValid() bool {
	return len(v.Errors) == 0
}

// AddError records message for key. Only the first failure per key is kept.
func (v *Validator) AddError(key, message string) {
	for _, e := range v.Errors {
		if key != "" && e.Param == key {
			return
		}
	}
	v.Errors = append(v.Errors, FieldError{Param: key, Msg: message})
}

func (v *Validator) Check(ok bool, key, message string) {
	if !ok {
		v.AddError(key, message)
	}
}

// Struct runs the `validate` tags of s in field order. The message of a failed
// rule is taken from the `msg_<rule>` tag, then the `msg` tag.
func (v *Validator) Struct(s any) {
	err := structValidate.Struct(s)
	if err == nil {
		return
	}

	var validationErrors playground.ValidationErrors
	if !errors.As(err, &validationErrors) {
		v.AddError("", err.Error())
		return
	}

	t := reflect.Indirect(reflect.ValueOf(s)).Type()
	for _, fe := range validationErrors {
		v.AddError(fe.Field(), messageFor(t, fe))
	}
}

func messageFor(t reflect.Type, fe playground.FieldError) string {
	if field, ok := t.FieldByName(fe.StructField()); ok {
		if msg := field.Tag.Get("msg_" + fe.Tag()); msg != "" {
			return msg
		}
		if msg := field.Tag.Get("msg"); msg != "" {
			return msg
		}
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}

// ParseDate accepts a calendar date (2006-01-02) or an RFC 3339 timestamp.
func ParseDate(value string) (time.Time, error) {
	var err error
	for _, layout := range dateLayouts {
		var t time.Time
		if t, err = time.Parse(layout, strings.TrimSpace(value)); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

func newStructValidate() *playground.Validate {
	v := playground.New(playground.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation("date", func(fl playground.FieldLevel) bool {
		_, err := ParseDate(fl.Field().String())
		return err == nil
	}); err != nil {
		panic(fmt.Sprintf("validator: register date rule: %v", err))
	}

	return v
}
