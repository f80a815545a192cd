package validate

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// Request is implemented by all request structs.
type Request interface {
	ValidationRules() []ValidationRule
}

// ValidationRule performs validation on one or more struct fields and can
// describe the validation for API documentation.
//
// Validation rules should all default to optional. If the field has a zero
// value then the rule does nothing. Use Required to make a field required.
type ValidationRule interface {
	// Validate returns nil if the validation passes, otherwise a Failure
	// with the name of the field and the list of problems.
	Validate() *Failure

	// DescribeSchema updates schema to describe the values that are allowed
	// by the validation. The schema is the parent schema of the request.
	DescribeSchema(schema *openapi3.Schema)
}

// Failure describes a validation failure.
type Failure struct {
	// Name of the field as it appears in the API, generally the json field
	// name, not the name of the struct field.
	Name string
	// Problems is a list of messages that describe the failure. They become
	// part of the API response.
	Problems []string
}

// Validate checks the values in req against its validation rules. If any of
// the fields are of a type that implement Request, the rules of that field
// are applied as well. If validation fails the error is of type Error.
func Validate(req Request) error {
	reqV := reflect.Indirect(reflect.ValueOf(req))
	err := validateStruct(reqV)
	if len(err) > 0 {
		return err
	}
	return nil
}

func validateStruct(v reflect.Value) Error {
	err := make(Error)

	req, ok := v.Interface().(Request)
	if ok && (v.Kind() != reflect.Pointer || !v.IsNil()) {
		for _, rule := range req.ValidationRules() {
			if failure := rule.Validate(); failure != nil {
				err[failure.Name] = append(err[failure.Name], failure.Problems...)
			}
		}
	}

	switch v.Kind() { // nolint:exhaustive
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			f := v.Field(i)
			if v.Type().Field(i).Anonymous {
				// validate the embedded struct
				for k, v := range validateStruct(f) {
					err[k] = append(err[k], v...)
				}
				continue
			}
			name := fieldName(v.Type().Field(i))
			for k, v := range validateStruct(f) {
				n := name
				if k != "" {
					n = name + "." + k
				}
				err[n] = append(err[n], v...)
			}
		}
	case reflect.Slice:
		for i := 0; i < v.Len(); i++ {
			for k, v := range validateStruct(v.Index(i)) {
				err[k] = append(err[k], v...)
			}
		}
	case reflect.Pointer:
		if !v.IsNil() {
			for k, v := range validateStruct(v.Elem()) {
				err[k] = append(err[k], v...)
			}
		}
	}
	return err
}

func fieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" {
		name = f.Name
	}
	return name
}

// Error is a map of field names to problems associated with those fields.
// Problems associated with the struct or multiple fields have a key of "".
type Error map[string][]string

func (e Error) Error() string {
	var buf strings.Builder
	buf.WriteString("validation failed: ")
	i := 0
	for k, v := range e {
		if i != 0 {
			buf.WriteString(", ")
		}
		i++
		if k == "" {
			buf.WriteString(strings.Join(v, ", "))
			continue
		}
		buf.WriteString(k + ": " + strings.Join(v, ", "))
	}
	return buf.String()
}

func fail(name string, problems ...string) *Failure {
	return &Failure{Name: name, Problems: problems}
}

type requiredRule struct {
	name  string
	value any
}

// Required checks that the value does not have a zero value. Zero values are
// nil, "", 0, false, an empty map, an empty slice, or the zero value of a
// struct. Name is the name of the field as visible to the user.
func Required(name string, value any) ValidationRule {
	return requiredRule{name: name, value: value}
}

func (r requiredRule) DescribeSchema(schema *openapi3.Schema) {
	schema.Required = append(schema.Required, r.name)
}

func (r requiredRule) Validate() *Failure {
	if !reflect.ValueOf(r.value).IsZero() {
		return nil
	}
	return fail(r.name, "is required")
}

// Field is used to construct validation rules that incorporate multiple fields.
type Field struct {
	Name  string
	Value interface{}
}

// RequireOneOf returns a validation rule that checks that exactly one of the
// fields is set to a non-zero value.
func RequireOneOf(fields ...Field) ValidationRule {
	return requireOneOf(fields)
}

type requireOneOf []Field

func (m requireOneOf) Validate() *Failure {
	var zero []string
	var nonZero []string
	for _, field := range m {
		if reflect.ValueOf(field.Value).IsZero() {
			zero = append(zero, field.Name)
		} else {
			nonZero = append(nonZero, field.Name)
		}
	}

	if len(nonZero) > 1 {
		return fail("", fmt.Sprintf("only one of (%v) can have a value", strings.Join(nonZero, ", ")))
	}
	if len(zero) == len(m) {
		return fail("", fmt.Sprintf("one of (%v) is required", strings.Join(zero, ", ")))
	}
	return nil
}

func (m requireOneOf) DescribeSchema(schema *openapi3.Schema) {
	for _, f := range m {
		schema.OneOf = append(schema.OneOf, &openapi3.SchemaRef{
			Value: &openapi3.Schema{Required: []string{f.Name}},
		})
	}
}

func schemaForProperty(parent *openapi3.Schema, prop string) *openapi3.Schema {
	if parent.Properties == nil {
		parent.Properties = make(openapi3.Schemas)
	}
	if parent.Properties[prop] == nil {
		parent.Properties[prop] = &openapi3.SchemaRef{Value: &openapi3.Schema{}}
	}
	return parent.Properties[prop].Value
}
