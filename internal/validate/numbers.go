package validate

import (
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

type IntRule struct {
	// Value to validate
	Value int
	// Name of the field in json.
	Name string

	// Min is the minimum allowed value.
	Min *int
	// Max is the maximum allowed value.
	Max *int
}

func (i IntRule) Validate() *Failure {
	if i.Value == 0 {
		return nil
	}

	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if i.Min != nil && i.Value < *i.Min {
		add("value %d must be at least %d", i.Value, *i.Min)
	}
	if i.Max != nil && i.Value > *i.Max {
		add("value %d must be at most %d", i.Value, *i.Max)
	}

	if len(problems) > 0 {
		return fail(i.Name, problems...)
	}
	return nil
}

func (i IntRule) DescribeSchema(parent *openapi3.Schema) {
	schema := schemaForProperty(parent, i.Name)
	if i.Min != nil {
		schema.Min = float64Ptr(*i.Min)
	}
	if i.Max != nil {
		schema.Max = float64Ptr(*i.Max)
	}
}

// IntEnum returns a validation rule that checks that value is one of the
// allowed integers.
func IntEnum(name string, value int, allowed []int) ValidationRule {
	return intEnum{Name: name, Value: value, Allowed: allowed}
}

type intEnum struct {
	Name    string
	Value   int
	Allowed []int
}

func (e intEnum) Validate() *Failure {
	if e.Value == 0 {
		return nil
	}
	for _, ok := range e.Allowed {
		if e.Value == ok {
			return nil
		}
	}
	allowed := make([]string, len(e.Allowed))
	for i, v := range e.Allowed {
		allowed[i] = fmt.Sprint(v)
	}
	return fail(e.Name, fmt.Sprintf("must be one of (%v)", strings.Join(allowed, ", ")))
}

func (e intEnum) DescribeSchema(parent *openapi3.Schema) {
	schema := schemaForProperty(parent, e.Name)
	for _, v := range e.Allowed {
		schema.Enum = append(schema.Enum, v)
	}
}

func float64Ptr(v int) *float64 {
	f := float64(v)
	return &f
}

func Int(v int) *int {
	return &v
}
