package cliopts

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/mitchellh/mapstructure"
	"github.com/mitchellh/reflectwalk"
	"github.com/spf13/pflag"
)

func loadFromEnv(target interface{}, opts Options) error {
	opts.EnvPrefix = strings.ToUpper(opts.EnvPrefix)
	walker := &flatSourceWalker{
		source:   toMap(opts.EnvPrefix, os.Environ()),
		location: []string{opts.EnvPrefix},
		fieldNameFormat: func(name string) string {
			return strings.ToUpper(strcase.ToSnake(name))
		},
		fieldSeparator: "_",
	}

	if err := reflectwalk.Walk(target, walker); err != nil {
		return fmt.Errorf("failed to load from environment variables: %w", err)
	}
	return nil
}

func loadFromFlags(target interface{}, opts Options) error {
	source := map[string]interface{}{}
	opts.Flags.VisitAll(func(flag *pflag.Flag) {
		source[flag.Name] = flag.Value
	})

	walker := &flatSourceWalker{
		source:          source,
		fieldNameFormat: strcase.ToKebab,
		fieldSeparator:  "-",
	}

	if err := reflectwalk.Walk(target, walker); err != nil {
		return fmt.Errorf("failed to load from command line flag: %w", err)
	}
	return nil
}

// flatSourceWalker visits every struct in target and decodes matching keys
// from a flat source map (env vars or flag names) into its fields. The key
// for a field is the path of struct field names joined by fieldSeparator.
type flatSourceWalker struct {
	location        []string
	source          map[string]interface{}
	fieldNameFormat func(string) string
	fieldSeparator  string
}

func (w *flatSourceWalker) Enter(reflectwalk.Location) error {
	return nil
}

func (w *flatSourceWalker) Exit(loc reflectwalk.Location) error {
	if loc == reflectwalk.Struct && len(w.location) > 0 {
		w.location = w.location[:len(w.location)-1]
	}
	return nil
}

func (w *flatSourceWalker) Struct(value reflect.Value) error {
	if !value.CanAddr() {
		return nil
	}
	cfg := DecodeConfig(value.Addr().Interface())
	cfg.WeaklyTypedInput = true
	cfg.MatchName = w.matchName

	decoder, err := mapstructure.NewDecoder(&cfg)
	if err != nil {
		return fmt.Errorf("failed to create decoder for struct: %w", err)
	}
	if err := decoder.Decode(w.source); err != nil {
		return fmt.Errorf("failed to decode into struct: %w", err)
	}
	return nil
}

func (w *flatSourceWalker) StructField(field reflect.StructField, value reflect.Value) error {
	if value.Kind() == reflect.Struct || isPtrToStruct(value) {
		if field.Anonymous { // embedded struct
			w.location = append(w.location, "")
			return nil
		}
		w.location = append(w.location, w.fieldNameFormat(field.Name))
	}
	return nil
}

func (w *flatSourceWalker) matchName(key string, fieldName string) bool {
	var sb strings.Builder
	for _, part := range w.location {
		if part == "" { // embedded struct contributes no path segment
			continue
		}
		sb.WriteString(part)
		sb.WriteString(w.fieldSeparator)
	}
	sb.WriteString(w.fieldNameFormat(fieldName))
	return key == sb.String()
}

func isPtrToStruct(value reflect.Value) bool {
	return value.Kind() == reflect.Ptr && value.Elem().Kind() == reflect.Struct
}
