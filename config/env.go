package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"time"
)

// EnvError reports a variable whose value could not be parsed into its field.
type EnvError struct {
	Var   string
	Value string
	Err   error
}

func (e *EnvError) Error() string {
	return fmt.Sprintf("invalid value %q for %s: %v", e.Value, e.Var, e.Err)
}

func (e *EnvError) Unwrap() error { return e.Err }

var durationType = reflect.TypeOf(time.Duration(0))

// loadFromEnvironment fills every field tagged `env` from the process
// environment, falling back to its `default` tag when the variable is unset
// or empty, then resolves values derived from other fields.
func loadFromEnvironment(config *Config) error {
	if err := decodeEnv(reflect.ValueOf(config).Elem()); err != nil {
		return err
	}
	applyDerivedDefaults(config)
	return nil
}

// applyDerivedDefaults fills settings whose default depends on another setting.
func applyDerivedDefaults(config *Config) {
	if config.Cache.KeyFile == "" && config.Cache.Dir != "" {
		config.Cache.KeyFile = filepath.Join(config.Cache.Dir, DefaultKeyFileName)
	}
}

func decodeEnv(section reflect.Value) error {
	sectionType := section.Type()

	for i := range section.NumField() {
		field := section.Field(i)
		meta := sectionType.Field(i)
		if !field.CanSet() {
			continue
		}

		if field.Kind() == reflect.Struct {
			if err := decodeEnv(field); err != nil {
				return err
			}
			continue
		}

		name, tagged := meta.Tag.Lookup("env")
		if !tagged || name == "" {
			continue
		}

		raw := os.Getenv(name)
		if raw == "" {
			raw = meta.Tag.Get("default")
		}
		if raw == "" {
			continue
		}

		if err := assign(field, raw); err != nil {
			return fmt.Errorf("config field %s.%s: %w", sectionType.Name(), meta.Name, &EnvError{Var: name, Value: raw, Err: err})
		}
	}

	return nil
}

func assign(field reflect.Value, raw string) error {
	if field.Type() == durationType {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return err
		}
		field.SetInt(int64(d))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Int, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(n)
	default:
		return fmt.Errorf("unsupported kind %s", field.Kind())
	}
	return nil
}
