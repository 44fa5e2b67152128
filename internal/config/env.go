package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"time"
)

var durationType = reflect.TypeOf(time.Duration(0))

// applyEnv overrides every field of the struct v points to that carries an `env` tag
// whose variable is set, descending into nested structs. It returns the names of the
// variables it applied.
func applyEnv(v interface{}) ([]string, error) {
	var applied []string
	err := walkEnv(reflect.ValueOf(v).Elem(), &applied)
	return applied, err
}

func walkEnv(v reflect.Value, applied *[]string) error {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field, def := v.Field(i), t.Field(i)

		if field.Kind() == reflect.Struct {
			if err := walkEnv(field, applied); err != nil {
				return err
			}
			continue
		}

		name := def.Tag.Get("env")
		if name == "" {
			continue
		}
		raw, ok := os.LookupEnv(name)
		if !ok {
			continue
		}
		if err := setEnvValue(field, raw); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		*applied = append(*applied, name)
	}
	return nil
}

func setEnvValue(field reflect.Value, raw string) error {
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
	case reflect.Int:
		n, err := strconv.Atoi(raw)
		if err != nil {
			return err
		}
		field.SetInt(int64(n))
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return err
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("unsupported field kind %s", field.Kind())
	}
	return nil
}
