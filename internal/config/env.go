package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
)

// loadFromEnv overrides configuration fields from environment variables
// declared via `env` struct tags.
func loadFromEnv(config *Config) error {
	return processStructFields(reflect.ValueOf(config).Elem())
}

// processStructFields walks a struct value recursively and applies env
// overrides to tagged leaf fields.
func processStructFields(v reflect.Value) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := v.Field(i)
		if field.Kind() == reflect.Struct {
			if err := processStructFields(field); err != nil {
				return err
			}
			continue
		}

		envKey := t.Field(i).Tag.Get("env")
		if envKey == "" {
			continue
		}

		envValue, exists := os.LookupEnv(envKey)
		if !exists {
			continue
		}

		switch field.Kind() {
		case reflect.String:
			field.SetString(envValue)
		case reflect.Int:
			intValue, err := strconv.Atoi(envValue)
			if err != nil {
				return fmt.Errorf("environment variable %s: expected integer, got %q", envKey, envValue)
			}
			field.SetInt(int64(intValue))
		case reflect.Bool:
			boolValue, err := strconv.ParseBool(envValue)
			if err != nil {
				return fmt.Errorf("environment variable %s: expected boolean, got %q", envKey, envValue)
			}
			field.SetBool(boolValue)
		default:
			return fmt.Errorf("environment variable %s: unsupported field kind %s", envKey, field.Kind())
		}
	}
	return nil
}
