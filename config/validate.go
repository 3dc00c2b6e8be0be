package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Check reports whether v is acceptable for the field. Fields without rules accept anything.
func (f *Field) Check(v any) error {
	if f.Validate == nil {
		return nil
	}
	if err := f.Validate(v); err != nil {
		return fmt.Errorf("%s: %w", f.Key, err)
	}
	return nil
}

// Current reads the field's value from viper as the field's own type.
func (f *Field) Current() any {
	switch f.Value.(type) {
	case int:
		return viper.GetInt(f.Key)
	case bool:
		return viper.GetBool(f.Key)
	case string:
		return viper.GetString(f.Key)
	default:
		return viper.Get(f.Key)
	}
}

// Validate checks the current values of keys, or of every field when none are given.
// Errors are reported in key order.
func Validate(keys ...string) error {
	if len(keys) == 0 {
		keys = lo.Keys(Default)
	}
	keys = slices.Sorted(slices.Values(keys))

	var errs []error
	for _, k := range keys {
		field, ok := Default[k]
		if !ok {
			errs = append(errs, fmt.Errorf("unknown key %s", k))
			continue
		}
		if err := field.Check(field.Current()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func oneOf(options ...string) func(any) error {
	return func(v any) error {
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("expected a string, got %T", v)
		}
		if !lo.Contains(options, s) {
			return fmt.Errorf("%q is not one of %s", s, strings.Join(options, ", "))
		}
		return nil
	}
}

func positive(v any) error {
	n, ok := v.(int)
	if !ok {
		return fmt.Errorf("expected an integer, got %T", v)
	}
	if n <= 0 {
		return fmt.Errorf("must be greater than zero, got %d", n)
	}
	return nil
}

func nonNegative(v any) error {
	n, ok := v.(int)
	if !ok {
		return fmt.Errorf("expected an integer, got %T", v)
	}
	if n < 0 {
		return fmt.Errorf("must not be negative, got %d", n)
	}
	return nil
}

// origin accepts an empty string or a bare scheme://host[:port].
func origin(v any) error {
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("expected a string, got %T", v)
	}
	if s == "" {
		return nil
	}

	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("%q is not an origin: %w", s, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%q is not an origin, expected scheme://host", s)
	}
	if (u.Path != "" && u.Path != "/") || u.RawQuery != "" || u.Fragment != "" || u.User != nil {
		return fmt.Errorf("%q carries more than scheme and host", s)
	}
	return nil
}
