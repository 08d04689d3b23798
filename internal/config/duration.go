package config

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Duration wraps time.Duration to accept a "d" (days) suffix on top of the
// standard units, so windows like the 7-day session expiry read naturally in
// the environment.
type Duration struct {
	time.Duration
}

// EnvDecode implements envconfig.Decoder.
func (d *Duration) EnvDecode(_ context.Context, v string) error {
	if v == "" {
		return nil
	}

	if days, ok := strings.CutSuffix(v, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return fmt.Errorf("invalid days value %q: %w", v, err)
		}
		d.Duration = time.Duration(n) * 24 * time.Hour
		return nil
	}

	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", v, err)
	}
	d.Duration = parsed
	return nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	return d.EnvDecode(context.Background(), string(text))
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

func (d Duration) String() string {
	return d.Duration.String()
}
