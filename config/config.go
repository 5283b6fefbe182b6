// Copyright 2021 The httpc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package config loads httpc.Client configuration from YAML.
//
// A configuration file looks like this:
//
//	baseAddress: https://api.example.com/v1/
//	timeout: 30s
//	maxResponseBufferSize: 1048576
//	defaultHeaders:
//	  Accept: application/json
//	  X-Feature: [a, b]
//
// Every field is optional. The timeout is either a Go duration string
// or "infinite". Header values may be a single string or a list.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/gogama/httpc"
	"github.com/gogama/httpc/timeout"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

const infinite = "infinite"

// Config is the file representation of an httpc.Client's configuration.
// Zero-valued fields leave the corresponding client setting unchanged.
type Config struct {
	BaseAddress           string                  `yaml:"baseAddress"`
	Timeout               *Duration               `yaml:"timeout"`
	MaxResponseBufferSize int64                   `yaml:"maxResponseBufferSize"`
	DefaultHeaders        map[string]HeaderValues `yaml:"defaultHeaders"`
}

// Duration is a timeout which decodes from either a Go duration string,
// such as "1m30s", or the word "infinite".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, infinite) {
		*d = Duration(timeout.Infinite)
		return nil
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: invalid timeout %q: %w", value.Line, s, err)
	}
	*d = Duration(parsed)
	return nil
}

// String returns the duration in the form it is written in YAML.
func (d Duration) String() string {
	if timeout.IsInfinite(time.Duration(d)) {
		return infinite
	}
	return time.Duration(d).String()
}

// HeaderValues holds the values of one default header. It decodes from
// either a single string or a sequence of strings.
type HeaderValues []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (v *HeaderValues) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		*v = HeaderValues{s}
		return nil
	}
	var list []string
	if err := value.Decode(&list); err != nil {
		return err
	}
	*v = list
	return nil
}

// Parse decodes a Config from YAML. Unknown fields are an error. Empty
// input gives an empty Config.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// Load reads and parses the YAML configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Apply sets every non-zero field of cfg on c.
//
// Apply attempts every field even when an earlier one fails, and
// returns all failures combined. Since client configuration becomes
// immutable once the client sends its first request, Apply must be
// called before then.
func (cfg *Config) Apply(c *httpc.Client) error {
	var errs error
	if cfg.BaseAddress != "" {
		errs = multierr.Append(errs, applyBaseAddress(c, cfg.BaseAddress))
	}
	if cfg.Timeout != nil {
		if err := c.SetTimeout(time.Duration(*cfg.Timeout)); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("timeout %s: %w", cfg.Timeout, err))
		}
	}
	if cfg.MaxResponseBufferSize != 0 {
		if err := c.SetMaxResponseBufferSize(cfg.MaxResponseBufferSize); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("maxResponseBufferSize %d: %w", cfg.MaxResponseBufferSize, err))
		}
	}
	if len(cfg.DefaultHeaders) > 0 {
		errs = multierr.Append(errs, applyDefaultHeaders(c, cfg.DefaultHeaders))
	}
	return errs
}

func applyBaseAddress(c *httpc.Client, s string) error {
	u, err := url.Parse(s)
	if err == nil {
		err = c.SetBaseAddress(u)
	}
	if err != nil {
		return fmt.Errorf("baseAddress %q: %w", s, err)
	}
	return nil
}

func applyDefaultHeaders(c *httpc.Client, headers map[string]HeaderValues) error {
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs error
	for _, name := range names {
		for _, value := range headers[name] {
			err := c.AddDefaultHeader(name, value)
			if err == nil {
				continue
			}
			errs = multierr.Append(errs, fmt.Errorf("defaultHeaders %q: %w", name, err))
			if httpc.KindOf(err) != httpc.KindInvalidArgument {
				// Closed or started: no further header can be added.
				return errs
			}
			break
		}
	}
	return errs
}

// NewClient creates an httpc.Client with the given options and applies
// cfg to it. If cfg cannot be applied, the client is closed and the
// combined error returned.
func NewClient(cfg *Config, opts ...httpc.Option) (*httpc.Client, error) {
	c := httpc.NewClient(opts...)
	if cfg == nil {
		return c, nil
	}
	if err := cfg.Apply(c); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}
