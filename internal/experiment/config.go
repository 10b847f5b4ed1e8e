package experiment

import (
	"github.com/san-kum/attractor/internal/dynamo"
	"github.com/san-kum/attractor/internal/field"
)

// Config fixes everything about a run except the per-frame parameters.
type Config struct {
	Kind   dynamo.Kind
	Params dynamo.Params
	// Points is the seed count for uniform seeding and the per-axis count for
	// grid seeding.
	Points     int
	Iterations int
	Bins       int
	Range      dynamo.Range
	SeedRange  dynamo.Range
	Seeding    dynamo.Seeding
	Ceiling    field.Ceiling
	Seed       int64
	Workers    int
	FastTrig   bool
}

// Validate rejects configurations before any computation starts.
func (c Config) Validate() error {
	if !c.Kind.Valid() {
		return &dynamo.ConfigError{Field: "kind", Value: c.Kind, Reason: "unknown map kind"}
	}
	if !c.Params.IsFinite() {
		return &dynamo.ConfigError{Field: "params", Value: c.Params, Reason: "must be finite"}
	}
	if c.Points <= 0 {
		return &dynamo.ConfigError{Field: "points", Value: c.Points, Reason: "must be positive"}
	}
	if c.Iterations <= 0 {
		return &dynamo.ConfigError{Field: "iterations", Value: c.Iterations, Reason: "must be positive"}
	}
	if c.Bins <= 0 {
		return &dynamo.ConfigError{Field: "bins", Value: c.Bins, Reason: "must be positive"}
	}
	if err := c.Range.Validate("range"); err != nil {
		return err
	}
	if err := c.SeedRange.Validate("seed_range"); err != nil {
		return err
	}
	if !c.Seeding.Valid() {
		return &dynamo.ConfigError{Field: "seeding", Value: c.Seeding, Reason: "expected uniform or grid"}
	}
	if c.Workers < 0 {
		return &dynamo.ConfigError{Field: "workers", Value: c.Workers, Reason: "must not be negative"}
	}
	return c.Ceiling.Validate()
}
