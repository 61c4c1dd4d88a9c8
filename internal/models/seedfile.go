// ABOUTME: Loads seed data overrides from a YAML file.
// ABOUTME: Missing sections fall back to the built-in seed.
package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadSeedFile reads a YAML seed file and merges it over the defaults.
func LoadSeedFile(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed parses YAML seed data and merges it over the defaults.
func ParseSeed(data []byte) (*Seed, error) {
	var override Seed
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}

	seed := DefaultSeed()
	if len(override.Companions) > 0 {
		for i := range override.Companions {
			override.Companions[i].Needs = override.Companions[i].Needs.Clamp()
		}
		seed.Companions = override.Companions
	}
	if len(override.Vitals) > 0 {
		seed.Vitals = override.Vitals
	}
	if len(override.History) > 0 {
		seed.History = override.History
	}
	if len(override.Medications) > 0 {
		seed.Medications = override.Medications
	}
	if override.Greeting != nil {
		seed.Greeting = override.Greeting
	}

	for _, m := range seed.Medications {
		if !IsValidTimeSlot(string(m.TimeSlot)) {
			return nil, fmt.Errorf("medication %s: unknown time slot %q", m.ID, m.TimeSlot)
		}
	}
	return seed, nil
}
