// Package experiment loads YAML-described workloads and instantiates them
// on a simulation. A workload is a set of pulse sources, each emitting a
// train of events, plus an optional stop time.
package experiment

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yokanlab/yokan/sim"
)

// A Duration is a span of virtual time parsed from a YAML duration string
// in time.ParseDuration syntax (e.g., "1500us", "2ms").
type Duration sim.VTime

// UnmarshalYAML parses a duration string into virtual time.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", s, err)
	}

	if parsed < 0 {
		return fmt.Errorf("duration %q is negative", s)
	}

	*d = Duration(sim.FromDuration(parsed))

	return nil
}

// VTime returns the duration as virtual time.
func (d Duration) VTime() sim.VTime {
	return sim.VTime(d)
}

// A Source describes one pulse source of a workload. The source emits Count
// pulses, the first at Offset and the rest Period apart. Count 0 means the
// source pulses until the experiment's stop time. Each pulse additionally
// fires Fanout zero-delay events.
type Source struct {
	Name   string   `yaml:"name"`
	Offset Duration `yaml:"offset"`
	Period Duration `yaml:"period"`
	Count  int      `yaml:"count"`
	Fanout int      `yaml:"fanout"`
}

// A Spec describes a workload: named, with a set of sources and an optional
// stop time. A zero StopAt lets the simulation run until the event queue
// drains.
type Spec struct {
	Name    string   `yaml:"name"`
	StopAt  Duration `yaml:"stop_at"`
	Sources []Source `yaml:"sources"`
}

// ReadSpec loads a workload spec from a YAML file and validates it.
func ReadSpec(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading experiment spec: %w", err)
	}

	spec, err := ParseSpec(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return spec, nil
}

// ParseSpec parses a workload spec from YAML bytes and validates it.
func ParseSpec(data []byte) (*Spec, error) {
	spec := &Spec{}
	if err := yaml.Unmarshal(data, spec); err != nil {
		return nil, err
	}

	if err := spec.validate(); err != nil {
		return nil, err
	}

	return spec, nil
}

func (s *Spec) validate() error {
	if s.Name == "" {
		return errors.New("experiment name is empty")
	}

	if len(s.Sources) == 0 {
		return errors.New("experiment has no sources")
	}

	names := make(map[string]bool)
	for i := range s.Sources {
		src := &s.Sources[i]

		if err := src.validate(); err != nil {
			return err
		}

		if names[src.Name] {
			return fmt.Errorf("duplicated source name %q", src.Name)
		}
		names[src.Name] = true

		if src.Count == 0 && s.StopAt == 0 {
			return fmt.Errorf(
				"source %s pulses forever but the experiment has no stop_at",
				src.Name)
		}
	}

	return nil
}

func (s *Source) validate() error {
	if s.Name == "" {
		return errors.New("source name is empty")
	}

	if s.Count < 0 {
		return fmt.Errorf("source %s: count %d is negative", s.Name, s.Count)
	}

	if s.Fanout < 0 {
		return fmt.Errorf("source %s: fanout %d is negative", s.Name, s.Fanout)
	}

	// A single-pulse source never consults the period, so only trains of
	// two or more pulses (count 0 included) need one.
	if s.Count != 1 && s.Period == 0 {
		return fmt.Errorf(
			"source %s: period must be positive for a pulse train", s.Name)
	}

	return nil
}
