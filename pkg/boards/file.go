package boards

import (
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/openfroyo/boardcfg/pkg/pins"
)

// File is the YAML layout of a custom board definition file.
//
//	boards:
//	  - name: myboard
//	    description: Hand-wired LPC1769
//	    pins:
//	      - pin: 0.23
//	        capability: ainrw
//	        names: [bedtemp, t0]
//	    defaults:
//	      enablePins: [0.4, 0.10]
//	      digipotFactor: 0
type File struct {
	Boards []BoardSpec `yaml:"boards" validate:"required,min=1,dive"`
}

// BoardSpec is one board entry in a File.
type BoardSpec struct {
	Name        string        `yaml:"name" validate:"required,max=19"`
	Description string        `yaml:"description"`
	Pins        []PinSpec     `yaml:"pins" validate:"dive"`
	Defaults    *DefaultsSpec `yaml:"defaults"`
}

// PinSpec is one alias table entry.
type PinSpec struct {
	Pin        *pins.Pin `yaml:"pin" validate:"required"`
	Capability string    `yaml:"capability" validate:"required"`

	// Names match the lowercased token exactly, so '_' and '-' are
	// rejected rather than silently dropped.
	Names []string `yaml:"names" validate:"required,min=1,dive,required,excludesall=_-"`
}

// DefaultsSpec lists driver pins; missing trailing drivers default to NoPin.
type DefaultsSpec struct {
	EnablePins    []pins.Pin `yaml:"enablePins" validate:"max=5"`
	StepPins      []pins.Pin `yaml:"stepPins" validate:"max=5"`
	DirectionPins []pins.Pin `yaml:"directionPins" validate:"max=5"`
	DigipotFactor float32    `yaml:"digipotFactor" validate:"gte=0"`
}

// LoadFile reads board definitions from a YAML file.
func LoadFile(path string) ([]*Board, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open board file: %w", err)
	}
	defer f.Close()

	boards, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return boards, nil
}

// Load decodes and validates board definitions.
func Load(r io.Reader) ([]*Board, error) {
	var file File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to parse board YAML: %w", err)
	}

	if err := validator.New().Struct(&file); err != nil {
		return nil, fmt.Errorf("invalid board file: %w", err)
	}

	out := make([]*Board, 0, len(file.Boards))
	for _, spec := range file.Boards {
		b, err := spec.build()
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// RegisterFile loads a board file into r.
func (r *Registry) RegisterFile(path string) error {
	boards, err := LoadFile(path)
	if err != nil {
		return err
	}
	for _, b := range boards {
		if err := r.Register(b); err != nil {
			return err
		}
	}
	return nil
}

func (s BoardSpec) build() (*Board, error) {
	entries := make([]pins.AliasEntry, 0, len(s.Pins))
	for i, p := range s.Pins {
		if p.Pin == nil || !p.Pin.Valid() {
			return nil, fmt.Errorf("board %s: pin entry %d has no pin", s.Name, i)
		}
		c, err := pins.ParseCapability(p.Capability)
		if err != nil {
			return nil, fmt.Errorf("board %s: pin %s: %w", s.Name, *p.Pin, err)
		}
		e := pins.AliasEntry{Pin: *p.Pin, Capability: c}
		for _, n := range p.Names {
			if n = pins.NormalizeAlias(n); n != "" {
				e.Names = append(e.Names, n)
			}
		}
		entries = append(entries, e)
	}

	b := &Board{
		Name:        s.Name,
		Description: s.Description,
		Pins:        pins.NewAliasTable(entries...),
		Defaults:    NoPinDefaults(),
	}
	if s.Defaults != nil {
		copy(b.Defaults.EnablePins[:], s.Defaults.EnablePins)
		copy(b.Defaults.StepPins[:], s.Defaults.StepPins)
		copy(b.Defaults.DirectionPins[:], s.Defaults.DirectionPins)
		b.Defaults.DigipotFactor = s.Defaults.DigipotFactor
	}
	return b, nil
}
