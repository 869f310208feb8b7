// Package manifest loads batch generation manifests.
//
// A manifest names a set of encoders to generate in one run, plus shared
// defaults that individual entries may override. Both TOML and YAML forms
// are accepted, chosen by file extension.
package manifest

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/teranos/qmin/errors"
	"github.com/teranos/qmin/hdl"
	"github.com/teranos/qmin/version"
)

// Defaults supplies values for entry fields left unset in the manifest
type Defaults struct {
	Mux string `toml:"mux" yaml:"mux"`
	Cmd int    `toml:"cmd" yaml:"cmd"`
	RI  bool   `toml:"ri" yaml:"ri"`
	RO  bool   `toml:"ro" yaml:"ro"`
}

// Entry describes one encoder to generate. The optional fields are
// pointers so that an absent key can be told apart from a zero value
// and fall back to the manifest defaults.
type Entry struct {
	Suffix string  `toml:"suffix" yaml:"suffix"`
	Width  int     `toml:"width" yaml:"width"`
	Prefix int     `toml:"prefix" yaml:"prefix"`
	Mux    *string `toml:"mux" yaml:"mux"`
	Cmd    *int    `toml:"cmd" yaml:"cmd"`
	RI     *bool   `toml:"ri" yaml:"ri"`
	RO     *bool   `toml:"ro" yaml:"ro"`
}

// Manifest is a parsed batch file
type Manifest struct {
	// Requires optionally pins the qmin version range this manifest
	// was written for, e.g. ">= 0.2". Dev builds satisfy any range.
	Requires string `toml:"requires" yaml:"requires"`

	Defaults Defaults `toml:"defaults" yaml:"defaults"`
	Encoders []Entry  `toml:"encoders" yaml:"encoders"`
}

// Load reads and decodes a manifest file. The decoder is chosen by
// extension: .toml uses TOML, .yaml and .yml use YAML.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read manifest %s", path)
	}

	var m Manifest
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(data, &m); err != nil {
			return nil, errors.Wrapf(errors.ErrManifest, "%s: %v", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, errors.Wrapf(errors.ErrManifest, "%s: %v", path, err)
		}
	default:
		return nil, errors.Wrapf(errors.ErrManifest,
			"%s: unsupported extension %q (want .toml, .yaml or .yml)", path, ext)
	}

	if len(m.Encoders) == 0 {
		return nil, errors.Wrapf(errors.ErrManifest, "%s: no encoders defined", path)
	}

	// An unset default mux falls back to the simplest form
	if m.Defaults.Mux == "" {
		m.Defaults.Mux = "CASE"
	}

	if err := version.Satisfies(m.Requires); err != nil {
		return nil, errors.Wrapf(err, "manifest %s", path)
	}

	return &m, nil
}

// Specs resolves every entry against the manifest defaults and
// validates the result. Suffixes must be unique: two entries with the
// same suffix would emit colliding module names and file names.
func (m *Manifest) Specs() ([]hdl.EncoderSpec, error) {
	specs := make([]hdl.EncoderSpec, 0, len(m.Encoders))
	seen := make(map[string]int, len(m.Encoders))

	for i, e := range m.Encoders {
		spec, err := m.resolve(e)
		if err != nil {
			return nil, errors.Wrapf(err, "encoder %d (suffix %q)", i+1, e.Suffix)
		}

		if prev, dup := seen[spec.ModuleSuffix]; dup {
			return nil, errors.Wrapf(errors.ErrManifest,
				"encoder %d reuses suffix %q already taken by encoder %d", i+1, spec.ModuleSuffix, prev)
		}
		seen[spec.ModuleSuffix] = i + 1

		specs = append(specs, spec)
	}

	return specs, nil
}

// resolve merges one entry with the manifest defaults into a validated spec
func (m *Manifest) resolve(e Entry) (hdl.EncoderSpec, error) {
	muxToken := m.Defaults.Mux
	if e.Mux != nil {
		muxToken = *e.Mux
	}
	style, err := hdl.ParseMuxStyle(muxToken)
	if err != nil {
		return hdl.EncoderSpec{}, err
	}

	spec := hdl.EncoderSpec{
		ModuleSuffix:    e.Suffix,
		Width:           e.Width,
		PrefixWidth:     e.Prefix,
		MaxCombDepth:    m.Defaults.Cmd,
		MuxStyle:        style,
		RegisterInputs:  m.Defaults.RI,
		RegisterOutputs: m.Defaults.RO,
	}
	if e.Cmd != nil {
		spec.MaxCombDepth = *e.Cmd
	}
	if e.RI != nil {
		spec.RegisterInputs = *e.RI
	}
	if e.RO != nil {
		spec.RegisterOutputs = *e.RO
	}

	if err := spec.Validate(); err != nil {
		return hdl.EncoderSpec{}, err
	}

	return spec, nil
}
