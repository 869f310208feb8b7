package hdl

import "fmt"

// Unit is one reduction module definition. A level has exactly one
// definition no matter how many times the tree instantiates it; the
// design holds the definitions leaf-first.
type Unit struct {
	// Level in the tree, 0 for the leaf.
	Level int

	// Entries is the number of input entries the unit consumes.
	Entries int

	// IndexWidth is the width of the winner index the unit emits.
	IndexWidth int

	// PayloadWidth is the payload width in bits.
	PayloadWidth int

	// RegisterAfterChildren latches the four child result tuples
	// before the combine network when the pipeline policy cuts here.
	RegisterAfterChildren bool

	// Clocked is set when the unit's subtree holds any register, so
	// the emitted module needs clock and reset ports.
	Clocked bool

	// Name is the emitted module name, argmin_l<level>_<suffix>.
	Name string
}

// Design is the fully planned network for one spec: the per-level
// unit definitions plus the top-level assembly facts.
type Design struct {
	Spec EncoderSpec

	// Units holds one definition per level, leaf first; the last
	// entry is the root the top module instantiates.
	Units []*Unit

	// PaddedWidth is the entry count after zero-padding, 4^len(Units).
	PaddedWidth int

	// TopIndexWidth is the truncated index width the top module
	// presents, IndexBits(Spec.Width).
	TopIndexWidth int
}

// Build plans the network for a spec. The spec is validated first;
// after a nil error the returned design is complete and immutable.
func Build(spec EncoderSpec) (*Design, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	levels := Levels(spec.Width)
	units := make([]*Unit, levels)
	clocked := false
	for k := 0; k < levels; k++ {
		cut := CutAt(k, spec.MaxCombDepth)
		if cut {
			clocked = true
		}
		units[k] = &Unit{
			Level:                 k,
			Entries:               LevelEntries(k),
			IndexWidth:            LevelIndexWidth(k),
			PayloadWidth:          spec.PrefixWidth,
			RegisterAfterChildren: cut,
			Clocked:               clocked,
			Name:                  fmt.Sprintf("argmin_l%d_%s", k, spec.ModuleSuffix),
		}
	}

	return &Design{
		Spec:          spec,
		Units:         units,
		PaddedWidth:   LevelEntries(levels - 1),
		TopIndexWidth: IndexBits(spec.Width),
	}, nil
}

// Root returns the unit the top module instantiates.
func (d *Design) Root() *Unit {
	return d.Units[len(d.Units)-1]
}

// TopName returns the emitted top module name, argmin_<suffix>.
func (d *Design) TopName() string {
	return "argmin_" + d.Spec.ModuleSuffix
}

// Clocked reports whether the top module needs clock and reset ports:
// true when any register exists anywhere in the design.
func (d *Design) Clocked() bool {
	return d.Spec.RegisterInputs || d.Spec.RegisterOutputs || d.Root().Clocked
}

// Latency returns the clock cycles from input to output: one per
// pipeline cut plus the optional input and output stages. Zero means
// the network is fully combinational.
func (d *Design) Latency() int {
	lat := 0
	if d.Spec.RegisterInputs {
		lat++
	}
	if d.Spec.RegisterOutputs {
		lat++
	}
	for _, u := range d.Units {
		if u.RegisterAfterChildren {
			lat++
		}
	}
	return lat
}

// Padding returns how many invalid entries the top module appends to
// reach the root's span.
func (d *Design) Padding() int {
	return d.PaddedWidth - d.Spec.Width
}
