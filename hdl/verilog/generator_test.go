package verilog

import (
	"strings"
	"testing"

	"github.com/teranos/qmin/hdl"
	"github.com/teranos/qmin/version"
)

func mustBuild(t *testing.T, spec hdl.EncoderSpec) *hdl.Design {
	t.Helper()
	d, err := hdl.Build(spec)
	if err != nil {
		t.Fatalf("Build(%+v) failed: %v", spec, err)
	}
	return d
}

// moduleText cuts one module definition out of the artifact.
func moduleText(t *testing.T, out, name string) string {
	t.Helper()
	start := strings.Index(out, "module "+name+" (")
	if start < 0 {
		t.Fatalf("module %s not found in output", name)
	}
	end := strings.Index(out[start:], "\nendmodule")
	if end < 0 {
		t.Fatalf("module %s is not closed", name)
	}
	return out[start : start+end]
}

func TestGenerateSingleLevel(t *testing.T) {
	d := mustBuild(t, hdl.EncoderSpec{ModuleSuffix: "q4", Width: 4, PrefixWidth: 3})
	out := NewGenerator(nil).Generate(d)

	if !strings.HasPrefix(out, "// Code generated by qmin ") {
		t.Error("Expected generation header on the first line")
	}
	if got := strings.Count(out, "\nmodule "); got != 2 {
		t.Errorf("Expected leaf and top modules only, found %d definitions", got)
	}
	if !strings.Contains(out, "module argmin_l0_q4 (") {
		t.Error("Expected leaf module argmin_l0_q4")
	}
	if !strings.Contains(out, "module argmin_q4 (") {
		t.Error("Expected top module argmin_q4")
	}
	if strings.Contains(out, "clk_i") {
		t.Error("Combinational design must not carry clock ports")
	}
	if !strings.Contains(out, "input wire [3:0] vld_i,") {
		t.Error("Expected 4-bit valid input")
	}
	if !strings.Contains(out, "input wire [11:0] pld_i,") {
		t.Error("Expected 12-bit flattened payload input")
	}
	if !strings.Contains(out, "output wire [1:0] idx_o,") {
		t.Error("Expected 2-bit index output")
	}
	if !strings.Contains(out, "assign vld_o = |vld_i;") {
		t.Error("Expected reduction OR of the valid bits")
	}
	if !strings.HasSuffix(out, "endmodule\n") {
		t.Error("Artifact must end with the top module's endmodule")
	}
}

func TestGenerateLeafCompareNetwork(t *testing.T) {
	d := mustBuild(t, hdl.EncoderSpec{ModuleSuffix: "q4", Width: 4, PrefixWidth: 3})
	out := NewGenerator(nil).Generate(d)
	leaf := moduleText(t, out, "argmin_l0_q4")

	wantLines := []string{
		"wire [3:0] key0_w = {~vld_i[0], pld_i[2:0]};",
		"wire [3:0] key3_w = {~vld_i[3], pld_i[11:9]};",
		"wire win_lo_w = key1_w < key0_w;",
		"wire win_hi_w = key3_w < key2_w;",
		"wire win_fin_w = min_hi_w < min_lo_w;",
		"assign idx_o = win_fin_w ? {1'b1, win_hi_w} : {1'b0, win_lo_w};",
		"assign pld_o = win_fin_w ? min_hi_w[2:0] : min_lo_w[2:0];",
	}
	for _, want := range wantLines {
		if !strings.Contains(leaf, want) {
			t.Errorf("Leaf module missing %q", want)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	spec := hdl.EncoderSpec{
		ModuleSuffix: "pkt", Width: 20, PrefixWidth: 8,
		MaxCombDepth: 2, MuxStyle: hdl.MuxIfElse,
		RegisterInputs: true, RegisterOutputs: true,
	}
	a := NewGenerator(nil).Generate(mustBuild(t, spec))
	b := NewGenerator(nil).Generate(mustBuild(t, spec))
	if a != b {
		t.Error("Two renders of the same spec must be byte-identical")
	}
}

func TestGenerateVersionHeader(t *testing.T) {
	d := mustBuild(t, hdl.EncoderSpec{ModuleSuffix: "q4", Width: 4, PrefixWidth: 3})
	out := NewGenerator(nil).Generate(d)

	if got := GeneratedVersion(out); got != version.Version {
		t.Errorf("GeneratedVersion() = %q, want %q", got, version.Version)
	}
	if got := GeneratedVersion("module foo ();\nendmodule\n"); got != "" {
		t.Errorf("GeneratedVersion() on headerless text = %q, want empty", got)
	}
	if got := GeneratedVersion(""); got != "" {
		t.Errorf("GeneratedVersion() on empty text = %q, want empty", got)
	}
}

func TestGenerateWidthFivePadsAndTruncates(t *testing.T) {
	d := mustBuild(t, hdl.EncoderSpec{ModuleSuffix: "w5", Width: 5, PrefixWidth: 4})
	out := NewGenerator(nil).Generate(d)

	if got := strings.Count(out, "\nmodule "); got != 3 {
		t.Errorf("Expected 3 module definitions for a 2-level tree, found %d", got)
	}

	top := moduleText(t, out, "argmin_w5")
	wantLines := []string{
		"input wire [4:0] vld_i,",
		"input wire [19:0] pld_i,",
		"output wire [2:0] idx_o,",
		"wire [15:0] vld_pad_w = {11'd0, vld_i};",
		"wire [63:0] pld_pad_w = {44'd0, pld_i};",
		"wire [2:0] idx_trim_w = idx_core_w[2:0];",
		"argmin_l1_w5 u_core (",
	}
	for _, want := range wantLines {
		if !strings.Contains(top, want) {
			t.Errorf("Top module missing %q", want)
		}
	}
}

func TestGeneratePipelineRegisters(t *testing.T) {
	d := mustBuild(t, hdl.EncoderSpec{
		ModuleSuffix: "pkt", Width: 20, PrefixWidth: 8, MaxCombDepth: 2,
	})
	out := NewGenerator(nil).Generate(d)

	if got := strings.Count(out, "\nmodule "); got != 4 {
		t.Errorf("Expected 4 module definitions for a 3-level tree, found %d", got)
	}

	leaf := moduleText(t, out, "argmin_l0_pkt")
	if strings.Contains(leaf, "clk_i") {
		t.Error("Leaf below the cut must stay unclocked")
	}

	// The cut lands at level 1: registered child tuples, async reset,
	// combine reads the _q copies.
	l1 := moduleText(t, out, "argmin_l1_pkt")
	wantL1 := []string{
		"input wire clk_i,",
		"input wire rst_i,",
		"always @(posedge clk_i or posedge rst_i) begin",
		"idx0_q <= 2'd0;",
		"pld0_q <= 8'd0;",
		"vld0_q <= 1'b0;",
		"idx3_q <= idx3_w;",
		"wire [8:0] key0_w = {~vld0_q, pld0_q};",
		"assign vld_o = vld0_q | vld1_q | vld2_q | vld3_q;",
	}
	for _, want := range wantL1 {
		if !strings.Contains(l1, want) {
			t.Errorf("Level 1 module missing %q", want)
		}
	}
	if strings.Contains(l1, ".clk_i(clk_i),") {
		t.Error("Level 1 must not pass a clock to its unclocked leaf children")
	}

	// Level 2 carries the clock for its subtree but takes no cut of
	// its own.
	l2 := moduleText(t, out, "argmin_l2_pkt")
	if !strings.Contains(l2, "input wire clk_i,") {
		t.Error("Level 2 must expose clock ports for its clocked subtree")
	}
	if !strings.Contains(l2, ".clk_i(clk_i),") {
		t.Error("Level 2 must wire the clock through to its children")
	}
	if strings.Contains(l2, "idx0_q") {
		t.Error("Level 2 has no cut and must combine the raw child wires")
	}
	if !strings.Contains(l2, "wire [8:0] key0_w = {~vld0_w, pld0_w};") {
		t.Error("Level 2 combine must read the unregistered child results")
	}

	top := moduleText(t, out, "argmin_pkt")
	if !strings.Contains(top, "input wire clk_i,") {
		t.Error("Top module must expose clock ports for the clocked core")
	}
	if !strings.Contains(top, ".clk_i(clk_i),") {
		t.Error("Top module must wire the clock into the core")
	}
}

func TestGenerateInputOutputStages(t *testing.T) {
	d := mustBuild(t, hdl.EncoderSpec{
		ModuleSuffix: "io", Width: 4, PrefixWidth: 3,
		RegisterInputs: true, RegisterOutputs: true,
	})
	out := NewGenerator(nil).Generate(d)

	leaf := moduleText(t, out, "argmin_l0_io")
	if strings.Contains(leaf, "clk_i") {
		t.Error("Reduction core must stay combinational; stages live in the top module")
	}

	top := moduleText(t, out, "argmin_io")
	wantTop := []string{
		"input wire clk_i,",
		"reg [3:0] vld_in_q;",
		"reg [11:0] pld_in_q;",
		"vld_in_q <= vld_i;",
		"wire [3:0] vld_pad_w = vld_in_q;",
		"reg [1:0] idx_out_q;",
		"idx_out_q <= idx_trim_w;",
		"pld_out_q <= pld_core_w;",
		"vld_out_q <= vld_core_w;",
		"assign idx_o = idx_out_q;",
	}
	for _, want := range wantTop {
		if !strings.Contains(top, want) {
			t.Errorf("Top module missing %q", want)
		}
	}
	if strings.Contains(top, ".clk_i(clk_i),") {
		t.Error("Unclocked core must be instantiated without clock ports")
	}
	if got := strings.Count(top, "always @(posedge clk_i or posedge rst_i)"); got != 2 {
		t.Errorf("Expected input and output stages only, found %d always blocks", got)
	}
}

func TestGenerateMinimumWidth(t *testing.T) {
	d := mustBuild(t, hdl.EncoderSpec{ModuleSuffix: "min", Width: 2, PrefixWidth: 1})
	out := NewGenerator(nil).Generate(d)

	top := moduleText(t, out, "argmin_min")
	wantTop := []string{
		"input wire [1:0] vld_i,",
		"input wire [1:0] pld_i,",
		"output wire [0:0] idx_o,",
		"wire [3:0] vld_pad_w = {2'd0, vld_i};",
		"wire [0:0] idx_trim_w = idx_core_w[0:0];",
	}
	for _, want := range wantTop {
		if !strings.Contains(top, want) {
			t.Errorf("Top module missing %q", want)
		}
	}
}

func TestFileName(t *testing.T) {
	g := NewGenerator(nil)
	d := mustBuild(t, hdl.EncoderSpec{ModuleSuffix: "pkt", Width: 20, PrefixWidth: 8})
	if got := g.FileName(d); got != "argmin_pkt.v" {
		t.Errorf("FileName() = %q, want argmin_pkt.v", got)
	}
}
