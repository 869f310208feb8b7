// Package verilog renders a planned arg-min design as a single
// Verilog-2001 source unit: one module per tree level, leaf first,
// then the top module. The same design always renders to the same
// bytes; nothing in the output depends on time or environment.
package verilog

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/teranos/qmin/hdl"
	"github.com/teranos/qmin/version"
)

const headPrefix = "// Code generated by qmin "
const headSuffix = ". DO NOT EDIT."

// Generator renders designs. It carries no state between calls; the
// logger only surfaces substitution warnings at render time.
type Generator struct {
	log *zap.SugaredLogger
}

// NewGenerator creates a generator. A nil logger silences warnings.
func NewGenerator(log *zap.SugaredLogger) *Generator {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Generator{log: log}
}

// FileName returns the artifact file name for a design,
// argmin_<suffix>.v.
func (g *Generator) FileName(d *hdl.Design) string {
	return d.TopName() + ".v"
}

// Generate renders the complete artifact.
func (g *Generator) Generate(d *hdl.Design) string {
	if d.Spec.MuxStyle == hdl.MuxExtendedLUT {
		g.log.Warnw("no portable primitive for the extended LUT mux; emitting the case form",
			"suffix", d.Spec.ModuleSuffix)
	}

	w := &writer{}
	g.emitHeader(w, d)
	for _, u := range d.Units {
		w.blank()
		g.emitUnit(w, d, u)
	}
	w.blank()
	g.emitTop(w, d)
	return w.String()
}

// GeneratedVersion extracts the tool version recorded in an artifact
// header, or the empty string when no header is present.
func GeneratedVersion(text string) string {
	line, _, _ := strings.Cut(text, "\n")
	rest, ok := strings.CutPrefix(line, headPrefix)
	if !ok {
		return ""
	}
	v, ok := strings.CutSuffix(rest, headSuffix)
	if !ok {
		return ""
	}
	return v
}

func (g *Generator) emitHeader(w *writer, d *hdl.Design) {
	s := d.Spec
	w.line(headPrefix + version.Version + headSuffix)
	w.linef("// %s: 4-ary arg-min over %d entries, %d-bit payload.",
		d.TopName(), s.Width, s.PrefixWidth)
	w.linef("// mux=%s cmd=%d ri=%t ro=%t latency=%d",
		s.MuxStyle, s.MaxCombDepth, s.RegisterInputs, s.RegisterOutputs, d.Latency())
}

// emitModuleHead writes a module declaration. Clock and reset ports
// appear only when the module's subtree holds a register.
func (g *Generator) emitModuleHead(w *writer, name string, clocked bool, entries, payloadWidth, indexWidth int) {
	w.linef("module %s (", name)
	w.indent++
	if clocked {
		w.line("input wire clk_i,")
		w.line("input wire rst_i,")
	}
	w.linef("input wire [%d:0] vld_i,", entries-1)
	w.linef("input wire [%d:0] pld_i,", entries*payloadWidth-1)
	w.linef("output wire [%d:0] idx_o,", indexWidth-1)
	w.linef("output wire [%d:0] pld_o,", payloadWidth-1)
	w.line("output wire vld_o")
	w.indent--
	w.line(");")
}

func (g *Generator) emitUnit(w *writer, d *hdl.Design, u *hdl.Unit) {
	g.emitModuleHead(w, u.Name, u.Clocked, u.Entries, u.PayloadWidth, u.IndexWidth)
	w.blank()
	w.indent++
	if u.Level == 0 {
		g.emitLeafBody(w, u)
	} else {
		g.emitNodeBody(w, d, u)
	}
	w.indent--
	w.blank()
	w.line("endmodule")
}

// emitCompare writes the shared four-way compare network over the
// keyN_w wires. Strict compares on the later operand keep the lowest
// index on ties.
func (g *Generator) emitCompare(w *writer, payloadWidth int) {
	w.line("wire win_lo_w = key1_w < key0_w;")
	w.line("wire win_hi_w = key3_w < key2_w;")
	w.linef("wire [%d:0] min_lo_w = win_lo_w ? key1_w : key0_w;", payloadWidth)
	w.linef("wire [%d:0] min_hi_w = win_hi_w ? key3_w : key2_w;", payloadWidth)
	w.line("wire win_fin_w = min_hi_w < min_lo_w;")
}

func (g *Generator) emitLeafBody(w *writer, u *hdl.Unit) {
	p := u.PayloadWidth

	w.line("// Augmented keys: {~valid, payload}, so invalid entries rank last.")
	for i := 0; i < 4; i++ {
		w.linef("wire [%d:0] key%d_w = {~vld_i[%d], pld_i[%d:%d]};",
			p, i, i, (i+1)*p-1, i*p)
	}
	w.blank()
	g.emitCompare(w, p)
	w.blank()
	w.line("assign idx_o = win_fin_w ? {1'b1, win_hi_w} : {1'b0, win_lo_w};")
	w.linef("assign pld_o = win_fin_w ? min_hi_w[%d:0] : min_lo_w[%d:0];", p-1, p-1)
	w.line("assign vld_o = |vld_i;")
}

func (g *Generator) emitNodeBody(w *writer, d *hdl.Design, u *hdl.Unit) {
	child := d.Units[u.Level-1]
	p := u.PayloadWidth
	cw := child.IndexWidth
	span := child.Entries

	for q := 0; q < 4; q++ {
		w.linef("wire [%d:0] idx%d_w;", cw-1, q)
		w.linef("wire [%d:0] pld%d_w;", p-1, q)
		w.linef("wire vld%d_w;", q)
	}

	for q := 0; q < 4; q++ {
		w.blank()
		w.linef("%s u_q%d (", child.Name, q)
		w.indent++
		if child.Clocked {
			w.line(".clk_i(clk_i),")
			w.line(".rst_i(rst_i),")
		}
		w.linef(".vld_i(vld_i[%d:%d]),", (q+1)*span-1, q*span)
		w.linef(".pld_i(pld_i[%d:%d]),", (q+1)*span*p-1, q*span*p)
		w.linef(".idx_o(idx%d_w),", q)
		w.linef(".pld_o(pld%d_w),", q)
		w.linef(".vld_o(vld%d_w)", q)
		w.indent--
		w.line(");")
	}

	// Child results feed the combine either directly or through the
	// pipeline cut.
	suffix := "w"
	if u.RegisterAfterChildren {
		suffix = "q"
		w.blank()
		for q := 0; q < 4; q++ {
			w.linef("reg [%d:0] idx%d_q;", cw-1, q)
			w.linef("reg [%d:0] pld%d_q;", p-1, q)
			w.linef("reg vld%d_q;", q)
		}
		w.blank()
		w.line("// One stage latches all four child tuples together.")
		w.line("always @(posedge clk_i or posedge rst_i) begin")
		w.indent++
		w.line("if (rst_i) begin")
		w.indent++
		for q := 0; q < 4; q++ {
			w.linef("idx%d_q <= %d'd0;", q, cw)
			w.linef("pld%d_q <= %d'd0;", q, p)
			w.linef("vld%d_q <= 1'b0;", q)
		}
		w.indent--
		w.line("end else begin")
		w.indent++
		for q := 0; q < 4; q++ {
			w.linef("idx%d_q <= idx%d_w;", q, q)
			w.linef("pld%d_q <= pld%d_w;", q, q)
			w.linef("vld%d_q <= vld%d_w;", q, q)
		}
		w.indent--
		w.line("end")
		w.indent--
		w.line("end")
	}

	w.blank()
	for q := 0; q < 4; q++ {
		w.linef("wire [%d:0] key%d_w = {~vld%d_%s, pld%d_%s};",
			p, q, q, suffix, q, suffix)
	}
	w.blank()
	g.emitCompare(w, p)
	w.line("wire win_sel_w = win_fin_w ? win_hi_w : win_lo_w;")
	w.line("wire [1:0] sel_w = {win_fin_w, win_sel_w};")

	w.blank()
	w.linef("reg [%d:0] idx_mux_r;", cw-1)
	w.linef("reg [%d:0] pld_mux_r;", p-1)
	w.blank()
	var src [4]childSignals
	for q := 0; q < 4; q++ {
		src[q] = childSignals{
			idx: fmt.Sprintf("idx%d_%s", q, suffix),
			pld: fmt.Sprintf("pld%d_%s", q, suffix),
		}
	}
	newMuxEmitter(d.Spec.MuxStyle).emit(w, src)

	w.blank()
	w.line("assign idx_o = {sel_w, idx_mux_r};")
	w.line("assign pld_o = pld_mux_r;")
	w.linef("assign vld_o = vld0_%s | vld1_%s | vld2_%s | vld3_%s;",
		suffix, suffix, suffix, suffix)
}

func (g *Generator) emitTop(w *writer, d *hdl.Design) {
	s := d.Spec
	root := d.Root()
	p := s.PrefixWidth

	g.emitModuleHead(w, d.TopName(), d.Clocked(), s.Width, p, d.TopIndexWidth)
	w.blank()
	w.indent++

	vldSrc, pldSrc := "vld_i", "pld_i"
	if s.RegisterInputs {
		w.linef("reg [%d:0] vld_in_q;", s.Width-1)
		w.linef("reg [%d:0] pld_in_q;", s.Width*p-1)
		w.blank()
		w.line("always @(posedge clk_i or posedge rst_i) begin")
		w.indent++
		w.line("if (rst_i) begin")
		w.indent++
		w.linef("vld_in_q <= %d'd0;", s.Width)
		w.linef("pld_in_q <= %d'd0;", s.Width*p)
		w.indent--
		w.line("end else begin")
		w.indent++
		w.line("vld_in_q <= vld_i;")
		w.line("pld_in_q <= pld_i;")
		w.indent--
		w.line("end")
		w.indent--
		w.line("end")
		w.blank()
		vldSrc, pldSrc = "vld_in_q", "pld_in_q"
	}

	if pad := d.Padding(); pad > 0 {
		w.linef("// Pad to the %d-entry span; padding stays invalid.", d.PaddedWidth)
		w.linef("wire [%d:0] vld_pad_w = {%d'd0, %s};", d.PaddedWidth-1, pad, vldSrc)
		w.linef("wire [%d:0] pld_pad_w = {%d'd0, %s};", d.PaddedWidth*p-1, pad*p, pldSrc)
	} else {
		w.linef("wire [%d:0] vld_pad_w = %s;", d.PaddedWidth-1, vldSrc)
		w.linef("wire [%d:0] pld_pad_w = %s;", d.PaddedWidth*p-1, pldSrc)
	}

	w.blank()
	w.linef("wire [%d:0] idx_core_w;", root.IndexWidth-1)
	w.linef("wire [%d:0] pld_core_w;", p-1)
	w.line("wire vld_core_w;")
	w.blank()
	w.linef("%s u_core (", root.Name)
	w.indent++
	if root.Clocked {
		w.line(".clk_i(clk_i),")
		w.line(".rst_i(rst_i),")
	}
	w.line(".vld_i(vld_pad_w),")
	w.line(".pld_i(pld_pad_w),")
	w.line(".idx_o(idx_core_w),")
	w.line(".pld_o(pld_core_w),")
	w.line(".vld_o(vld_core_w)")
	w.indent--
	w.line(");")
	w.blank()
	w.linef("wire [%d:0] idx_trim_w = idx_core_w[%d:0];",
		d.TopIndexWidth-1, d.TopIndexWidth-1)
	w.blank()

	if s.RegisterOutputs {
		w.linef("reg [%d:0] idx_out_q;", d.TopIndexWidth-1)
		w.linef("reg [%d:0] pld_out_q;", p-1)
		w.line("reg vld_out_q;")
		w.blank()
		w.line("always @(posedge clk_i or posedge rst_i) begin")
		w.indent++
		w.line("if (rst_i) begin")
		w.indent++
		w.linef("idx_out_q <= %d'd0;", d.TopIndexWidth)
		w.linef("pld_out_q <= %d'd0;", p)
		w.line("vld_out_q <= 1'b0;")
		w.indent--
		w.line("end else begin")
		w.indent++
		w.line("idx_out_q <= idx_trim_w;")
		w.line("pld_out_q <= pld_core_w;")
		w.line("vld_out_q <= vld_core_w;")
		w.indent--
		w.line("end")
		w.indent--
		w.line("end")
		w.blank()
		w.line("assign idx_o = idx_out_q;")
		w.line("assign pld_o = pld_out_q;")
		w.line("assign vld_o = vld_out_q;")
	} else {
		w.line("assign idx_o = idx_trim_w;")
		w.line("assign pld_o = pld_core_w;")
		w.line("assign vld_o = vld_core_w;")
	}

	w.indent--
	w.blank()
	w.line("endmodule")
}
