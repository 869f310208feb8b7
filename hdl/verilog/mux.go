package verilog

import "github.com/teranos/qmin/hdl"

// childSignals names the muxed result nets of one child quarter.
type childSignals struct {
	idx string
	pld string
}

// muxEmitter renders the combinational block that forwards the winning
// child's index and payload into idx_mux_r and pld_mux_r. The select
// pair sel_w is always fully driven by the compare network, so every
// form below describes the same hardware for every input.
type muxEmitter interface {
	emit(w *writer, src [4]childSignals)
}

// newMuxEmitter returns the emitter for a style. The style is
// validated with the spec, so anything unexpected is a programming
// error and falls back to the case form.
func newMuxEmitter(style hdl.MuxStyle) muxEmitter {
	switch style {
	case hdl.MuxIfElse:
		return ifElseMux{}
	case hdl.MuxExtendedLUT:
		return extendedLUTMux{}
	default:
		return caseMux{}
	}
}

// caseMux selects with an exhaustive case statement. Four arms cover
// the full 2-bit select space, so no default arm exists.
type caseMux struct{}

func (caseMux) emit(w *writer, src [4]childSignals) {
	w.line("always @(*) begin")
	w.indent++
	w.line("case (sel_w)")
	w.indent++
	for q := 0; q < 4; q++ {
		w.linef("2'd%d: begin", q)
		w.indent++
		w.linef("idx_mux_r = %s;", src[q].idx)
		w.linef("pld_mux_r = %s;", src[q].pld)
		w.indent--
		w.line("end")
	}
	w.indent--
	w.line("endcase")
	w.indent--
	w.line("end")
}

// ifElseMux selects with a priority chain over the decoded select
// terms. The chain tests children in index order and the final else
// takes child 3, so the behavior matches the case form bit for bit.
type ifElseMux struct{}

func (ifElseMux) emit(w *writer, src [4]childSignals) {
	w.line("always @(*) begin")
	w.indent++
	w.line("if (!sel_w[1] && !sel_w[0]) begin")
	w.indent++
	w.linef("idx_mux_r = %s;", src[0].idx)
	w.linef("pld_mux_r = %s;", src[0].pld)
	w.indent--
	w.line("end else if (!sel_w[1] && sel_w[0]) begin")
	w.indent++
	w.linef("idx_mux_r = %s;", src[1].idx)
	w.linef("pld_mux_r = %s;", src[1].pld)
	w.indent--
	w.line("end else if (sel_w[1] && !sel_w[0]) begin")
	w.indent++
	w.linef("idx_mux_r = %s;", src[2].idx)
	w.linef("pld_mux_r = %s;", src[2].pld)
	w.indent--
	w.line("end else begin")
	w.indent++
	w.linef("idx_mux_r = %s;", src[3].idx)
	w.linef("pld_mux_r = %s;", src[3].pld)
	w.indent--
	w.line("end")
	w.indent--
	w.line("end")
}

// extendedLUTMux stands in for the wide-input vendor LUT request.
// No portable primitive exists, so it notes the substitution and
// emits the case form.
type extendedLUTMux struct {
	caseMux
}

func (m extendedLUTMux) emit(w *writer, src [4]childSignals) {
	w.line("// Extended LUT form requested; no portable primitive covers a")
	w.line("// six-input winner select, so the case form stands in.")
	m.caseMux.emit(w, src)
}
