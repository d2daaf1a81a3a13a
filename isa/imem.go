package isa

// SRFWriter identifies which slot in a cycle line supplies the value written
// to the column SRF, when MXCUWord.SRFWe is set. This is simulation
// metadata the assembler derives from the parsed mnemonics (mirroring how
// MXCUWord.VWRRowWe identifies VWR writers per row); it is not part of the
// slots' bit-exact wire encoding, since the hardware's own srf_we is a
// single per-cycle bit, not a per-slot identifier.
type SRFWriter int

const (
	SRFWriterNone SRFWriter = iota - 1
	SRFWriterLCU
	SRFWriterLSU
	SRFWriterRC0
	SRFWriterRC1
	SRFWriterRC2
	SRFWriterRC3
)

// CycleLine is the seven parallel instruction words issued in one cycle
// across a column: LCU, LSU, MXCU, and one RC per row.
type CycleLine struct {
	LCU  LCUWord
	LSU  LSUWord
	MXCU MXCUWord
	RC   []RCWord // length = machine.Rows

	SRFWriter SRFWriter
}

// RCRow returns the RC row index that supplies the SRF write for this
// line, or -1 if the writer isn't an RC (or there is none).
func (w SRFWriter) RCRow() int {
	if w < SRFWriterRC0 {
		return -1
	}
	return int(w - SRFWriterRC0)
}

// NewCycleLine returns a CycleLine with rows RC slots, each defaulted to NOP.
func NewCycleLine(rows int) CycleLine {
	return CycleLine{RC: make([]RCWord, rows)}
}

// IMEM is the shared instruction memory: one CycleLine per line, indexed by
// program counter. The assembler writes lines; the cycle engine copies a
// kernel's [base, base+n) window into each active column at kernel start.
type IMEM struct {
	Lines []CycleLine
}

// NewIMEM allocates an IMEM of n lines, each with the given number of RC
// rows, all defaulted to NOP.
func NewIMEM(n, rows int) *IMEM {
	lines := make([]CycleLine, n)
	for i := range lines {
		lines[i] = NewCycleLine(rows)
	}
	return &IMEM{Lines: lines}
}
