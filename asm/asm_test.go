package asm

import (
	"testing"

	"github.com/vwr2a/sim/isa"
	"github.com/vwr2a/sim/machine"
)

func TestParseLCUArithRoundTrip(t *testing.T) {
	parsed, err := ParseLCU("SADD R0, R1, R2")
	if err != nil {
		t.Fatalf("ParseLCU: %v", err)
	}
	if !parsed.Word.RFWe || parsed.Word.RFWSel != 0 {
		t.Fatalf("expected dest R0, got %+v", parsed.Word)
	}
	if parsed.Word.MuxBSel != isa.LCUMuxBR1 || parsed.Word.MuxASel != isa.LCUMuxAR2 {
		t.Fatalf("expected rs->muxB=R1, rt->muxA=R2, got muxA=%v muxB=%v", parsed.Word.MuxASel, parsed.Word.MuxBSel)
	}
	got := parsed.Word.String(0)
	if got != "SADD R0, R1, R2" {
		t.Fatalf("disassembly mismatch: got %q", got)
	}

	word, err := parsed.Word.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if decoded := isa.DecodeLCU(word); decoded != parsed.Word {
		t.Fatalf("decode(encode(w)) != w: got %+v, want %+v", decoded, parsed.Word)
	}
}

func TestParseLCUArithImmediate(t *testing.T) {
	parsed, err := ParseLCU("SADDI R0, R1, 5")
	if err != nil {
		t.Fatalf("ParseLCU: %v", err)
	}
	if parsed.Word.MuxASel != isa.LCUMuxAImm || parsed.Word.Imm != 5 {
		t.Fatalf("expected immediate operand 5, got %+v", parsed.Word)
	}
}

func TestParseLCUBranch(t *testing.T) {
	parsed, err := ParseLCU("BEQ R1, R2, 7")
	if err != nil {
		t.Fatalf("ParseLCU: %v", err)
	}
	if parsed.Word.AluOp != isa.LCUBeq || parsed.Word.Imm != 7 {
		t.Fatalf("unexpected word: %+v", parsed.Word)
	}
	if got := parsed.Word.String(0); got != "BEQ R1, R2, 7" {
		t.Fatalf("disassembly mismatch: got %q", got)
	}
}

func TestParseLCUBgepdRegisterWriteback(t *testing.T) {
	parsed, err := ParseLCU("BGEPD R2, R1, 3")
	if err != nil {
		t.Fatalf("ParseLCU: %v", err)
	}
	if !parsed.Word.RFWe || parsed.Word.RFWSel != 2 {
		t.Fatalf("expected BGEPD to write back to R2, got %+v", parsed.Word)
	}
	if parsed.SRFWrite != -1 {
		t.Fatalf("expected no SRF write when destination is a register, got %d", parsed.SRFWrite)
	}
}

func TestParseLCUBgepdSRFWriteback(t *testing.T) {
	parsed, err := ParseLCU("BGEPD SRF(3), R1, 3")
	if err != nil {
		t.Fatalf("ParseLCU: %v", err)
	}
	if parsed.Word.RFWe {
		t.Fatalf("expected no register writeback when destination is SRF, got %+v", parsed.Word)
	}
	if parsed.SRFWrite != 3 {
		t.Fatalf("expected SRF write index 3, got %d", parsed.SRFWrite)
	}
}

func TestParseLCURCModeBranch(t *testing.T) {
	parsed, err := ParseLCU("BGEPDR 12")
	if err != nil {
		t.Fatalf("ParseLCU: %v", err)
	}
	if parsed.Word.BrMode != 1 || parsed.Word.AluOp != isa.LCUBgepd || parsed.Word.Imm != 12 {
		t.Fatalf("unexpected RC-mode branch word: %+v", parsed.Word)
	}
}

func TestParseLCUJump(t *testing.T) {
	parsed, err := ParseLCU("JUMP R1, 9")
	if err != nil {
		t.Fatalf("ParseLCU: %v", err)
	}
	if parsed.Word.MuxASel != isa.LCUMuxAImm || parsed.Word.Imm != 9 {
		t.Fatalf("unexpected JUMP word: %+v", parsed.Word)
	}
	if got := parsed.Word.String(0); got != "JUMP R1, 9" {
		t.Fatalf("disassembly mismatch: got %q", got)
	}
}

func TestParseLCUUnknownMnemonic(t *testing.T) {
	if _, err := ParseLCU("FROB R0, R1, R2"); err == nil {
		t.Fatal("expected error for unknown mnemonic")
	}
}

func TestParseLSUArithRoundTrip(t *testing.T) {
	parsed, err := ParseLSU("SSUB R5, R3, R1")
	if err != nil {
		t.Fatalf("ParseLSU: %v", err)
	}
	if got := parsed.Word.String(0); got != "SSUB R5, R3, R1" {
		t.Fatalf("disassembly mismatch: got %q", got)
	}
}

func TestParseLSULoadStore(t *testing.T) {
	lwd, err := ParseLSU("LWD R2")
	if err != nil {
		t.Fatalf("ParseLSU LWD: %v", err)
	}
	if lwd.Word.AluOp != isa.LSULwd || !lwd.Word.RFWe || lwd.Word.RFWSel != 2 {
		t.Fatalf("unexpected LWD word: %+v", lwd.Word)
	}

	swd, err := ParseLSU("SWD R2")
	if err != nil {
		t.Fatalf("ParseLSU SWD: %v", err)
	}
	if swd.Word.AluOp != isa.LSUSwd || swd.Word.MuxASel != isa.LSUMuxAR2 {
		t.Fatalf("unexpected SWD word: %+v", swd.Word)
	}
}

func TestParseLSUIndexed(t *testing.T) {
	lwi, err := ParseLSU("LWI R0, R1+4")
	if err != nil {
		t.Fatalf("ParseLSU LWI: %v", err)
	}
	if lwi.Word.AluOp != isa.LSULwi || lwi.Word.Imm != 4 || lwi.Word.MuxASel != isa.LSUMuxAR1 {
		t.Fatalf("unexpected LWI word: %+v", lwi.Word)
	}

	swi, err := ParseLSU("SWI R1+4, R2")
	if err != nil {
		t.Fatalf("ParseLSU SWI: %v", err)
	}
	if swi.Word.AluOp != isa.LSUSwi || swi.Word.Imm != 4 || swi.Word.MuxBSel != isa.LSUMuxBR2 {
		t.Fatalf("unexpected SWI word: %+v", swi.Word)
	}
}

func TestParseRCArithWithVWRDest(t *testing.T) {
	parsed, err := ParseRC("SADD VWR_B, R0, R1")
	if err != nil {
		t.Fatalf("ParseRC: %v", err)
	}
	if !parsed.VWRWe || parsed.VWRWrite != machine.VWRB {
		t.Fatalf("expected VWR_B destination, got %+v", parsed)
	}
	if parsed.Word.MuxASel != isa.RCMuxR0 || parsed.Word.MuxBSel != isa.RCMuxR1 {
		t.Fatalf("unexpected RC word: %+v", parsed.Word)
	}
}

func TestParseRCHalfPrecision(t *testing.T) {
	parsed, err := ParseRC("SADD.H R0, VWR_A, VWR_B")
	if err != nil {
		t.Fatalf("ParseRC: %v", err)
	}
	if parsed.Word.OpMode != 1 {
		t.Fatalf("expected half-precision op mode, got %+v", parsed.Word)
	}
	if got := parsed.Word.String(0, false, "", false); got != "SADD.H R0, VWR_A, VWR_B" {
		t.Fatalf("disassembly mismatch: got %q", got)
	}
}

func TestParseRCFixedPoint(t *testing.T) {
	parsed, err := ParseRC("MUL.FP R0, VWR_A, VWR_B")
	if err != nil {
		t.Fatalf("ParseRC: %v", err)
	}
	if parsed.Word.AluOp != isa.RCFxpMul {
		t.Fatalf("expected FXP_MUL op, got %+v", parsed.Word)
	}
}

func TestParseRCFlagOp(t *testing.T) {
	parsed, err := ParseRC("SFGA R0, VWR_A, VWR_B, RCT")
	if err != nil {
		t.Fatalf("ParseRC: %v", err)
	}
	if parsed.Word.AluOp != isa.RCInbSFInA || parsed.Word.MuxFSel != isa.RCMuxFRCT {
		t.Fatalf("unexpected SFGA word: %+v", parsed.Word)
	}
	if got := parsed.Word.String(0, false, "", false); got != "SFGA R0, VWR_A, VWR_B, RCT" {
		t.Fatalf("disassembly mismatch: got %q", got)
	}
}

func TestParseRCNeighbourOperand(t *testing.T) {
	parsed, err := ParseRC("SADD R0, RCT, RCL")
	if err != nil {
		t.Fatalf("ParseRC: %v", err)
	}
	if parsed.Word.MuxASel != isa.RCMuxRCT || parsed.Word.MuxBSel != isa.RCMuxRCL {
		t.Fatalf("unexpected RC word: %+v", parsed.Word)
	}
}

func TestAssembleCycleSRFReconciliation(t *testing.T) {
	rcLines := []string{"SADD R0, SRF(2), R1", "NOP", "NOP", "NOP"}
	line, err := AssembleCycle("NOP", "NOP", "NOP", rcLines)
	if err != nil {
		t.Fatalf("AssembleCycle: %v", err)
	}
	if line.MXCU.SRFSel != 2 {
		t.Fatalf("expected agreed SRF index 2, got %d", line.MXCU.SRFSel)
	}
	if line.MXCU.SRFWe {
		t.Fatalf("expected no SRF write, since RC only reads SRF(2)")
	}
}

func TestAssembleCycleSRFConflict(t *testing.T) {
	rcLines := []string{"SADD R0, SRF(2), R1", "SADD R0, SRF(3), R1", "NOP", "NOP"}
	_, err := AssembleCycle("NOP", "NOP", "NOP", rcLines)
	if err == nil {
		t.Fatal("expected SRF conflict error")
	}
	ae, ok := err.(*AssembleError)
	if !ok || ae.Kind != ErrSRFConflict {
		t.Fatalf("expected ErrSRFConflict, got %v", err)
	}
}

func TestAssembleCycleVWRConflict(t *testing.T) {
	rcLines := []string{"SADD VWR_A, R0, R1", "SADD VWR_B, R0, R1", "NOP", "NOP"}
	_, err := AssembleCycle("NOP", "NOP", "NOP", rcLines)
	if err == nil {
		t.Fatal("expected VWR conflict error")
	}
	ae, ok := err.(*AssembleError)
	if !ok || ae.Kind != ErrVWRConflict {
		t.Fatalf("expected ErrVWRConflict, got %v", err)
	}
}

func TestAssembleCycleVWRRowWeAndDisassembly(t *testing.T) {
	rcLines := []string{"SADD VWR_C, R0, R1", "NOP", "SADD VWR_C, R0, R1", "NOP"}
	line, err := AssembleCycle("NOP", "NOP", "NOP", rcLines)
	if err != nil {
		t.Fatalf("AssembleCycle: %v", err)
	}
	if line.MXCU.VWRSel != uint32(machine.VWRC) {
		t.Fatalf("expected agreed VWR letter C, got %d", line.MXCU.VWRSel)
	}
	const wantRowWe = 1<<0 | 1<<2
	if line.MXCU.VWRRowWe != wantRowWe {
		t.Fatalf("expected row-we bitmap %b, got %b", wantRowWe, line.MXCU.VWRRowWe)
	}

	mnemonics := DisassembleCycle(line)
	if mnemonics[3] != "SADD VWR_C, R0, R1" || mnemonics[5] != "SADD VWR_C, R0, R1" {
		t.Fatalf("unexpected RC disassembly: %+v", mnemonics)
	}
	if mnemonics[4] != "NOP" || mnemonics[6] != "NOP" {
		t.Fatalf("unexpected idle RC disassembly: %+v", mnemonics)
	}
}

func TestAssembleKernelRowErrorCarriesRowNumber(t *testing.T) {
	rows := [][]string{
		{"NOP", "NOP", "NOP", "NOP", "NOP", "NOP", "NOP"},
		{"FROB", "NOP", "NOP", "NOP", "NOP", "NOP", "NOP"},
	}
	_, err := AssembleKernel(rows)
	if err == nil {
		t.Fatal("expected error from malformed second row")
	}
	ae, ok := err.(*AssembleError)
	if !ok || ae.Row != 2 {
		t.Fatalf("expected row 2 in error, got %+v", err)
	}
}
