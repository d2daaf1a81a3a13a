package isa

import "testing"

func TestLCURoundTrip(t *testing.T) {
	w := LCUWord{MuxASel: LCUMuxASRF, MuxBSel: LCUMuxBOne, BrMode: 1, AluOp: LCUBgepd, RFWe: true, RFWSel: 2, Imm: 37}
	word, err := w.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if word >= 1<<LCUWidth {
		t.Fatalf("encoded word %#x does not fit in %d bits", word, LCUWidth)
	}
	got := DecodeLCU(word)
	if got != w {
		t.Errorf("DecodeLCU(Encode(w)) = %+v, want %+v", got, w)
	}
	hex, err := w.HexString()
	if err != nil {
		t.Fatal(err)
	}
	fromHex, err := DecodeLCUHex(hex)
	if err != nil {
		t.Fatal(err)
	}
	if fromHex != w {
		t.Errorf("DecodeLCUHex(w.HexString()) = %+v, want %+v", fromHex, w)
	}
}

func TestLSURoundTrip(t *testing.T) {
	w := LSUWord{MuxASel: LSUMuxAR2, MuxBSel: LSUMuxBOne, AluOp: LSULwi, RFWe: true, RFWSel: 6, Imm: 19}
	word, err := w.Encode()
	if err != nil {
		t.Fatal(err)
	}
	if word >= 1<<LSUWidth {
		t.Fatalf("encoded word %#x does not fit in %d bits", word, LSUWidth)
	}
	got := DecodeLSU(word)
	if got != w {
		t.Errorf("DecodeLSU(Encode(w)) = %+v, want %+v", got, w)
	}
}

func TestMXCURoundTrip(t *testing.T) {
	w := MXCUWord{
		MuxASel: MXCUMuxR0, MuxBSel: MXCUMuxR5, AluOp: MXCUSAdd, RFWe: true, RFWSel: 0, Imm: 1,
		SRFSel: 5, SRFWe: true, VWRSel: 2, VWRRowWe: 0b1010,
	}
	word, err := w.Encode()
	if err != nil {
		t.Fatal(err)
	}
	if word >= 1<<MXCUWidth {
		t.Fatalf("encoded word %#x does not fit in %d bits", word, MXCUWidth)
	}
	got := DecodeMXCU(word)
	if got != w {
		t.Errorf("DecodeMXCU(Encode(w)) = %+v, want %+v", got, w)
	}
}

func TestRCRoundTrip(t *testing.T) {
	w := RCWord{MuxASel: RCMuxRCL, MuxBSel: RCMuxR0, OpMode: 1, AluOp: RCSAdd, MuxFSel: RCMuxFRCT, RFWe: true, RFWSel: 1}
	word, err := w.Encode()
	if err != nil {
		t.Fatal(err)
	}
	if word >= 1<<RCWidth {
		t.Fatalf("encoded word %#x does not fit in %d bits", word, RCWidth)
	}
	got := DecodeRC(word)
	if got != w {
		t.Errorf("DecodeRC(Encode(w)) = %+v, want %+v", got, w)
	}
}

func TestKMEMRoundTrip(t *testing.T) {
	w := KMEMWord{NInstr: 130, IMEMStart: 256, ColUsage: ColUsageBoth, SRFSPMBank: 3}
	word, err := w.Encode()
	if err != nil {
		t.Fatal(err)
	}
	if word >= 1<<KMEMWidth {
		t.Fatalf("encoded word %#x does not fit in %d bits", word, KMEMWidth)
	}
	got := DecodeKMEM(word)
	if got != w {
		t.Errorf("DecodeKMEM(Encode(w)) = %+v, want %+v", got, w)
	}
}

func TestEncodeRejectsFieldOverflow(t *testing.T) {
	w := LCUWord{Imm: 1 << 6} // imm is 6 bits wide
	if _, err := w.Encode(); err == nil {
		t.Fatal("expected ErrFieldOverflow, got nil")
	}
}

func TestDecodeHexZeroExtends(t *testing.T) {
	w, err := DecodeLCUHex("0x1")
	if err != nil {
		t.Fatal(err)
	}
	if w.Imm != 1 || w.AluOp != LCUNop {
		t.Errorf("DecodeLCUHex(\"0x1\") = %+v, want imm=1, aluOp=NOP", w)
	}
}

func TestRCDisassembleSFGA(t *testing.T) {
	w := RCWord{MuxASel: RCMuxR0, MuxBSel: RCMuxR1, AluOp: RCInbSFInA, MuxFSel: RCMuxFRCB}
	got := w.String(0, false, "", false)
	want := "SFGA -, R0, R1, RCB"
	if got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestLCUColUsageColumns(t *testing.T) {
	tests := []struct {
		usage      ColUsage
		first, last int
	}{
		{ColUsageCol0, 0, 0},
		{ColUsageCol1, 1, 1},
		{ColUsageBoth, 0, 1},
	}
	for _, tt := range tests {
		first, last := tt.usage.Columns()
		if first != tt.first || last != tt.last {
			t.Errorf("%v.Columns() = (%d,%d), want (%d,%d)", tt.usage, first, last, tt.first, tt.last)
		}
	}
}
