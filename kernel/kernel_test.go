package kernel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vwr2a/sim/isa"
)

func writeAsmCSV(t *testing.T, path string, rows [][]string) {
	t.Helper()
	var sb []byte
	sb = append(sb, "LCU,LSU,MXCU,RC0,RC1,RC2,RC3\n"...)
	for _, row := range rows {
		for i, cell := range row {
			if i > 0 {
				sb = append(sb, ',')
			}
			sb = append(sb, cell...)
		}
		sb = append(sb, '\n')
	}
	if err := os.WriteFile(path, sb, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestReadAsmSingleColumn(t *testing.T) {
	dir := t.TempDir()
	writeAsmCSV(t, filepath.Join(dir, "instructions_asm.csv"), [][]string{
		{"SADD R0, R1, R2", "NOP", "NOP", "NOP", "NOP", "NOP", "NOP"},
		{"EXIT", "NOP", "NOP", "NOP", "NOP", "NOP", "NOP"},
	})

	d := NewDirectory(dir, "")
	desc := Descriptor{NInstr: 2, ColUsage: isa.ColUsageCol0}
	lines, err := d.ReadAsm(desc)
	if err != nil {
		t.Fatalf("ReadAsm: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].LCU.AluOp != isa.LCUSAdd {
		t.Fatalf("unexpected first line: %+v", lines[0].LCU)
	}
	if lines[1].LCU.AluOp != isa.LCUExit {
		t.Fatalf("unexpected second line: %+v", lines[1].LCU)
	}
}

func TestReadAsmDualColumnRowCount(t *testing.T) {
	dir := t.TempDir()
	row := []string{"NOP", "NOP", "NOP", "NOP", "NOP", "NOP", "NOP"}
	writeAsmCSV(t, filepath.Join(dir, "instructions_asm.csv"), [][]string{row, row, row, row})

	d := NewDirectory(dir, "")
	desc := Descriptor{NInstr: 2, ColUsage: isa.ColUsageBoth}
	lines, err := d.ReadAsm(desc)
	if err != nil {
		t.Fatalf("ReadAsm: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines (one column-block), got %d", len(lines))
	}
}

func TestReadAsmMalformedRowCount(t *testing.T) {
	dir := t.TempDir()
	row := []string{"NOP", "NOP", "NOP", "NOP", "NOP", "NOP", "NOP"}
	writeAsmCSV(t, filepath.Join(dir, "instructions_asm.csv"), [][]string{row})

	d := NewDirectory(dir, "")
	desc := Descriptor{NInstr: 2, ColUsage: isa.ColUsageCol0}
	_, err := d.ReadAsm(desc)
	if err == nil {
		t.Fatal("expected malformed CSV error")
	}
	if _, ok := err.(*ErrMalformedCSV); !ok {
		t.Fatalf("expected *ErrMalformedCSV, got %T: %v", err, err)
	}
}

func TestWriteHexRoundTripsRowCount(t *testing.T) {
	dir := t.TempDir()
	d := NewDirectory(dir, "_v2")
	desc := Descriptor{NInstr: 3, ColUsage: isa.ColUsageBoth}
	lines := make([]isa.CycleLine, desc.NInstr)
	for i := range lines {
		lines[i] = isa.NewCycleLine(4)
	}
	if err := d.WriteHex(desc, lines); err != nil {
		t.Fatalf("WriteHex: %v", err)
	}

	data, err := os.ReadFile(d.hexPath())
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	got := len(splitLines(string(data)))
	want := 1 + desc.NInstr*desc.ActiveColumns()
	if got != want {
		t.Fatalf("expected %d lines in hex CSV, got %d", want, got)
	}
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			if i > start {
				lines = append(lines, s[start:i])
			}
			start = i + 1
		}
	}
	return lines
}

func TestWriteHeaderProducesAllFourArrays(t *testing.T) {
	dir := t.TempDir()
	imem := isa.NewIMEM(4, 4)
	path := filepath.Join(dir, "dsip_bitstream.h")
	if err := WriteHeader(path, imem); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	content := string(data)
	for _, want := range []string{
		"dsip_lcu_imem_bitstream",
		"dsip_lsu_imem_bitstream",
		"dsip_mxcu_imem_bitstream",
		"dsip_rcs_imem_bitstream",
	} {
		if !contains(content, want) {
			t.Fatalf("expected header to contain %q", want)
		}
	}
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
