package kernel

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vwr2a/sim/asm"
	"github.com/vwr2a/sim/isa"
	"github.com/vwr2a/sim/machine"
)

var csvHeader = append([]string{"LCU", "LSU", "MXCU"}, rcHeader()...)

func rcHeader() []string {
	h := make([]string, machine.Rows)
	for r := range h {
		h[r] = fmt.Sprintf("RC%d", r)
	}
	return h
}

// Directory is one kernel's on-disk directory: a pair of mnemonic/hex CSVs
// (instructions_asm<version>.csv / instructions_hex<version>.csv) plus the
// generated C bitstream header, matching the original's `kernel_path`
// layout (one directory per kernel).
type Directory struct {
	Path    string
	Version string
}

func NewDirectory(path, version string) *Directory {
	return &Directory{Path: path, Version: version}
}

func (d *Directory) asmPath() string {
	return filepath.Join(d.Path, "instructions_asm"+d.Version+".csv")
}

func (d *Directory) hexPath() string {
	return filepath.Join(d.Path, "instructions_hex"+d.Version+".csv")
}

// ReadAsm reads instructions_asm<version>.csv, validates its shape against
// desc (header row plus NInstr*ActiveColumns body rows, per spec.md's
// kernel directory layout), and assembles the program. When desc runs on
// more than one column, the file still carries one column-block of rows
// per active column (matching the original's row count), but only the
// first block is assembled: the engine runs the same per-cycle program on
// every active column of a kernel (divergent per-column programs aren't a
// shape this simulator's shared CycleLine can express).
func (d *Directory) ReadAsm(desc Descriptor) ([]isa.CycleLine, error) {
	path := d.asmPath()
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("kernel: open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("kernel: read %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, &ErrMalformedCSV{Path: path, Row: 0, Expected: 1, Got: 0}
	}
	body := rows[1:]
	expected := desc.NInstr * desc.ActiveColumns()
	if len(body) != expected {
		return nil, &ErrMalformedCSV{Path: path, Row: len(body) + 1, Expected: expected, Got: len(body)}
	}

	lines, err := asm.AssembleKernel(body[:desc.NInstr])
	if err != nil {
		return nil, fmt.Errorf("kernel: %s: %w", path, err)
	}
	return lines, nil
}

// WriteHex renders lines (one kernel's program) as instructions_hex<version>.csv,
// replicating the program across desc.ActiveColumns() row blocks to match
// the file shape ReadAsm expects back.
func (d *Directory) WriteHex(desc Descriptor, lines []isa.CycleLine) error {
	path := d.hexPath()
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("kernel: create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("kernel: write header to %s: %w", path, err)
	}
	for block := 0; block < desc.ActiveColumns(); block++ {
		for _, line := range lines {
			row, err := hexRow(line)
			if err != nil {
				return fmt.Errorf("kernel: encode line for %s: %w", path, err)
			}
			if err := w.Write(row); err != nil {
				return fmt.Errorf("kernel: write row to %s: %w", path, err)
			}
		}
	}
	w.Flush()
	return w.Error()
}

func hexRow(line isa.CycleLine) ([]string, error) {
	row := make([]string, 3+machine.Rows)
	var err error
	if row[0], err = line.LCU.HexString(); err != nil {
		return nil, err
	}
	if row[1], err = line.LSU.HexString(); err != nil {
		return nil, err
	}
	if row[2], err = line.MXCU.HexString(); err != nil {
		return nil, err
	}
	for r, rc := range line.RC {
		if row[3+r], err = rc.HexString(); err != nil {
			return nil, err
		}
	}
	return row, nil
}
