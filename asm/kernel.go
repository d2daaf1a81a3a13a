package asm

import (
	"github.com/vwr2a/sim/isa"
	"github.com/vwr2a/sim/machine"
)

// AssembleKernel assembles a full kernel body: one row per cycle, each row
// holding LCU, LSU, MXCU, RC0..RC3 mnemonic text in that column order (the
// layout of instructions_asm<version>.csv's body rows, one header aside).
// Errors are annotated with the 1-based row they came from.
func AssembleKernel(rows [][]string) ([]isa.CycleLine, error) {
	lines := make([]isa.CycleLine, len(rows))
	for i, row := range rows {
		if len(row) != 3+machine.Rows {
			err := newErr(SlotLCU, ErrOperandCount, "row has %d columns, expected %d", len(row), 3+machine.Rows)
			err.Row = i + 1
			return nil, err
		}
		line, err := AssembleCycle(row[0], row[1], row[2], row[3:3+machine.Rows])
		if err != nil {
			if ae, ok := err.(*AssembleError); ok {
				ae.Row = i + 1
				return nil, ae
			}
			return nil, err
		}
		lines[i] = line
	}
	return lines, nil
}
