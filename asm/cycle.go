package asm

import (
	"github.com/vwr2a/sim/isa"
	"github.com/vwr2a/sim/machine"
)

// AssembleCycle parses one full cycle's seven mnemonic lines (LCU, LSU,
// MXCU, RC0..RC3) and reconciles the resources they share: all SRF reads
// and writes across the cycle must name the same index, and all RC VWR
// writes must target the same letter, since the hardware exposes only one
// agreed SRF index and one agreed VWR letter per cycle (MXCUWord.SRFSel and
// VWRSel). mxcuLine supplies only the MXCU's own ALU/register update; its
// SRFSel/SRFWe/VWRSel/VWRRowWe fields are filled in here.
func AssembleCycle(lcuLine, lsuLine, mxcuLine string, rcLines []string) (isa.CycleLine, error) {
	if len(rcLines) != machine.Rows {
		return isa.CycleLine{}, newErr(SlotRC, ErrOperandCount, "expected %d RC lines, got %d", machine.Rows, len(rcLines))
	}

	lcu, err := ParseLCU(lcuLine)
	if err != nil {
		return isa.CycleLine{}, err
	}
	lsu, err := ParseLSU(lsuLine)
	if err != nil {
		return isa.CycleLine{}, err
	}
	mxcuWord, err := ParseMXCU(mxcuLine)
	if err != nil {
		return isa.CycleLine{}, err
	}
	rcs := make([]parsedRC, machine.Rows)
	for r, l := range rcLines {
		rc, err := ParseRC(l)
		if err != nil {
			return isa.CycleLine{}, err
		}
		rcs[r] = rc
	}

	line := isa.NewCycleLine(machine.Rows)
	line.LCU = lcu.Word
	line.LSU = lsu.Word
	for r, rc := range rcs {
		line.RC[r] = rc.Word
	}

	srfIdx, writer, err := reconcileSRF(lcu, lsu, rcs)
	if err != nil {
		return isa.CycleLine{}, err
	}
	vwrLetter, rowWe, err := reconcileVWR(rcs)
	if err != nil {
		return isa.CycleLine{}, err
	}

	mxcuWord.SRFSel = uint32(srfIdx)
	mxcuWord.SRFWe = writer != isa.SRFWriterNone
	mxcuWord.VWRSel = uint32(vwrLetter)
	mxcuWord.VWRRowWe = rowWe
	line.MXCU = mxcuWord
	line.SRFWriter = writer

	return line, nil
}

// reconcileSRF checks that every SRF read and write named across the
// cycle's slots agrees on a single index, and determines which slot (if
// any) supplies the value written to the SRF this cycle.
func reconcileSRF(lcu parsedLCU, lsu parsedLSU, rcs []parsedRC) (int, isa.SRFWriter, error) {
	idx := -1
	agree := func(v int) error {
		if v < 0 {
			return nil
		}
		if idx == -1 {
			idx = v
			return nil
		}
		if idx != v {
			return newErr(SlotMXCU, ErrSRFConflict, "SRF index conflict: %d vs %d", idx, v)
		}
		return nil
	}

	if err := agree(lcu.SRFRead); err != nil {
		return 0, isa.SRFWriterNone, err
	}
	if err := agree(lcu.SRFWrite); err != nil {
		return 0, isa.SRFWriterNone, err
	}
	if err := agree(lsu.SRFRead); err != nil {
		return 0, isa.SRFWriterNone, err
	}
	if err := agree(lsu.SRFWrite); err != nil {
		return 0, isa.SRFWriterNone, err
	}
	for _, rc := range rcs {
		if err := agree(rc.SRFRead); err != nil {
			return 0, isa.SRFWriterNone, err
		}
		if err := agree(rc.SRFWrite); err != nil {
			return 0, isa.SRFWriterNone, err
		}
	}

	writer := isa.SRFWriterNone
	writerCount := 0
	noteWriter := func(w isa.SRFWriter, wrote bool) error {
		if !wrote {
			return nil
		}
		writerCount++
		if writerCount > 1 {
			return newErr(SlotMXCU, ErrSRFConflict, "multiple slots write the SRF this cycle")
		}
		writer = w
		return nil
	}
	if err := noteWriter(isa.SRFWriterLCU, lcu.SRFWrite != -1); err != nil {
		return 0, isa.SRFWriterNone, err
	}
	if err := noteWriter(isa.SRFWriterLSU, lsu.SRFWrite != -1); err != nil {
		return 0, isa.SRFWriterNone, err
	}
	for r, rc := range rcs {
		if err := noteWriter(isa.SRFWriterRC0+isa.SRFWriter(r), rc.SRFWrite != -1); err != nil {
			return 0, isa.SRFWriterNone, err
		}
	}

	if idx == -1 {
		idx = 0
	}
	return idx, writer, nil
}

// reconcileVWR checks that every RC writing to a VWR this cycle agrees on
// the letter, and builds the per-row write-enable bitmap (bit r set iff
// row r writes its ALU result to the agreed VWR). A zero rowWe means no RC
// wrote a VWR this cycle.
func reconcileVWR(rcs []parsedRC) (machine.VWRLetter, uint32, error) {
	letter := machine.VWRA
	any := false
	var rowWe uint32
	for r, rc := range rcs {
		if !rc.VWRWe {
			continue
		}
		if any && rc.VWRWrite != letter {
			return 0, 0, newErr(SlotMXCU, ErrVWRConflict, "VWR letter conflict: %s vs %s", letter, rc.VWRWrite)
		}
		letter = rc.VWRWrite
		any = true
		rowWe |= 1 << uint(r)
	}
	return letter, rowWe, nil
}
