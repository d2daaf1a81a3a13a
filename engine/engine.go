package engine

import (
	"fmt"
	"log"

	"github.com/vwr2a/sim/alu"
	"github.com/vwr2a/sim/isa"
	"github.com/vwr2a/sim/machine"
)

// ExitReason distinguishes how a kernel run ended.
type ExitReason int

const (
	ExitEOF       ExitReason = iota // pc reached n_instr without an EXIT
	ExitNormal                      // a column's LCU executed EXIT
	ExitStepLimit                   // the configured step limit was reached first
)

func (r ExitReason) String() string {
	switch r {
	case ExitNormal:
		return "exit"
	case ExitStepLimit:
		return "step-limit"
	default:
		return "eof"
	}
}

// RunResult summarizes a completed kernel run.
type RunResult struct {
	Reason ExitReason
	Cycles int
	PC     int
}

// Engine is the lockstep cycle engine: it owns both columns' state and the
// SPM shared across them, and drives a loaded kernel to completion.
type Engine struct {
	Columns  [machine.Cols]*ColumnState
	SPM      *machine.SPM
	PC       int
	NInstr   int
	BankBase int

	MaxSteps int // 0 = unlimited
	Logger   *log.Logger
}

// NewEngine returns an engine with both columns allocated and inactive.
func NewEngine() *Engine {
	e := &Engine{SPM: &machine.SPM{}}
	for c := range e.Columns {
		e.Columns[c] = NewColumnState()
	}
	return e
}

// LoadKernel copies the kernel's instruction window into its active
// columns, seeds LSU.R7 with the kernel's SRF/SPM bank, and resets pc to 0.
// Per-slot local registers are left untouched: spec.md's lifecycle rule is
// that they persist across kernel runs unless the driver explicitly clears
// them.
func (e *Engine) LoadKernel(imem *isa.IMEM, desc isa.KMEMWord) error {
	base := int(desc.IMEMStart)
	n := int(desc.NInstr)
	if base < 0 || n < 0 || base+n > len(imem.Lines) {
		return fmt.Errorf("engine: kernel window [%d,%d) out of range for %d-line IMEM", base, base+n, len(imem.Lines))
	}
	first, last := desc.ColUsage.Columns()
	for c := 0; c < machine.Cols; c++ {
		cs := e.Columns[c]
		cs.Active = c >= first && c <= last
		if !cs.Active {
			continue
		}
		cs.IMEM = imem.Lines[base : base+n]
		cs.LSU.Regs[7] = int32(desc.SRFSPMBank)
	}
	e.PC = 0
	e.NInstr = n
	e.BankBase = machine.BankBase(int(desc.SRFSPMBank))
	return nil
}

// Run drives the loaded kernel to completion: EXIT, the step limit, or
// falling off the end of the instruction window.
func (e *Engine) Run() (RunResult, error) {
	steps := 0
	for e.PC < e.NInstr {
		if e.MaxSteps > 0 && steps >= e.MaxSteps {
			return RunResult{Reason: ExitStepLimit, Cycles: steps, PC: e.PC}, nil
		}
		exited, err := e.Step()
		if err != nil {
			return RunResult{Reason: ExitEOF, Cycles: steps, PC: e.PC}, err
		}
		steps++
		if exited {
			return RunResult{Reason: ExitNormal, Cycles: steps, PC: e.PC}, nil
		}
	}
	return RunResult{Reason: ExitEOF, Cycles: steps, PC: e.PC}, nil
}

// cycleState is one active column's computed-but-not-yet-committed results
// for the cycle in progress.
type cycleState struct {
	lsu  lsuOutput
	mxcu mxcuOutput
	rc   [machine.Rows]rcOutput
	lcu  lcuOutput
	line isa.CycleLine
}

// Step executes a single cycle across all active columns and commits the
// result. It returns true if some column's LCU raised EXIT.
func (e *Engine) Step() (bool, error) {
	neighbours := e.snapshotNeighbours()
	var results [machine.Cols]*cycleState

	for c := 0; c < machine.Cols; c++ {
		cs := e.Columns[c]
		if !cs.Active {
			continue
		}
		line := cs.IMEM[e.PC]
		cycle, err := e.computeColumn(c, cs, line, neighbours)
		if err != nil {
			return false, err
		}
		results[c] = cycle
	}

	branches := 0
	var branchPC uint32
	exited := false
	for c := 0; c < machine.Cols; c++ {
		cycle := results[c]
		if cycle == nil {
			continue
		}
		if cycle.lcu.Exit {
			exited = true
		}
		if cycle.lcu.BranchTaken {
			branches++
			branchPC = cycle.lcu.BranchPC
		}
	}
	if branches > 1 {
		return false, &RuntimeError{PC: e.PC, Column: -1, Slot: SlotLCU, Err: ErrTwoBranches}
	}

	for c := 0; c < machine.Cols; c++ {
		if results[c] != nil {
			e.commit(e.Columns[c], results[c])
		}
	}

	e.logCycle(results)

	switch {
	case exited:
		return true, nil
	case branches == 1:
		e.PC = int(branchPC)
	default:
		e.PC++
	}
	return false, nil
}

// computeColumn runs LSU, MXCU, the four RCs, then the LCU (in that order,
// per spec.md §4.8) against the column's pre-cycle state, returning the
// staged results for commit. Nothing here mutates cs.
func (e *Engine) computeColumn(col int, cs *ColumnState, line isa.CycleLine, neighbours neighbourSnapshot) (*cycleState, error) {
	srfSnapshot := cs.Shared.SRF.Regs[line.MXCU.SRFSel]

	var vwrRead [3]int32
	for letter := uint32(0); letter < 3; letter++ {
		idx := vwrLaneIndex(cs.MXCU, letter)
		v, err := cs.Shared.VWR(machine.VWRLetter(letter)).At(idx)
		if err != nil {
			return nil, &RuntimeError{PC: e.PC, Column: col, Slot: SlotMXCU, Err: err}
		}
		vwrRead[letter] = v
	}

	cycle := &cycleState{line: line}

	lsuOut, err := runLSU(cs.LSU, line.LSU, lsuReads{SRF: srfSnapshot, SPM: e.SPM, BankBase: e.BankBase})
	if err != nil {
		return nil, &RuntimeError{PC: e.PC, Column: col, Slot: SlotLSU, Err: err}
	}
	cycle.lsu = lsuOut

	mxcuOut, err := runMXCU(cs.MXCU, line.MXCU)
	if err != nil {
		return nil, &RuntimeError{PC: e.PC, Column: col, Slot: SlotMXCU, Err: err}
	}
	cycle.mxcu = mxcuOut

	for r := 0; r < machine.Rows; r++ {
		reads := rcReads{VWR: vwrRead, SRF: srfSnapshot, Neighbours: neighbours, Row: r, Col: col}
		rcOut, err := runRC(cs.RCs[r], line.RC[r], reads)
		if err != nil {
			return nil, &RuntimeError{PC: e.PC, Column: col, Slot: SlotRC, Row: r, Err: err}
		}
		cycle.rc[r] = rcOut
	}

	var rcFlag [machine.Rows]alu.ALU
	for r := 0; r < machine.Rows; r++ {
		rcFlag[r] = cycle.rc[r].ALU
	}
	lcuOut, err := runLCU(cs.LCU, line.LCU, lcuReads{SRF: srfSnapshot, RCFlag: rcFlag})
	if err != nil {
		return nil, &RuntimeError{PC: e.PC, Column: col, Slot: SlotLCU, Err: err}
	}
	cycle.lcu = lcuOut

	return cycle, nil
}

// commit applies one column's computed cycle to its live state: local
// register writes, SRF/VWR writes, and SPM writes, all simultaneously from
// the engine's point of view (no intermediate state is observable).
func (e *Engine) commit(cs *ColumnState, cycle *cycleState) {
	if cycle.lcu.RegWe {
		cs.LCU.Regs[cycle.lcu.RegIdx] = cycle.lcu.RegVal
	}

	cs.LSU.InCursor = cycle.lsu.InCursor
	cs.LSU.OutCursor = cycle.lsu.OutCursor
	if cycle.lsu.RegWe {
		cs.LSU.Regs[cycle.lsu.RegIdx] = cycle.lsu.RegVal
	}
	if cycle.lsu.SPMWrite {
		_ = e.SPM.Set(cycle.lsu.SPMAddr, cycle.lsu.SPMVal)
	}

	// The VWR write lane comes from the pre-cycle MXCU registers, so resolve
	// it before this cycle's MXCU register write lands.
	vwrIdx := vwrLaneIndex(cs.MXCU, cycle.line.MXCU.VWRSel)
	if cycle.mxcu.RegWe {
		cs.MXCU.Regs[cycle.mxcu.RegIdx] = cycle.mxcu.RegVal
	}

	for r := 0; r < machine.Rows; r++ {
		cs.RCs[r].ALU = cycle.rc[r].ALU
		if cycle.rc[r].RegWe {
			cs.RCs[r].Regs[cycle.rc[r].RegIdx] = cycle.rc[r].RegVal
		}
	}

	line := cycle.line
	if line.MXCU.SRFWe {
		cs.Shared.SRF.Regs[line.MXCU.SRFSel] = e.srfWriteValue(cycle)
	}
	if line.MXCU.VWRRowWe != 0 {
		letter := machine.VWRLetter(line.MXCU.VWRSel)
		for r := 0; r < machine.Rows; r++ {
			if line.MXCU.VWRRowWe&(1<<uint(r)) != 0 {
				_ = cs.Shared.VWR(letter).Set(vwrIdx, cycle.rc[r].ALU.Result)
			}
		}
	}
}

// srfWriteValue picks the value to write to the column SRF, identifying the
// writer via the cycle line's assembler-derived SRFWriter metadata (see
// isa.SRFWriter doc).
func (e *Engine) srfWriteValue(cycle *cycleState) int32 {
	switch cycle.line.SRFWriter {
	case isa.SRFWriterLCU:
		return cycle.lcu.RegVal
	case isa.SRFWriterLSU:
		return cycle.lsu.RegVal
	default:
		if row := cycle.line.SRFWriter.RCRow(); row >= 0 {
			return cycle.rc[row].ALU.Result
		}
		return 0
	}
}

func (e *Engine) logCycle(results [machine.Cols]*cycleState) {
	if e.Logger == nil {
		return
	}
	for c, cycle := range results {
		if cycle == nil {
			continue
		}
		e.Logger.Printf("pc=%d col=%d lcu=%s", e.PC, c, cycle.line.LCU.String(int(cycle.line.MXCU.SRFSel)))
	}
}
