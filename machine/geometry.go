// Package machine holds the VWR2A array's geometry and the register files,
// very-wide registers, and scratchpad memory shared within and across
// columns.
package machine

// Fixed machine geometry, per the hardware this simulator targets.
const (
	Cols = 2 // number of columns
	Rows = 4 // RCs per column

	VWRLanes  = 128 // words per very-wide register
	SRFRegs   = 8    // 32-bit registers per column SRF
	SPMLines  = 64   // scratchpad lines
	SPMWords  = 128   // words per scratchpad line
	IMEMLines = 512  // instruction memory lines (per slot)
	KMEMSlots = 15   // kernel descriptors

	LCURegs  = 4
	LSURegs  = 8
	RCRegs   = 2
	MXCURegs = 8
)

// VWRLetter names one of the three very-wide registers of a column.
type VWRLetter int

const (
	VWRA VWRLetter = iota
	VWRB
	VWRC
)

// String renders the VWR letter the way mnemonics spell it.
func (l VWRLetter) String() string {
	switch l {
	case VWRA:
		return "A"
	case VWRB:
		return "B"
	case VWRC:
		return "C"
	default:
		return "?"
	}
}

// LastLaneIndex is the LCU's LAST literal: the last lane index of a VWR
// slice spread across Rows rows.
const LastLaneIndex = VWRLanes/Rows - 1
