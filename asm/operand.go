package asm

import (
	"regexp"
	"strconv"

	"github.com/vwr2a/sim/machine"
)

// OperandKind classifies one parsed operand token, spanning every token
// shape used across the four slots' grammars (§4.2's
// `Rn | SRF(n) | VWR_{A,B,C} | RC{T,B,L,R} | ZERO|ONE|LAST|MAX_INT|MIN_INT |
// decimal`).
type OperandKind int

const (
	OperandReg OperandKind = iota
	OperandSRF
	OperandVWR
	OperandNeighbour
	OperandZero
	OperandOne
	OperandLast
	OperandMaxInt
	OperandMinInt
	OperandImm
)

// Operand is one parsed token, carrying whichever of Reg/SRFIndex/
// VWRLetter/Imm applies to its Kind.
type Operand struct {
	Kind      OperandKind
	Reg       int
	SRFIndex  int
	VWRLetter machine.VWRLetter
	Neighbour string // "RCT", "RCB", "RCL", "RCR"
	Imm       int64
}

var (
	regPattern = regexp.MustCompile(`^R(\d+)$`)
	srfPattern = regexp.MustCompile(`^SRF\((\d+)\)$`)
	vwrPattern = regexp.MustCompile(`^VWR_([ABC])$`)
)

var neighbourTokens = map[string]bool{"RCT": true, "RCB": true, "RCL": true, "RCR": true}

// parseOperand classifies a single operand token. Slot-specific code then
// decides whether the resulting Kind is legal in that operand position.
func parseOperand(tok string) (Operand, bool) {
	if m := regPattern.FindStringSubmatch(tok); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return Operand{}, false
		}
		return Operand{Kind: OperandReg, Reg: n}, true
	}
	if m := srfPattern.FindStringSubmatch(tok); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return Operand{}, false
		}
		return Operand{Kind: OperandSRF, SRFIndex: n}, true
	}
	if m := vwrPattern.FindStringSubmatch(tok); m != nil {
		letter := map[string]machine.VWRLetter{"A": machine.VWRA, "B": machine.VWRB, "C": machine.VWRC}[m[1]]
		return Operand{Kind: OperandVWR, VWRLetter: letter}, true
	}
	if neighbourTokens[tok] {
		return Operand{Kind: OperandNeighbour, Neighbour: tok}, true
	}
	switch tok {
	case "ZERO":
		return Operand{Kind: OperandZero}, true
	case "ONE":
		return Operand{Kind: OperandOne}, true
	case "LAST":
		return Operand{Kind: OperandLast}, true
	case "MAX_INT":
		return Operand{Kind: OperandMaxInt}, true
	case "MIN_INT":
		return Operand{Kind: OperandMinInt}, true
	}
	if n, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return Operand{Kind: OperandImm, Imm: n}, true
	}
	return Operand{}, false
}
