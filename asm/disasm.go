package asm

import "github.com/vwr2a/sim/isa"

// DisassembleCycle renders one CycleLine back to its seven mnemonic lines
// (LCU, LSU, MXCU, RC0..RC3), in the same column order AssembleCycle
// consumes. The MXCU's agreed SRF index and VWR letter, carried on the word
// itself, are threaded through to each RC's disassembly so SRF(n) and
// VWR_X render with the cycle's actual resolved values rather than a
// placeholder.
func DisassembleCycle(line isa.CycleLine) [3 + 4]string {
	srfSel := int(line.MXCU.SRFSel)
	vwrLetter := line.MXCU.VWRLetterName()

	var out [3 + 4]string
	out[0] = line.LCU.String(srfSel)
	out[1] = line.LSU.String(srfSel)
	out[2] = line.MXCU.String()
	for r, rc := range line.RC {
		vwrWrite := line.MXCU.VWRRowWe&(1<<uint(r)) != 0
		srfWrite := line.SRFWriter == isa.SRFWriterRC0+isa.SRFWriter(r)
		out[3+r] = rc.String(srfSel, srfWrite, vwrLetter, vwrWrite)
	}
	return out
}
