package isa

// KMEMWidth is the bit width of a packed kernel configuration word.
const KMEMWidth uint = 9 + 9 + 2 + 6

// kmemFieldWidths lists the KMEM word's fields, MSB first: n_instr,
// imem_start_addr, col_usage, srf_spm_bank.
var kmemFieldWidths = []uint{9, 9, 2, 6}

// ColUsage is the one-hot column-usage code stored in a kernel descriptor.
type ColUsage uint32

const (
	ColUsageCol0 ColUsage = 1 // only column 0
	ColUsageCol1 ColUsage = 2 // only column 1
	ColUsageBoth ColUsage = 3 // both columns
)

// Columns returns the (first, last) inclusive column indices this usage
// code selects.
func (c ColUsage) Columns() (first, last int) {
	switch c {
	case ColUsageCol0:
		return 0, 0
	case ColUsageCol1:
		return 1, 1
	default:
		return 0, 1
	}
}

// KMEMWord is a kernel configuration descriptor: the number of instructions
// per column, the IMEM start address, which columns run the kernel, and
// which SPM bank the kernel's SRF spill region occupies.
type KMEMWord struct {
	NInstr       uint32
	IMEMStart    uint32
	ColUsage     ColUsage
	SRFSPMBank   uint32
}

// Encode packs w into its wire representation.
func (w KMEMWord) Encode() (uint32, error) {
	values := []uint32{w.NInstr, w.IMEMStart, uint32(w.ColUsage), w.SRFSPMBank}
	return pack(values, kmemFieldWidths)
}

// DecodeKMEMHex parses a hex-string KMEM word (zero-extended to KMEMWidth)
// into its fields.
func DecodeKMEMHex(hexWord string) (KMEMWord, error) {
	word, err := decodeHex(hexWord, KMEMWidth)
	if err != nil {
		return KMEMWord{}, err
	}
	return DecodeKMEM(word), nil
}

// DecodeKMEM splits a packed word into its fields.
func DecodeKMEM(word uint32) KMEMWord {
	v := unpack(word, kmemFieldWidths)
	return KMEMWord{
		NInstr:     v[0],
		IMEMStart:  v[1],
		ColUsage:   ColUsage(v[2]),
		SRFSPMBank: v[3],
	}
}

// HexString renders w's packed word as a "0x"-prefixed hex string.
func (w KMEMWord) HexString() (string, error) {
	word, err := w.Encode()
	if err != nil {
		return "", err
	}
	return hexString(word, KMEMWidth), nil
}
