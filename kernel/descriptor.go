package kernel

import "github.com/vwr2a/sim/isa"

// Descriptor is a kernel's KMEM entry: how many instructions per column it
// runs, where its instruction window starts in the shared IMEM, which
// columns run it, and which SPM bank its SRF spill region occupies.
type Descriptor struct {
	NInstr     int
	IMEMStart  int
	ColUsage   isa.ColUsage
	SRFSPMBank int
}

// ToKMEMWord converts d to its packed-word representation.
func (d Descriptor) ToKMEMWord() isa.KMEMWord {
	return isa.KMEMWord{
		NInstr:     uint32(d.NInstr),
		IMEMStart:  uint32(d.IMEMStart),
		ColUsage:   d.ColUsage,
		SRFSPMBank: uint32(d.SRFSPMBank),
	}
}

// DescriptorFromKMEMWord converts a decoded KMEM word back to a Descriptor.
func DescriptorFromKMEMWord(w isa.KMEMWord) Descriptor {
	return Descriptor{
		NInstr:     int(w.NInstr),
		IMEMStart:  int(w.IMEMStart),
		ColUsage:   w.ColUsage,
		SRFSPMBank: int(w.SRFSPMBank),
	}
}

// ActiveColumns returns how many columns this descriptor's ColUsage runs on.
func (d Descriptor) ActiveColumns() int {
	first, last := d.ColUsage.Columns()
	return last - first + 1
}
