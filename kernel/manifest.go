package kernel

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/vwr2a/sim/isa"
)

// ManifestEntry names one kernel's subdirectory (holding its
// instructions_asm/hex CSV pair) together with the KMEM descriptor fields
// that pick its instruction window, active columns, and SPM bank out of the
// shared array state.
type ManifestEntry struct {
	Dir        string `toml:"dir"`
	NInstr     int    `toml:"n_instr"`
	IMEMStart  int    `toml:"imem_start"`
	ColUsage   uint32 `toml:"col_usage"` // 1=col0, 2=col1, 3=both; see isa.ColUsage
	SRFSPMBank int    `toml:"srf_spm_bank"`
}

// Manifest lists the (up to machine.KMEMSlots) kernels configured for one
// array workspace. spec.md describes the KMEM descriptor table as "written
// once by configuration and read each run" rather than per-kernel-file; this
// TOML manifest is that configuration step, one entry per KMEM slot, giving
// the `--kernel n` CLI flag something concrete to index.
type Manifest struct {
	Kernels []ManifestEntry `toml:"kernel"`
}

// LoadManifest reads a kernel manifest from path.
func LoadManifest(path string) (*Manifest, error) {
	var m Manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, fmt.Errorf("kernel: decode manifest %s: %w", path, err)
	}
	return &m, nil
}

// Descriptor returns the Descriptor and subdirectory name for the index'th
// entry (the KMEM slot selected by --kernel n).
func (m *Manifest) Descriptor(index int) (Descriptor, string, error) {
	if index < 0 || index >= len(m.Kernels) {
		return Descriptor{}, "", fmt.Errorf("kernel: kernel index %d out of range (have %d)", index, len(m.Kernels))
	}
	e := m.Kernels[index]
	return Descriptor{
		NInstr:     e.NInstr,
		IMEMStart:  e.IMEMStart,
		ColUsage:   isa.ColUsage(e.ColUsage),
		SRFSPMBank: e.SRFSPMBank,
	}, e.Dir, nil
}
