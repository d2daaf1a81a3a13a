// Command vwr2a assembles, runs, disassembles, and inspects VWR2A CGRA
// kernels described by a kernel workspace directory (a kmem.toml manifest
// plus one instructions_asm<version>.csv/instructions_hex<version>.csv pair
// per kernel subdirectory).
package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vwr2a/sim/asm"
	"github.com/vwr2a/sim/config"
	"github.com/vwr2a/sim/engine"
	"github.com/vwr2a/sim/inspector"
	"github.com/vwr2a/sim/isa"
	"github.com/vwr2a/sim/kernel"
	"github.com/vwr2a/sim/machine"
)

var (
	cfgPath   string
	version   string
	kernelIdx int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "vwr2a",
		Short: "Assembler, simulator, and inspector for the VWR2A CGRA",
	}
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file path (default: platform config dir)")
	rootCmd.PersistentFlags().StringVar(&version, "version", "", "kernel CSV version suffix, e.g. _v2")
	rootCmd.PersistentFlags().IntVar(&kernelIdx, "kernel", 0, "kernel index within the workspace's kmem.toml manifest")

	rootCmd.AddCommand(assembleCmd(), runCmd(), disasmCmd(), inspectCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if cfgPath != "" {
		return config.LoadFrom(cfgPath)
	}
	return config.Load()
}

// openKernel resolves <dir>'s manifest entry for --kernel and returns its
// Descriptor and the kernel.Directory over its CSV pair.
func openKernel(dir string) (kernel.Descriptor, *kernel.Directory, error) {
	manifest, err := kernel.LoadManifest(filepath.Join(dir, "kmem.toml"))
	if err != nil {
		return kernel.Descriptor{}, nil, err
	}
	desc, subdir, err := manifest.Descriptor(kernelIdx)
	if err != nil {
		return kernel.Descriptor{}, nil, err
	}
	return desc, kernel.NewDirectory(filepath.Join(dir, subdir), version), nil
}

func assembleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "assemble <dir>",
		Short: "Assemble instructions_asm<version>.csv into instructions_hex<version>.csv and dsip_bitstream.h",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			dir := args[0]
			desc, d, err := openKernel(dir)
			if err != nil {
				return err
			}

			lines, err := d.ReadAsm(desc)
			if err != nil {
				return reportAssembleError(cfg, err)
			}
			if err := d.WriteHex(desc, lines); err != nil {
				return err
			}

			imem := isa.NewIMEM(len(lines), machine.Rows)
			copy(imem.Lines, lines)
			headerPath := filepath.Join(d.Path, "dsip_bitstream.h")
			if err := kernel.WriteHeader(headerPath, imem); err != nil {
				return err
			}

			fmt.Printf("assembled %d cycles -> %s\n", len(lines), headerPath)
			return nil
		},
	}
}

// reportAssembleError returns err unchanged unless it is an SRF or VWR
// conflict (asm.ErrSRFConflict / asm.ErrVWRConflict) whose
// config.Assembler.StrictSRF / StrictVWR toggle is off; that conflict is
// printed as a warning and nil is returned. The kernel is not assembled in
// either case, so no hex CSV or header is written.
func reportAssembleError(cfg *config.Config, err error) error {
	var ae *asm.AssembleError
	if !errors.As(err, &ae) {
		return err
	}
	switch ae.Kind {
	case asm.ErrSRFConflict:
		if !cfg.Assembler.StrictSRF {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
			return nil
		}
	case asm.ErrVWRConflict:
		if !cfg.Assembler.StrictVWR {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
			return nil
		}
	}
	return err
}

func runCmd() *cobra.Command {
	var maxCycles uint64
	var verbose bool

	cmd := &cobra.Command{
		Use:   "run <dir>",
		Short: "Run a kernel's assembled hex program to completion",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if maxCycles == 0 {
				maxCycles = cfg.Run.MaxCycles
			}

			e, _, err := buildEngine(args[0])
			if err != nil {
				return err
			}
			e.MaxSteps = int(maxCycles)
			if verbose || cfg.Run.EnableTrace {
				e.Logger = log.New(os.Stdout, "", 0)
			}

			result, err := e.Run()
			if err != nil {
				return err
			}
			fmt.Printf("%s after %d cycles (pc=%d)\n", result.Reason, result.Cycles, result.PC)
			return nil
		},
	}
	cmd.Flags().Uint64Var(&maxCycles, "max-cycles", 0, "override the configured cycle limit (0 = use config)")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "trace every cycle's LCU mnemonic to stdout")
	return cmd
}

// buildEngine assembles <dir>'s selected kernel from its mnemonic CSV and
// loads it into a fresh engine.
func buildEngine(dir string) (*engine.Engine, kernel.Descriptor, error) {
	desc, d, err := openKernel(dir)
	if err != nil {
		return nil, kernel.Descriptor{}, err
	}
	lines, err := d.ReadAsm(desc)
	if err != nil {
		return nil, kernel.Descriptor{}, err
	}

	imem := isa.NewIMEM(desc.IMEMStart+desc.NInstr, machine.Rows)
	copy(imem.Lines[desc.IMEMStart:desc.IMEMStart+desc.NInstr], lines)

	e := engine.NewEngine()
	if err := e.LoadKernel(imem, desc.ToKMEMWord()); err != nil {
		return nil, kernel.Descriptor{}, err
	}
	return e, desc, nil
}

func disasmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disasm <dir>",
		Short: "Print the per-cycle mnemonic table of instructions_asm<version>.csv, assembled then disassembled",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			desc, d, err := openKernel(args[0])
			if err != nil {
				return err
			}
			lines, err := d.ReadAsm(desc)
			if err != nil {
				return err
			}
			for i, line := range lines {
				row := asm.DisassembleCycle(line)
				fmt.Printf("%4d: %-20s %-20s %-20s %s %s %s %s\n",
					i, row[0], row[1], row[2], row[3], row[4], row[5], row[6])
			}
			return nil
		},
	}
}

func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <dir>",
		Short: "Run a kernel and open the terminal inspector over the recorded trace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			e, _, err := buildEngine(args[0])
			if err != nil {
				return err
			}
			e.MaxSteps = int(cfg.Run.MaxCycles)

			tr, err := inspector.Record(e)
			if err != nil {
				return err
			}
			insp := inspector.New(tr, e)
			return insp.Run()
		},
	}
}
