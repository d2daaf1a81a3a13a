package kernel

import (
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/vwr2a/sim/isa"
)

const headerTemplate = `#ifndef _DSIP_BITSTREAM_H_
#define _DSIP_BITSTREAM_H_

#include <stdint.h>

#include "dsip.h"

uint32_t dsip_lcu_imem_bitstream[DSIP_IMEM_SIZE] = {
{{join .LCU}}
};

uint32_t dsip_lsu_imem_bitstream[DSIP_IMEM_SIZE] = {
{{join .LSU}}
};

uint32_t dsip_mxcu_imem_bitstream[DSIP_IMEM_SIZE] = {
{{join .MXCU}}
};

uint32_t dsip_rcs_imem_bitstream[4*DSIP_IMEM_SIZE] = {
{{join .RC}}
};

#endif // _DSIP_BITSTREAM_H_
`

var headerTmpl = template.Must(template.New("dsip_bitstream.h").Funcs(template.FuncMap{
	"join": func(words []string) string { return "  " + strings.Join(words, ",\n  ") },
}).Parse(headerTemplate))

type headerData struct {
	LCU, LSU, MXCU, RC []string
}

// WriteHeader renders every line of imem (one flat array per non-RC slot
// with len(imem.Lines) words, and the RC words of all rows concatenated row
// by row) as dsip_bitstream.h, matching
// the original's create_header_file layout, via a declarative template
// rather than four hand-unrolled write loops.
func WriteHeader(path string, imem *isa.IMEM) error {
	data := headerData{
		LCU:  make([]string, len(imem.Lines)),
		LSU:  make([]string, len(imem.Lines)),
		MXCU: make([]string, len(imem.Lines)),
	}
	for i, line := range imem.Lines {
		var err error
		if data.LCU[i], err = line.LCU.HexString(); err != nil {
			return fmt.Errorf("kernel: encode LCU line %d: %w", i, err)
		}
		if data.LSU[i], err = line.LSU.HexString(); err != nil {
			return fmt.Errorf("kernel: encode LSU line %d: %w", i, err)
		}
		if data.MXCU[i], err = line.MXCU.HexString(); err != nil {
			return fmt.Errorf("kernel: encode MXCU line %d: %w", i, err)
		}
	}
	if len(imem.Lines) > 0 {
		rows := len(imem.Lines[0].RC)
		data.RC = make([]string, 0, rows*len(imem.Lines))
		for row := 0; row < rows; row++ {
			for i, line := range imem.Lines {
				hex, err := line.RC[row].HexString()
				if err != nil {
					return fmt.Errorf("kernel: encode RC%d line %d: %w", row, i, err)
				}
				data.RC = append(data.RC, hex)
			}
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("kernel: create %s: %w", path, err)
	}
	defer f.Close()
	if err := headerTmpl.Execute(f, data); err != nil {
		return fmt.Errorf("kernel: render %s: %w", path, err)
	}
	return nil
}
