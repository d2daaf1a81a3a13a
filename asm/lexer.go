package asm

import "strings"

// Tokenize splits one slot's mnemonic text into its opcode and operand
// tokens. Commas and whitespace are both separators, mirroring the
// original assembler's `instr.replace(",", " ").split()`.
func Tokenize(line string) []string {
	line = strings.ReplaceAll(line, ",", " ")
	return strings.Fields(line)
}
