package exfatprobe

import (
	"fmt"
	"strings"
)

const dumpBytesPerLine = 16

// Dump renders up to max bytes of data as classic hex dump lines, a
// hex column of 16 bytes followed by an ASCII column:
//
//	0000: 83 05 52 00 49 00 4D 00 44 00 49 00 53 00 4B 00  | ..R.I.M.D.I.S.K.
//
// Bytes outside the printable ASCII range show up as a dot.
func Dump(data []byte, max int) string {
	if max > len(data) {
		max = len(data)
	}

	var out strings.Builder

	for i := 0; i < max; i += dumpBytesPerLine {
		end := i + dumpBytesPerLine
		if end > max {
			end = max
		}
		line := data[i:end]

		hexColumn := make([]string, len(line))
		asciiColumn := make([]byte, len(line))
		for j, c := range line {
			hexColumn[j] = fmt.Sprintf("%02X", c)
			if c >= 32 && c <= 126 {
				asciiColumn[j] = c
			} else {
				asciiColumn[j] = '.'
			}
		}

		fmt.Fprintf(&out, "%04X: %-48s | %s\n", i, strings.Join(hexColumn, " "), asciiColumn)
	}

	return out.String()
}
