package source

import (
	"path/filepath"
	"slices"
)

// normalizeCRLF replaces every \r\n with \n and leaves lone \r untouched.
func normalizeCRLF(content []byte) ([]byte, bool) {
	if !slices.Contains(content, '\r') {
		return content, false
	}

	out := make([]byte, 0, len(content))
	changed := false

	i := 0
	for i < len(content) {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			out = append(out, '\n')
			i += 2
			changed = true
		} else {
			out = append(out, content[i])
			i++
		}
	}
	return out, changed
}

func removeBOM(content []byte) ([]byte, bool) {
	if len(content) < 3 {
		return content, false
	}

	if content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:], true
	}

	return content, false
}

func buildLineIndex(content []byte) []uint32 {
	out := make([]uint32, 0, len(content)/32+1)
	for i, b := range content {
		if b == '\n' {
			out = append(out, uint32(i)) //nolint:gosec // file sizes are checked by FileSet.Add
		}
	}
	return out
}

// toLineCol maps an offset to a position. lineIdx holds the offsets of '\n';
// the newline byte itself belongs to the line it terminates.
func toLineCol(lineIdx []uint32, off uint32) LineCol {
	// число переводов строки строго до off
	lo, hi := 0, len(lineIdx)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if lineIdx[mid] < off {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	var startOff uint32
	if lo > 0 {
		startOff = lineIdx[lo-1] + 1
	}
	return LineCol{Line: uint32(lo + 1), Col: off - startOff + 1} //nolint:gosec // lo <= len(lineIdx)
}

func normalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}
