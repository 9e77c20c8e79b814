package bibtex

import (
	"bufio"
	"bytes"
	"io"
)

// Write serializes the library. Blocks are separated by one blank line and entry fields
// are indented by two spaces.
func Write(w io.Writer, lib *Library) error {
	bw := bufio.NewWriter(w)
	for i, b := range lib.Blocks {
		if i > 0 {
			bw.WriteByte('\n')
		}
		if b.IsEntry() {
			writeEntry(bw, b.Entry)
			continue
		}
		bw.WriteString(b.Raw)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// Format returns the serialized library.
func Format(lib *Library) []byte {
	var buf bytes.Buffer
	_ = Write(&buf, lib)
	return buf.Bytes()
}

func writeEntry(w *bufio.Writer, e *Entry) {
	w.WriteString("@" + e.Type + "{" + e.Key + ",\n")
	for i, f := range e.Fields {
		w.WriteString("  " + f.Name + " = " + enclose(f))
		if i < len(e.Fields)-1 {
			w.WriteByte(',')
		}
		w.WriteByte('\n')
	}
	w.WriteString("}\n")
}

func enclose(f Field) string {
	switch f.Delim {
	case Quotes:
		return `"` + f.Value + `"`
	case Bare:
		return f.Value
	default:
		return "{" + f.Value + "}"
	}
}
