package reader

import (
	"bytes"
	"fmt"
	"strconv"
)

// xrefEntry is one slot of the cross-reference table.
type xrefEntry struct {
	Offset     int64
	Generation int
	InUse      bool
}

// xrefTable maps object numbers to their file offsets.
type xrefTable map[int]xrefEntry

// startXRefOffset finds the table offset recorded after the startxref
// keyword near the end of the file.
func startXRefOffset(data []byte) (int64, error) {
	tail := data
	if len(tail) > 1024 {
		tail = tail[len(tail)-1024:]
	}
	idx := bytes.LastIndex(tail, []byte("startxref"))
	if idx < 0 {
		return 0, fmt.Errorf("reader: startxref not found")
	}
	l := lex(tail[idx+len("startxref"):])
	off, err := strconv.ParseInt(l.token(), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("reader: bad startxref offset: %w", err)
	}
	return off, nil
}

// readXRef parses the classic cross-reference table at the given offset,
// plus the trailer dictionary that follows it. The assembler writes a
// single table covering every object; cross-reference streams (PDF 1.5)
// and incremental-update chains are rejected.
func readXRef(data []byte, offset int64) (xrefTable, Dict, error) {
	if offset < 0 || int(offset) >= len(data) {
		return nil, nil, fmt.Errorf("reader: xref offset %d out of bounds", offset)
	}
	l := lex(data[offset:])
	l.skipSpace()
	if !l.lit("xref") {
		return nil, nil, fmt.Errorf("reader: no xref table at offset %d (cross-reference streams are not supported)", offset)
	}

	table := make(xrefTable)
	for {
		l.skipSpace()
		if l.eof() {
			return nil, nil, fmt.Errorf("reader: xref table has no trailer")
		}
		if l.lit("trailer") {
			break
		}
		first, err := strconv.Atoi(l.token())
		if err != nil {
			return nil, nil, fmt.Errorf("reader: xref subsection start: %w", err)
		}
		count, err := strconv.Atoi(l.token())
		if err != nil {
			return nil, nil, fmt.Errorf("reader: xref subsection count: %w", err)
		}
		for i := 0; i < count; i++ {
			off, err := strconv.ParseInt(l.token(), 10, 64)
			if err != nil {
				return nil, nil, fmt.Errorf("reader: xref entry offset: %w", err)
			}
			gen, err := strconv.Atoi(l.token())
			if err != nil {
				return nil, nil, fmt.Errorf("reader: xref entry generation: %w", err)
			}
			kind := l.token()
			table[first+i] = xrefEntry{Offset: off, Generation: gen, InUse: kind == "n"}
		}
	}

	obj, err := l.value()
	if err != nil {
		return nil, nil, fmt.Errorf("reader: trailer: %w", err)
	}
	trailer, ok := obj.(Dict)
	if !ok {
		return nil, nil, fmt.Errorf("reader: trailer is not a dictionary")
	}
	if _, hasPrev := trailer["Prev"]; hasPrev {
		return nil, nil, fmt.Errorf("reader: incrementally updated files are not supported")
	}
	return table, trailer, nil
}
