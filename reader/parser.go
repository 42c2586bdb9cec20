package reader

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
)

// lexer walks raw PDF bytes and produces objects. The export pipeline
// writes a small, regular subset of PDF 1.4, but object syntax is cheap to
// parse in full, so the lexer handles any well-formed object it meets.
type lexer struct {
	buf []byte
	off int
}

func lex(buf []byte) *lexer { return &lexer{buf: buf} }

func (l *lexer) eof() bool { return l.off >= len(l.buf) }

// skipSpace advances past whitespace and % comments.
func (l *lexer) skipSpace() {
	for !l.eof() {
		switch b := l.buf[l.off]; {
		case spaceChar(b):
			l.off++
		case b == '%':
			for !l.eof() && l.buf[l.off] != '\n' && l.buf[l.off] != '\r' {
				l.off++
			}
		default:
			return
		}
	}
}

// token reads a run of regular characters: a keyword or a number.
func (l *lexer) token() string {
	l.skipSpace()
	start := l.off
	for !l.eof() && regularChar(l.buf[l.off]) {
		l.off++
	}
	return string(l.buf[start:l.off])
}

// lit consumes the literal text when it is next, reporting whether it was.
func (l *lexer) lit(kw string) bool {
	if l.off+len(kw) <= len(l.buf) && string(l.buf[l.off:l.off+len(kw)]) == kw {
		l.off += len(kw)
		return true
	}
	return false
}

func spaceChar(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == 0
}

func delimChar(b byte) bool {
	switch b {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func regularChar(b byte) bool { return !spaceChar(b) && !delimChar(b) }

func hexDigit(b byte) (byte, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	}
	return 0, false
}

// value parses the next object.
func (l *lexer) value() (Object, error) {
	l.skipSpace()
	if l.eof() {
		return nil, io.ErrUnexpectedEOF
	}
	switch b := l.buf[l.off]; {
	case b == '/':
		return l.name()
	case b == '(':
		return l.literalString()
	case b == '<':
		if l.off+1 < len(l.buf) && l.buf[l.off+1] == '<' {
			return l.dict()
		}
		return l.hexString()
	case b == '[':
		return l.array()
	case b == '-' || b == '+' || b == '.' || (b >= '0' && b <= '9'):
		return l.numberOrRef()
	default:
		return l.keyword()
	}
}

// keyword parses the bare keywords: true, false, null.
func (l *lexer) keyword() (Object, error) {
	start := l.off
	switch l.token() {
	case "true":
		return Boolean(true), nil
	case "false":
		return Boolean(false), nil
	case "null":
		return Null{}, nil
	}
	return nil, fmt.Errorf("reader: unexpected token at offset %d", start)
}

// name parses /Name, including #xx hex escapes.
func (l *lexer) name() (Name, error) {
	if l.eof() || l.buf[l.off] != '/' {
		return "", fmt.Errorf("reader: expected name at offset %d", l.off)
	}
	l.off++
	var out bytes.Buffer
	for !l.eof() && regularChar(l.buf[l.off]) {
		b := l.buf[l.off]
		if b == '#' && l.off+2 < len(l.buf) {
			hi, okHi := hexDigit(l.buf[l.off+1])
			lo, okLo := hexDigit(l.buf[l.off+2])
			if okHi && okLo {
				out.WriteByte(hi<<4 | lo)
				l.off += 3
				continue
			}
		}
		out.WriteByte(b)
		l.off++
	}
	return Name(out.String()), nil
}

// numberOrRef parses an integer, a real, or an indirect reference in the
// "N G R" form.
func (l *lexer) numberOrRef() (Object, error) {
	start := l.off
	tok := l.token()
	n, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		l.off = start
		return l.real()
	}

	// A second integer followed by R turns the number into a reference.
	after := l.off
	l.skipSpace()
	if !l.eof() && l.buf[l.off] >= '0' && l.buf[l.off] <= '9' {
		if gen, err := strconv.ParseInt(l.token(), 10, 64); err == nil {
			l.skipSpace()
			if !l.eof() && l.buf[l.off] == 'R' {
				l.off++
				return Reference{Number: int(n), Generation: int(gen)}, nil
			}
		}
	}
	l.off = after
	return Integer(n), nil
}

func (l *lexer) real() (Object, error) {
	start := l.off
	tok := l.token()
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return nil, fmt.Errorf("reader: bad number %q at offset %d", tok, start)
	}
	return Real(v), nil
}

// literalString parses (text), honoring nesting, escapes and octal codes.
func (l *lexer) literalString() (String, error) {
	l.off++ // '('
	var out bytes.Buffer
	depth := 1
	for !l.eof() {
		b := l.buf[l.off]
		l.off++
		switch b {
		case '(':
			depth++
			out.WriteByte(b)
		case ')':
			depth--
			if depth == 0 {
				return String{Value: out.Bytes()}, nil
			}
			out.WriteByte(b)
		case '\\':
			if l.eof() {
				return String{}, fmt.Errorf("reader: dangling escape in string")
			}
			esc := l.buf[l.off]
			l.off++
			switch esc {
			case 'n':
				out.WriteByte('\n')
			case 'r':
				out.WriteByte('\r')
			case 't':
				out.WriteByte('\t')
			case 'b':
				out.WriteByte('\b')
			case 'f':
				out.WriteByte('\f')
			default:
				if esc >= '0' && esc <= '7' {
					v := int(esc - '0')
					for i := 0; i < 2 && !l.eof() && l.buf[l.off] >= '0' && l.buf[l.off] <= '7'; i++ {
						v = v*8 + int(l.buf[l.off]-'0')
						l.off++
					}
					out.WriteByte(byte(v))
				} else {
					out.WriteByte(esc)
				}
			}
		default:
			out.WriteByte(b)
		}
	}
	return String{}, fmt.Errorf("reader: unterminated string")
}

// hexString parses <hex digits>, ignoring embedded whitespace. An odd
// trailing nibble is padded with zero, as the format requires.
func (l *lexer) hexString() (String, error) {
	l.off++ // '<'
	var out bytes.Buffer
	var hi byte
	have := false
	for !l.eof() {
		b := l.buf[l.off]
		l.off++
		switch {
		case b == '>':
			if have {
				out.WriteByte(hi << 4)
			}
			return String{Value: out.Bytes(), IsHex: true}, nil
		case spaceChar(b):
		default:
			v, ok := hexDigit(b)
			if !ok {
				return String{}, fmt.Errorf("reader: bad hex digit %q in string", b)
			}
			if !have {
				hi, have = v, true
			} else {
				out.WriteByte(hi<<4 | v)
				have = false
			}
		}
	}
	return String{}, fmt.Errorf("reader: unterminated hex string")
}

func (l *lexer) array() (Array, error) {
	l.off++ // '['
	var arr Array
	for {
		l.skipSpace()
		if l.eof() {
			return nil, fmt.Errorf("reader: unterminated array")
		}
		if l.buf[l.off] == ']' {
			l.off++
			return arr, nil
		}
		obj, err := l.value()
		if err != nil {
			return nil, err
		}
		arr = append(arr, obj)
	}
}

func (l *lexer) dict() (Dict, error) {
	l.off += 2 // '<<'
	d := make(Dict)
	for {
		l.skipSpace()
		if l.eof() {
			return nil, fmt.Errorf("reader: unterminated dictionary")
		}
		if l.lit(">>") {
			return d, nil
		}
		key, err := l.name()
		if err != nil {
			return nil, fmt.Errorf("reader: dictionary key: %w", err)
		}
		val, err := l.value()
		if err != nil {
			return nil, fmt.Errorf("reader: value of /%s: %w", key, err)
		}
		d[key] = val
	}
}

// indirect parses "N G obj ... endobj", attaching raw stream bytes when
// the object body is followed by a stream keyword. Stream length comes
// from the /Length entry, which the assembler always writes inline.
func (l *lexer) indirect() (*IndirectObject, error) {
	num, err := strconv.ParseInt(l.token(), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("reader: expected object number: %w", err)
	}
	gen, err := strconv.ParseInt(l.token(), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("reader: expected generation number: %w", err)
	}
	if kw := l.token(); kw != "obj" {
		return nil, fmt.Errorf("reader: expected obj keyword, got %q", kw)
	}

	val, err := l.value()
	if err != nil {
		return nil, fmt.Errorf("reader: object %d %d: %w", num, gen, err)
	}

	l.skipSpace()
	if l.lit("stream") {
		dict, ok := val.(Dict)
		if !ok {
			return nil, fmt.Errorf("reader: stream %d %d has a non-dictionary header", num, gen)
		}
		// Exactly one EOL follows the keyword, then the raw bytes.
		if !l.eof() && l.buf[l.off] == '\r' {
			l.off++
		}
		if !l.eof() && l.buf[l.off] == '\n' {
			l.off++
		}
		length := 0
		if v, ok := dict.GetInt("Length"); ok {
			length = int(v)
		}
		if length < 0 || l.off+length > len(l.buf) {
			return nil, fmt.Errorf("reader: stream %d %d overruns the file", num, gen)
		}
		data := make([]byte, length)
		copy(data, l.buf[l.off:l.off+length])
		l.off += length
		l.skipSpace()
		l.lit("endstream")
		val = Stream{Dict: dict, Data: data}
	}

	l.skipSpace()
	l.lit("endobj")
	return &IndirectObject{
		Reference: Reference{Number: int(num), Generation: int(gen)},
		Value:     val,
	}, nil
}
