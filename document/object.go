package document

import (
	"bytes"
	"errors"
	"strconv"
	"strings"
)

// kind identifies the type of a parsed PDF object.
type kind int

const (
	kindNull kind = iota
	kindBool
	kindInt
	kindFloat
	kindString
	kindName
	kindArray
	kindDict
	kindStream
	kindRef
)

// object holds any PDF object value.
type object struct {
	kind    kind
	boolean bool
	integer int64
	real    float64
	str     []byte
	name    string
	array   []*object
	dict    dict
	stream  []byte // raw, still encoded
	ref     ref
}

// ref is an indirect object reference (N G R).
type ref struct {
	num int
	gen int
}

type dict map[string]*object

var null = &object{kind: kindNull}

func (d dict) integer(key string) (int64, bool) {
	o, ok := d[key]
	if !ok {
		return 0, false
	}
	switch o.kind {
	case kindInt:
		return o.integer, true
	case kindFloat:
		return int64(o.real), true
	}
	return 0, false
}

func (d dict) name(key string) string {
	if o, ok := d[key]; ok && o.kind == kindName {
		return o.name
	}
	return ""
}

func (d dict) array(key string) []*object {
	o, ok := d[key]
	if !ok {
		return nil
	}
	if o.kind == kindArray {
		return o.array
	}
	return []*object{o}
}

// number reads an int or float object as a float.
func (o *object) number() (float64, bool) {
	if o == nil {
		return 0, false
	}
	switch o.kind {
	case kindInt:
		return float64(o.integer), true
	case kindFloat:
		return o.real, true
	}
	return 0, false
}

const maxNesting = 100

var errNesting = errors.New("document: objects nested too deep")

// parser is a recursive-descent reader of PDF objects.
type parser struct {
	data  []byte
	pos   int
	depth int
}

func newParser(data []byte, pos int) *parser {
	return &parser{data: data, pos: pos}
}

// skipSpace skips whitespace and comments.
func (p *parser) skipSpace() {
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if c == '%' {
			for p.pos < len(p.data) && p.data[p.pos] != '\n' && p.data[p.pos] != '\r' {
				p.pos++
			}
			continue
		}
		if !isSpace(c) {
			return
		}
		p.pos++
	}
}

// match advances past s if the input continues with it.
func (p *parser) match(s string) bool {
	if bytes.HasPrefix(p.data[p.pos:], []byte(s)) {
		p.pos += len(s)
		return true
	}
	return false
}

func isDelim(b byte) bool {
	switch b {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n', '\f', 0:
		return true
	}
	return false
}

// token reads up to the next whitespace or delimiter.
func (p *parser) token() string {
	start := p.pos
	for p.pos < len(p.data) && !isSpace(p.data[p.pos]) && !isDelim(p.data[p.pos]) {
		p.pos++
	}
	return string(p.data[start:p.pos])
}

// objectHeader consumes "N G obj" and returns N.
func (p *parser) objectHeader() (int, bool) {
	p.skipSpace()
	num, err := strconv.Atoi(p.token())
	if err != nil {
		return 0, false
	}
	p.skipSpace()
	if _, err := strconv.Atoi(p.token()); err != nil {
		return 0, false
	}
	p.skipSpace()
	return num, p.match("obj")
}

func (p *parser) parse() (*object, error) {
	if p.depth > maxNesting {
		return nil, errNesting
	}
	p.depth++
	defer func() { p.depth-- }()

	p.skipSpace()
	if p.pos >= len(p.data) {
		return null, nil
	}
	switch c := p.data[p.pos]; {
	case c == 'n' && p.match("null"):
		return null, nil
	case c == 't' && p.match("true"):
		return &object{kind: kindBool, boolean: true}, nil
	case c == 'f' && p.match("false"):
		return &object{kind: kindBool}, nil
	case c == '(':
		return p.parseString(), nil
	case c == '<' && p.pos+1 < len(p.data) && p.data[p.pos+1] == '<':
		return p.parseDict()
	case c == '<':
		return p.parseHex(), nil
	case c == '/':
		return p.parseName(), nil
	case c == '[':
		return p.parseArray()
	case c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9'):
		return p.parseNumber(), nil
	default:
		// Unknown keyword.
		p.pos++
		p.token()
		return null, nil
	}
}

// parseString reads a literal string. Escapes are kept except for the ones
// that affect where the string ends.
func (p *parser) parseString() *object {
	p.pos++
	var buf bytes.Buffer
	for depth := 1; p.pos < len(p.data); p.pos++ {
		c := p.data[p.pos]
		switch c {
		case '\\':
			p.pos++
			if p.pos < len(p.data) {
				buf.WriteByte(p.data[p.pos])
			}
			continue
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				p.pos++
				return &object{kind: kindString, str: buf.Bytes()}
			}
		}
		buf.WriteByte(c)
	}
	return &object{kind: kindString, str: buf.Bytes()}
}

func (p *parser) parseHex() *object {
	p.pos++
	var buf bytes.Buffer
	var (
		b    byte
		half bool
	)
	for ; p.pos < len(p.data) && p.data[p.pos] != '>'; p.pos++ {
		c := p.data[p.pos]
		if isSpace(c) {
			continue
		}
		b = b<<4 | hexVal(c)
		if half {
			buf.WriteByte(b)
			b = 0
		}
		half = !half
	}
	if half {
		buf.WriteByte(b << 4)
	}
	if p.pos < len(p.data) {
		p.pos++
	}
	return &object{kind: kindString, str: buf.Bytes()}
}

func hexVal(b byte) byte {
	switch {
	case b >= '0' && b <= '9':
		return b - '0'
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10
	}
	return 0
}

func (p *parser) parseName() *object {
	p.pos++
	name := p.token()
	if strings.IndexByte(name, '#') >= 0 {
		var buf bytes.Buffer
		for i := 0; i < len(name); i++ {
			if name[i] == '#' && i+2 < len(name) {
				buf.WriteByte(hexVal(name[i+1])<<4 | hexVal(name[i+2]))
				i += 2
				continue
			}
			buf.WriteByte(name[i])
		}
		name = buf.String()
	}
	return &object{kind: kindName, name: name}
}

func (p *parser) parseArray() (*object, error) {
	p.pos++
	arr := &object{kind: kindArray}
	for {
		p.skipSpace()
		if p.pos >= len(p.data) {
			return arr, nil
		}
		if p.data[p.pos] == ']' {
			p.pos++
			return arr, nil
		}
		o, err := p.parse()
		if err != nil {
			return nil, err
		}
		arr.array = append(arr.array, o)
	}
}

// parseDict reads a dictionary and the stream that may follow it.
func (p *parser) parseDict() (*object, error) {
	p.pos += 2
	d := dict{}
	for {
		p.skipSpace()
		if p.pos >= len(p.data) {
			break
		}
		if p.match(">>") {
			break
		}
		if p.data[p.pos] != '/' {
			p.pos++
			continue
		}
		key := p.parseName()
		val, err := p.parse()
		if err != nil {
			return nil, err
		}
		d[key.name] = val
	}

	p.skipSpace()
	if !p.match("stream") {
		return &object{kind: kindDict, dict: d}, nil
	}
	p.match("\r")
	p.match("\n")

	start := p.pos
	end := -1
	if n, ok := d.integer("Length"); ok && n >= 0 && d["Length"].kind == kindInt && start+int(n) <= len(p.data) {
		end = start + int(n)
	}
	if end < 0 {
		i := bytes.Index(p.data[start:], []byte("endstream"))
		if i < 0 {
			i = len(p.data) - start
		}
		end = start + i
	}
	p.pos = end
	p.skipSpace()
	p.match("endstream")
	return &object{kind: kindStream, dict: d, stream: p.data[start:end]}, nil
}

// parseNumber reads a number or an indirect reference.
func (p *parser) parseNumber() *object {
	s := p.token()
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return null
		}
		return &object{kind: kindFloat, real: f}
	}

	after := p.pos
	p.skipSpace()
	if g, err := strconv.Atoi(p.token()); err == nil {
		p.skipSpace()
		if p.pos < len(p.data) && p.data[p.pos] == 'R' &&
			(p.pos+1 == len(p.data) || isSpace(p.data[p.pos+1]) || isDelim(p.data[p.pos+1])) {
			p.pos++
			return &object{kind: kindRef, ref: ref{num: int(n), gen: g}}
		}
	}
	p.pos = after
	return &object{kind: kindInt, integer: n}
}
