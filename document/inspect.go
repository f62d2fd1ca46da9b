package document

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// PageInfo holds the size of one page.
type PageInfo struct {
	Width  float64
	Height float64
}

// Info describes an encoded document.
type Info struct {
	Version string
	Pages   []PageInfo
}

var errNotPDF = errors.New("document: not a PDF file")

// Inspect reads the version and the page sizes of a PDF. Pages are listed
// in page tree order and inherit /MediaBox from their nearest ancestor.
// Files with a missing or damaged cross-reference section are read by
// scanning for objects.
func Inspect(data []byte) (Info, error) {
	r, err := newReader(data)
	if err != nil {
		return Info{}, err
	}
	pages, err := r.pages()
	if err != nil && !r.rebuilt {
		// The cross-reference section pointed at the wrong bytes.
		r.rebuild()
		pages, err = r.pages()
	}
	if err != nil {
		return Info{}, err
	}
	return Info{Version: r.version(), Pages: pages}, nil
}

// InspectFile reads the file at path and inspects it.
func InspectFile(path string) (Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Info{}, err
	}
	info, err := Inspect(data)
	if err != nil {
		return info, fmt.Errorf("%s: %w", path, err)
	}
	return info, nil
}

// xrefEntry locates one object, either at a file offset or inside an
// object stream.
type xrefEntry struct {
	offset int64
	inUse  bool

	stream int // object stream number, 0 when stored at offset
}

type reader struct {
	data    []byte
	xref    map[int]xrefEntry
	trailer dict
	cache   map[int]*object
	rebuilt bool
}

func newReader(data []byte) (*reader, error) {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return nil, errNotPDF
	}
	r := &reader{
		data:  data,
		xref:  map[int]xrefEntry{},
		cache: map[int]*object{},
	}
	if err := r.loadXRef(); err != nil || r.trailer["Root"] == nil {
		r.rebuild()
	}
	return r, nil
}

func (r *reader) version() string {
	line := r.data[5:]
	if i := bytes.IndexAny(line, "\r\n"); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(string(line))
}

func (r *reader) loadXRef() error {
	from := max(len(r.data)-1024, 0)
	i := bytes.LastIndex(r.data[from:], []byte("startxref"))
	if i < 0 {
		return errors.New("startxref not found")
	}
	p := newParser(r.data, from+i+len("startxref"))
	p.skipSpace()
	offset, err := strconv.ParseInt(p.token(), 10, 64)
	if err != nil {
		return fmt.Errorf("startxref: %w", err)
	}

	// /Prev chains are followed until an offset repeats.
	seen := map[int64]bool{}
	for offset > 0 && !seen[offset] {
		seen[offset] = true
		if offset >= int64(len(r.data)) {
			return fmt.Errorf("xref offset %d out of range", offset)
		}
		p := newParser(r.data, int(offset))
		p.skipSpace()
		var next int64
		if p.match("xref") {
			next, err = r.xrefTable(p)
		} else {
			next, err = r.xrefStream(p)
		}
		if err != nil {
			return err
		}
		offset = next
	}
	return nil
}

// add records an entry unless a newer section already did.
func (r *reader) add(num int, e xrefEntry) {
	if _, ok := r.xref[num]; !ok {
		r.xref[num] = e
	}
}

// xrefTable reads a classic table and its trailer. It returns the /Prev
// offset, or 0.
func (r *reader) xrefTable(p *parser) (int64, error) {
	for {
		p.skipSpace()
		if p.match("trailer") {
			break
		}
		first, err1 := strconv.Atoi(p.token())
		p.skipSpace()
		count, err2 := strconv.Atoi(p.token())
		if err1 != nil || err2 != nil {
			return 0, errors.New("malformed xref subsection")
		}
		for i := 0; i < count; i++ {
			p.skipSpace()
			off, err := strconv.ParseInt(p.token(), 10, 64)
			p.skipSpace()
			p.token()
			p.skipSpace()
			flag := p.token()
			if err != nil || (flag != "n" && flag != "f") {
				return 0, errors.New("malformed xref entry")
			}
			r.add(first+i, xrefEntry{offset: off, inUse: flag == "n"})
		}
	}
	t, err := p.parse()
	if err != nil {
		return 0, err
	}
	if t.kind != kindDict {
		return 0, errors.New("trailer is not a dictionary")
	}
	r.mergeTrailer(t.dict)
	prev, _ := t.dict.integer("Prev")
	return prev, nil
}

// xrefStream reads a cross-reference stream. It returns the /Prev offset,
// or 0.
func (r *reader) xrefStream(p *parser) (int64, error) {
	if _, ok := p.objectHeader(); !ok {
		return 0, errors.New("xref offset points at no object")
	}
	o, err := p.parse()
	if err != nil {
		return 0, err
	}
	if o.kind != kindStream || o.dict.name("Type") != "XRef" {
		return 0, errors.New("xref offset points at no xref stream")
	}
	r.mergeTrailer(o.dict)
	data, err := decodeStream(o.dict, o.stream)
	if err != nil {
		return 0, err
	}

	var w [3]int
	if ws := o.dict.array("W"); len(ws) == 3 {
		for i, v := range ws {
			w[i] = int(v.integer)
		}
	}
	size := w[0] + w[1] + w[2]
	if size == 0 {
		return 0, errors.New("xref stream without /W")
	}
	index := o.dict.array("Index")
	if len(index) == 0 {
		n, _ := o.dict.integer("Size")
		index = []*object{{kind: kindInt}, {kind: kindInt, integer: n}}
	}

	pos := 0
	for i := 0; i+1 < len(index); i += 2 {
		first, count := int(index[i].integer), int(index[i+1].integer)
		for j := 0; j < count && pos+size <= len(data); j++ {
			typ := 1
			if w[0] > 0 {
				typ = bigEndian(data[pos : pos+w[0]])
			}
			// The third field is the generation or the index in the
			// object stream. The headers of object streams locate objects.
			f2 := bigEndian(data[pos+w[0] : pos+w[0]+w[1]])
			pos += size
			switch typ {
			case 0:
				r.add(first+j, xrefEntry{})
			case 1:
				r.add(first+j, xrefEntry{offset: int64(f2), inUse: true})
			case 2:
				r.add(first+j, xrefEntry{stream: f2, inUse: true})
			}
		}
	}
	prev, _ := o.dict.integer("Prev")
	return prev, nil
}

func bigEndian(b []byte) int {
	v := 0
	for _, c := range b {
		v = v<<8 | int(c)
	}
	return v
}

// mergeTrailer keeps the keys of the newest trailer.
func (r *reader) mergeTrailer(d dict) {
	if r.trailer == nil {
		r.trailer = dict{}
	}
	for k, v := range d {
		if _, ok := r.trailer[k]; !ok {
			r.trailer[k] = v
		}
	}
}

// rebuild recovers the object offsets by scanning the file for "N G obj"
// headers. A later definition of the same number wins, and so does the
// last catalog in the file.
func (r *reader) rebuild() {
	r.xref = map[int]xrefEntry{}
	r.cache = map[int]*object{}
	r.trailer = dict{}
	r.rebuilt = true
	kw := []byte("obj")
	for at := 0; ; {
		i := bytes.Index(r.data[at:], kw)
		if i < 0 {
			break
		}
		end := at + i + len(kw)
		at = end
		if end < len(r.data) && !isSpace(r.data[end]) && !isDelim(r.data[end]) {
			continue
		}
		start := headerStart(r.data, end-len(kw))
		if start < 0 {
			continue
		}
		p := newParser(r.data, start)
		num, ok := p.objectHeader()
		if !ok {
			continue
		}
		r.xref[num] = xrefEntry{offset: int64(start), inUse: true}
	}
	last := int64(-1)
	for num, e := range r.xref {
		o, err := r.resolve(ref{num: num})
		if err == nil && o.kind == kindDict && o.dict.name("Type") == "Catalog" && e.offset > last {
			r.trailer["Root"] = &object{kind: kindRef, ref: ref{num: num}}
			last = e.offset
		}
	}
}

// headerStart walks back from "obj" over the generation and object
// numbers. It returns -1 when they are not there.
func headerStart(data []byte, kw int) int {
	i := kw
	for field := 0; field < 2; field++ {
		j := i
		for j > 0 && isSpace(data[j-1]) {
			j--
		}
		if j == i {
			return -1
		}
		i = j
		for i > 0 && data[i-1] >= '0' && data[i-1] <= '9' {
			i--
		}
		if i == j {
			return -1
		}
	}
	return i
}

// resolve loads an indirect object. Free and unknown objects are null.
func (r *reader) resolve(id ref) (*object, error) {
	if o, ok := r.cache[id.num]; ok {
		return o, nil
	}
	e, ok := r.xref[id.num]
	if !ok || !e.inUse {
		return null, nil
	}
	// Guards against reference loops through /Length or object streams.
	r.cache[id.num] = null

	var (
		o   *object
		err error
	)
	if e.stream > 0 {
		o, err = r.resolveCompressed(id.num, e)
	} else {
		o, err = r.resolveAt(e.offset)
	}
	if err != nil {
		delete(r.cache, id.num)
		return nil, fmt.Errorf("document: object %d: %w", id.num, err)
	}
	r.cache[id.num] = o
	return o, nil
}

func (r *reader) resolveAt(offset int64) (*object, error) {
	if offset < 0 || offset >= int64(len(r.data)) {
		return nil, fmt.Errorf("offset %d out of range", offset)
	}
	p := newParser(r.data, int(offset))
	if _, ok := p.objectHeader(); !ok {
		return nil, fmt.Errorf("no object at offset %d", offset)
	}
	o, err := p.parse()
	if err != nil {
		return nil, err
	}
	// An indirect /Length is only known now, so read the stream again.
	if l := o.dict["Length"]; o.kind == kindStream && l != nil && l.kind == kindRef {
		n, err := r.resolve(l.ref)
		if err != nil || n.kind != kindInt {
			return o, nil
		}
		o.dict["Length"] = n
		p = newParser(r.data, int(offset))
		p.objectHeader()
		return p.parse()
	}
	return o, nil
}

// resolveCompressed reads object num from the object stream named in e.
func (r *reader) resolveCompressed(num int, e xrefEntry) (*object, error) {
	s, err := r.resolve(ref{num: e.stream})
	if err != nil {
		return nil, err
	}
	if s.kind != kindStream {
		return nil, fmt.Errorf("object stream %d is not a stream", e.stream)
	}
	data, err := decodeStream(s.dict, s.stream)
	if err != nil {
		return nil, err
	}
	n, _ := s.dict.integer("N")
	first, _ := s.dict.integer("First")

	// The stream opens with N pairs of object number and relative offset.
	p := newParser(data, 0)
	for i := 0; i < int(n); i++ {
		p.skipSpace()
		id, err1 := strconv.Atoi(p.token())
		p.skipSpace()
		off, err2 := strconv.Atoi(p.token())
		if err1 != nil || err2 != nil {
			return nil, fmt.Errorf("object stream %d: malformed header", e.stream)
		}
		if id == num {
			at := int(first) + off
			if at < 0 || at > len(data) {
				return nil, fmt.Errorf("object stream %d: offset out of range", e.stream)
			}
			return newParser(data, at).parse()
		}
	}
	return nil, fmt.Errorf("object stream %d does not hold it", e.stream)
}

// deref follows o when it is a reference.
func (r *reader) deref(o *object) (*object, error) {
	if o == nil {
		return null, nil
	}
	if o.kind != kindRef {
		return o, nil
	}
	return r.resolve(o.ref)
}

// pages walks the page tree from the catalog.
func (r *reader) pages() ([]PageInfo, error) {
	root, err := r.deref(r.trailer["Root"])
	if err != nil {
		return nil, err
	}
	if root.kind != kindDict {
		return nil, errors.New("document: no catalog")
	}
	tree, err := r.deref(root.dict["Pages"])
	if err != nil {
		return nil, err
	}
	if tree.kind != kindDict {
		return nil, errors.New("document: catalog has no page tree")
	}
	var out []PageInfo
	err = r.collect(tree.dict, PageInfo{}, map[*object]bool{tree: true}, &out)
	return out, err
}

// collect appends the leaves under node in order. box is the /MediaBox
// inherited from the ancestors.
func (r *reader) collect(node dict, box PageInfo, seen map[*object]bool, out *[]PageInfo) error {
	if b, ok, err := r.mediaBox(node); err != nil {
		return err
	} else if ok {
		box = b
	}
	if node.name("Type") == "Page" {
		*out = append(*out, box)
		return nil
	}

	kids, err := r.deref(node["Kids"])
	if err != nil {
		return err
	}
	if kids.kind != kindArray {
		// A /Pages node with no kids holds no pages.
		return nil
	}
	for _, k := range kids.array {
		kid, err := r.deref(k)
		if err != nil {
			return err
		}
		if kid.kind != kindDict || seen[kid] {
			continue
		}
		seen[kid] = true
		if err := r.collect(kid.dict, box, seen, out); err != nil {
			return err
		}
	}
	return nil
}

func (r *reader) mediaBox(node dict) (PageInfo, bool, error) {
	o, err := r.deref(node["MediaBox"])
	if err != nil || o.kind != kindArray || len(o.array) != 4 {
		return PageInfo{}, false, err
	}
	var v [4]float64
	for i, e := range o.array {
		x, err := r.deref(e)
		if err != nil {
			return PageInfo{}, false, err
		}
		n, ok := x.number()
		if !ok {
			return PageInfo{}, false, nil
		}
		v[i] = n
	}
	return PageInfo{Width: v[2] - v[0], Height: v[3] - v[1]}, true, nil
}
