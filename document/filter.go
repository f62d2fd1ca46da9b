package document

import (
	"bytes"
	"compress/zlib"
	"encoding/ascii85"
	"fmt"
	"io"
)

// maxDecoded bounds the size of one decoded stream (64 MB).
const maxDecoded = 64 << 20

// decodeStream undoes the filter chain of a stream. Only the filters used
// for cross-reference and object streams are supported.
func decodeStream(d dict, data []byte) ([]byte, error) {
	filters := d.array("Filter")
	parms := d.array("DecodeParms")
	for i, f := range filters {
		if f.kind != kindName {
			continue
		}
		var p dict
		if i < len(parms) && parms[i].kind == kindDict {
			p = parms[i].dict
		}
		var err error
		if data, err = applyFilter(f.name, p, data); err != nil {
			return nil, fmt.Errorf("document: %s: %w", f.name, err)
		}
	}
	return data, nil
}

func applyFilter(name string, parms dict, data []byte) ([]byte, error) {
	switch name {
	case "FlateDecode", "Fl":
		return flateDecode(parms, data)
	case "ASCIIHexDecode", "AHx":
		return newParser(append([]byte{'<'}, data...), 0).parseHex().str, nil
	case "ASCII85Decode", "A85":
		data = bytes.TrimSuffix(bytes.TrimSpace(data), []byte("~>"))
		return io.ReadAll(ascii85.NewDecoder(bytes.NewReader(data)))
	}
	return nil, fmt.Errorf("unsupported filter")
}

func flateDecode(parms dict, data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	out, err := io.ReadAll(io.LimitReader(r, maxDecoded+1))
	if err != nil {
		return nil, err
	}
	if len(out) > maxDecoded {
		return nil, fmt.Errorf("stream larger than %d bytes", maxDecoded)
	}
	if pred, _ := parms.integer("Predictor"); pred >= 10 {
		return unpredictPNG(parms, out), nil
	}
	return out, nil
}

// unpredictPNG reverses the PNG row filters that writers apply to
// cross-reference streams.
func unpredictPNG(parms dict, data []byte) []byte {
	columns, _ := parms.integer("Columns")
	colors, _ := parms.integer("Colors")
	bits, _ := parms.integer("BitsPerComponent")
	if columns <= 0 {
		columns = 1
	}
	if colors <= 0 {
		colors = 1
	}
	if bits <= 0 {
		bits = 8
	}
	bpp := int((colors*bits + 7) / 8)
	row := int((columns*colors*bits + 7) / 8)
	stride := row + 1
	if row <= 0 || len(data) < stride {
		return data
	}

	rows := len(data) / stride
	out := make([]byte, rows*row)
	prev := make([]byte, row)
	for r := 0; r < rows; r++ {
		src := data[r*stride+1 : (r+1)*stride]
		dst := out[r*row : (r+1)*row]
		for i := range dst {
			var a, c byte
			if i >= bpp {
				a, c = dst[i-bpp], prev[i-bpp]
			}
			b := prev[i]
			switch data[r*stride] {
			case 1:
				dst[i] = src[i] + a
			case 2:
				dst[i] = src[i] + b
			case 3:
				dst[i] = src[i] + byte((int(a)+int(b))/2)
			case 4:
				dst[i] = src[i] + paeth(a, b, c)
			default:
				dst[i] = src[i]
			}
		}
		prev = dst
	}
	return out
}

func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa, pb, pc := abs(p-int(a)), abs(p-int(b)), abs(p-int(c))
	switch {
	case pa <= pb && pa <= pc:
		return a
	case pb <= pc:
		return b
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
