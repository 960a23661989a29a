// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package raster

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"golang.org/x/exp/constraints"
	"golang.org/x/image/tiff/lzw"
)

// A FormatError reports that the input is not a valid TIFF file.
type FormatError string

func (e FormatError) Error() string { return "tiff: invalid format: " + string(e) }

// An UnsupportedError reports that the input uses a valid
// but unimplemented TIFF feature.
type UnsupportedError string

func (e UnsupportedError) Error() string { return "tiff: unsupported feature: " + string(e) }

// A Reader reads a grid from a file.
type Reader interface {
	Read(name string) (*Grid, error)
}

// TIFF is the canonical Reader,
// that reads the first band of a GeoTIFF file.
type TIFF struct{}

// Read reads a grid from a GeoTIFF file.
func (TIFF) Read(name string) (*Grid, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	g, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %w", name, err)
	}
	return g, nil
}

// ReadFile reads a grid from a GeoTIFF file
// using the canonical reader.
func ReadFile(name string) (*Grid, error) {
	return TIFF{}.Read(name)
}

// TIFF tags.
const (
	tImageWidth      = 256
	tImageLength     = 257
	tBitsPerSample   = 258
	tCompression     = 259
	tPhotometric     = 262
	tStripOffsets    = 273
	tSamplesPerPixel = 277
	tRowsPerStrip    = 278
	tStripByteCounts = 279
	tPlanarConfig    = 284
	tPredictor       = 317
	tTileWidth       = 322
	tTileLength      = 323
	tTileOffsets     = 324
	tTileByteCounts  = 325
	tSampleFormat    = 339

	// GeoTIFF and GDAL tags
	tPixelScale      = 33550
	tTiepoint        = 33922
	tGeoKeyDirectory = 34735
	tGDALNoData      = 42113
)

// TIFF data types.
const (
	dtByte      = 1
	dtASCII     = 2
	dtShort     = 3
	dtLong      = 4
	dtRational  = 5
	dtSByte     = 6
	dtUndefined = 7
	dtSShort    = 8
	dtSLong     = 9
	dtSRational = 10
	dtFloat     = 11
	dtDouble    = 12
)

var typeSize = [...]uint32{0, 1, 1, 2, 4, 8, 1, 1, 2, 4, 8, 4, 8}

// Compression schemes.
const (
	cNone       = 1
	cLZW        = 5
	cDeflateOld = 32946
	cDeflate    = 8
	cPackBits   = 32773
)

// Limits of the decoded image.
const (
	maxCells      = 1 << 28
	maxBlockBytes = 1 << 30

	// maxRatio is an upper bound
	// of the compression ratio of the image data.
	maxRatio = 4096
)

// Predictors.
const (
	prNone       = 1
	prHorizontal = 2
	prFloat      = 3
)

// GeoKeys.
const (
	gkGeographicType = 2048
	gkProjectedType  = 3072
	gkUserDefined    = 32767
)

type ifdEntry struct {
	typ   uint16
	count uint32
	data  []byte
}

type decoder struct {
	buf  []byte
	bo   binary.ByteOrder
	tags map[uint16]ifdEntry
}

// Decode reads a GeoTIFF image from r
// and returns its first band as a grid.
func Decode(r io.Reader) (*Grid, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	d := &decoder{buf: buf}
	if err := d.readIFD(); err != nil {
		return nil, err
	}
	return d.decode()
}

func (d *decoder) readIFD() error {
	if len(d.buf) < 8 {
		return FormatError("file too short")
	}
	switch string(d.buf[0:2]) {
	case "II":
		d.bo = binary.LittleEndian
	case "MM":
		d.bo = binary.BigEndian
	default:
		return FormatError("malformed header")
	}
	switch d.bo.Uint16(d.buf[2:4]) {
	case 42:
	case 43:
		return UnsupportedError("BigTIFF")
	default:
		return FormatError("malformed header")
	}

	off := int64(d.bo.Uint32(d.buf[4:8]))
	if off+2 > int64(len(d.buf)) {
		return FormatError("IFD offset out of range")
	}
	n := int64(d.bo.Uint16(d.buf[off : off+2]))
	p := off + 2
	if p+12*n > int64(len(d.buf)) {
		return FormatError("IFD out of range")
	}

	d.tags = make(map[uint16]ifdEntry, n)
	for i := int64(0); i < n; i++ {
		e := d.buf[p+12*i : p+12*(i+1)]
		tag := d.bo.Uint16(e[0:2])
		typ := d.bo.Uint16(e[2:4])
		count := d.bo.Uint32(e[4:8])
		if typ == 0 || int(typ) >= len(typeSize) {
			// unknown data types must be ignored
			continue
		}
		sz := int64(typeSize[typ]) * int64(count)
		var data []byte
		if sz <= 4 {
			data = e[8 : 8+sz]
		} else {
			o := int64(d.bo.Uint32(e[8:12]))
			if o+sz > int64(len(d.buf)) {
				return FormatError(fmt.Sprintf("tag %d: data out of range", tag))
			}
			data = d.buf[o : o+sz]
		}
		d.tags[tag] = ifdEntry{typ: typ, count: count, data: data}
	}
	return nil
}

// uints returns the values of an integer tag.
func (d *decoder) uints(tag uint16) ([]uint64, error) {
	e, ok := d.tags[tag]
	if !ok {
		return nil, nil
	}
	v := make([]uint64, e.count)
	for i := range v {
		switch e.typ {
		case dtByte, dtUndefined:
			v[i] = uint64(e.data[i])
		case dtShort:
			v[i] = uint64(d.bo.Uint16(e.data[2*i:]))
		case dtLong:
			v[i] = uint64(d.bo.Uint32(e.data[4*i:]))
		default:
			return nil, FormatError(fmt.Sprintf("tag %d: got data type %d, want an integer", tag, e.typ))
		}
	}
	return v, nil
}

// first returns the first value of an integer tag,
// or def if the tag is not defined.
func (d *decoder) first(tag uint16, def uint64) (uint64, error) {
	v, err := d.uints(tag)
	if err != nil {
		return 0, err
	}
	if len(v) == 0 {
		return def, nil
	}
	return v[0], nil
}

// floats returns the values of a floating point tag.
func (d *decoder) floats(tag uint16) ([]float64, error) {
	e, ok := d.tags[tag]
	if !ok {
		return nil, nil
	}
	v := make([]float64, e.count)
	for i := range v {
		switch e.typ {
		case dtDouble:
			v[i] = math.Float64frombits(d.bo.Uint64(e.data[8*i:]))
		case dtFloat:
			v[i] = float64(math.Float32frombits(d.bo.Uint32(e.data[4*i:])))
		default:
			return nil, FormatError(fmt.Sprintf("tag %d: got data type %d, want a floating point", tag, e.typ))
		}
	}
	return v, nil
}

// ascii returns the value of an ASCII tag.
func (d *decoder) ascii(tag uint16) (string, bool) {
	e, ok := d.tags[tag]
	if !ok || e.typ != dtASCII {
		return "", false
	}
	return strings.TrimRight(string(e.data), "\x00"), true
}

// layout is the block structure of the image data.
type layout struct {
	blockW, blockH int
	across, down   int
	tiled          bool
	offsets        []uint64
	counts         []uint64
}

func (d *decoder) decode() (*Grid, error) {
	w, err := d.first(tImageWidth, 0)
	if err != nil {
		return nil, err
	}
	h, err := d.first(tImageLength, 0)
	if err != nil {
		return nil, err
	}
	if w == 0 || h == 0 {
		return nil, FormatError("undefined image size")
	}

	spp, err := d.first(tSamplesPerPixel, 1)
	if err != nil {
		return nil, err
	}
	if spp == 0 {
		return nil, FormatError("zero samples per pixel")
	}
	bps, err := d.uints(tBitsPerSample)
	if err != nil {
		return nil, err
	}
	bits := uint64(1)
	if len(bps) > 0 {
		bits = bps[0]
		for _, b := range bps[1:] {
			if b != bits {
				return nil, UnsupportedError("mixed bits per sample")
			}
		}
	}
	sf, err := d.first(tSampleFormat, uint64(Uint))
	if err != nil {
		return nil, err
	}
	comp, err := d.first(tCompression, cNone)
	if err != nil {
		return nil, err
	}
	pred, err := d.first(tPredictor, prNone)
	if err != nil {
		return nil, err
	}
	planar, err := d.first(tPlanarConfig, 1)
	if err != nil {
		return nil, err
	}

	format := SampleFormat(sf)
	switch format {
	case Uint, Int:
		if bits != 8 && bits != 16 && bits != 32 && bits != 64 {
			return nil, UnsupportedError(fmt.Sprintf("%d bits per integer sample", bits))
		}
	case Float:
		if bits != 32 && bits != 64 {
			return nil, UnsupportedError(fmt.Sprintf("%d bits per floating point sample", bits))
		}
	default:
		return nil, UnsupportedError(fmt.Sprintf("sample format %d", sf))
	}
	switch pred {
	case prNone:
	case prHorizontal:
		if format == Float {
			return nil, UnsupportedError("horizontal predictor for floating point samples")
		}
	case prFloat:
		if format != Float {
			return nil, FormatError("floating point predictor for integer samples")
		}
	default:
		return nil, UnsupportedError(fmt.Sprintf("predictor %d", pred))
	}

	// w and h are at most 32 bits,
	// so the product does not overflow
	cells := w * h
	if cells > maxCells {
		return nil, FormatError(fmt.Sprintf("image size %dx%d too large", w, h))
	}
	need := cells * (bits / 8)
	if comp == cNone && need > uint64(len(d.buf)) {
		return nil, FormatError(fmt.Sprintf("image size %dx%d: data out of range", w, h))
	}
	if need > uint64(len(d.buf))*maxRatio {
		return nil, FormatError(fmt.Sprintf("image size %dx%d: too large for file size", w, h))
	}

	lay, err := d.layout(int(w), int(h))
	if err != nil {
		return nil, err
	}

	stride := int(spp)
	if planar == 2 {
		// only the blocks of the first band are read
		stride = 1
	}
	if uint64(lay.blockW)*uint64(lay.blockH)*uint64(stride)*(bits/8) > maxBlockBytes {
		return nil, FormatError(fmt.Sprintf("block size %dx%d too large", lay.blockW, lay.blockH))
	}
	nBlocks := lay.across * lay.down
	if len(lay.offsets) < nBlocks || len(lay.counts) < nBlocks {
		return nil, FormatError("missing image blocks")
	}

	g := New(int(w), int(h))
	g.Driver = "GTiff"
	g.Bits = int(bits)
	g.Format = format

	size := int(bits / 8)
	bo := d.bo
	if pred == prFloat {
		bo = binary.BigEndian
	}
	sample := sampler(bo, format, int(bits))

	rowSamples := lay.blockW * stride
	rowBytes := rowSamples * size
	for i := 0; i < nBlocks; i++ {
		bx, by := i%lay.across, i/lay.across
		blockRows := lay.blockH
		if !lay.tiled && (by+1)*lay.blockH > g.rows {
			blockRows = g.rows - by*lay.blockH
		}

		off, n := lay.offsets[i], lay.counts[i]
		if off+n > uint64(len(d.buf)) {
			return nil, FormatError(fmt.Sprintf("block %d out of range", i))
		}
		data, err := decompress(d.buf[off:off+n], int(comp), rowBytes*blockRows)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
		if len(data) < rowBytes*blockRows {
			return nil, FormatError(fmt.Sprintf("block %d: got %d bytes, want %d", i, len(data), rowBytes*blockRows))
		}

		for r := 0; r < blockRows; r++ {
			row := data[r*rowBytes : (r+1)*rowBytes]
			switch pred {
			case prHorizontal:
				horizontal(row, d.bo, size, stride)
			case prFloat:
				row = floatPredictor(row, size, stride)
			}

			y := by*lay.blockH + r
			if y >= g.rows {
				break
			}
			for c := 0; c < lay.blockW; c++ {
				x := bx*lay.blockW + c
				if x >= g.cols {
					break
				}
				s := c * stride * size
				g.vals[y*g.cols+x] = sample(row[s : s+size])
			}
		}
	}

	if err := d.geoInfo(g); err != nil {
		return nil, err
	}
	return g, nil
}

func (d *decoder) layout(w, h int) (layout, error) {
	if _, ok := d.tags[tTileWidth]; ok {
		tw, err := d.first(tTileWidth, 0)
		if err != nil {
			return layout{}, err
		}
		th, err := d.first(tTileLength, 0)
		if err != nil {
			return layout{}, err
		}
		if tw == 0 || th == 0 {
			return layout{}, FormatError("zero tile size")
		}
		if tw*th > maxCells {
			return layout{}, FormatError(fmt.Sprintf("tile size %dx%d too large", tw, th))
		}
		offs, err := d.uints(tTileOffsets)
		if err != nil {
			return layout{}, err
		}
		counts, err := d.uints(tTileByteCounts)
		if err != nil {
			return layout{}, err
		}
		return layout{
			blockW:  int(tw),
			blockH:  int(th),
			across:  (w + int(tw) - 1) / int(tw),
			down:    (h + int(th) - 1) / int(th),
			tiled:   true,
			offsets: offs,
			counts:  counts,
		}, nil
	}

	rps, err := d.first(tRowsPerStrip, uint64(h))
	if err != nil {
		return layout{}, err
	}
	if rps == 0 || rps > uint64(h) {
		rps = uint64(h)
	}
	offs, err := d.uints(tStripOffsets)
	if err != nil {
		return layout{}, err
	}
	counts, err := d.uints(tStripByteCounts)
	if err != nil {
		return layout{}, err
	}
	return layout{
		blockW:  w,
		blockH:  int(rps),
		across:  1,
		down:    (h + int(rps) - 1) / int(rps),
		offsets: offs,
		counts:  counts,
	}, nil
}

func decompress(raw []byte, comp, want int) ([]byte, error) {
	switch comp {
	case cNone:
		return raw, nil
	case cLZW:
		r := lzw.NewReader(bytes.NewReader(raw), lzw.MSB, 8)
		defer r.Close()
		return readUpTo(r, want)
	case cDeflate, cDeflateOld:
		r, err := zlib.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, FormatError(err.Error())
		}
		defer r.Close()
		return readUpTo(r, want)
	case cPackBits:
		return unpackBits(raw, want)
	}
	return nil, UnsupportedError(fmt.Sprintf("compression %d", comp))
}

// readUpTo reads up to n bytes from r.
// Some encoders write trailing garbage
// after the end of the compressed block.
func readUpTo(r io.Reader, n int) ([]byte, error) {
	buf, err := io.ReadAll(io.LimitReader(r, int64(n)))
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, FormatError(err.Error())
	}
	return buf, nil
}

func unpackBits(src []byte, n int) ([]byte, error) {
	dst := make([]byte, 0, min(n, len(src)))
	for i := 0; i < len(src) && len(dst) < n; {
		c := int8(src[i])
		i++
		switch {
		case c >= 0:
			l := int(c) + 1
			if i+l > len(src) {
				return nil, FormatError("short PackBits literal run")
			}
			dst = append(dst, src[i:i+l]...)
			i += l
		case c != -128:
			if i >= len(src) {
				return nil, FormatError("short PackBits repeat run")
			}
			for j := 0; j < 1-int(c); j++ {
				dst = append(dst, src[i])
			}
			i++
		}
	}
	return dst, nil
}

// horizontal reverts the horizontal differencing predictor
// of a row of integer samples.
func horizontal(row []byte, bo binary.ByteOrder, size, stride int) {
	switch size {
	case 1:
		accumulate(row, 1, stride, func(b []byte) uint8 { return b[0] }, func(b []byte, v uint8) { b[0] = v })
	case 2:
		accumulate(row, 2, stride, bo.Uint16, bo.PutUint16)
	case 4:
		accumulate(row, 4, stride, bo.Uint32, bo.PutUint32)
	case 8:
		accumulate(row, 8, stride, bo.Uint64, bo.PutUint64)
	}
}

func accumulate[T constraints.Unsigned](row []byte, size, stride int, get func([]byte) T, put func([]byte, T)) {
	for i := stride * size; i+size <= len(row); i += size {
		prev := get(row[i-stride*size:])
		put(row[i:], get(row[i:])+prev)
	}
}

// floatPredictor reverts the floating point predictor
// of a row of samples.
// The returned row is in big-endian order.
func floatPredictor(row []byte, size, stride int) []byte {
	for i := stride; i < len(row); i++ {
		row[i] += row[i-stride]
	}

	n := len(row) / size
	out := make([]byte, len(row))
	for i := 0; i < n; i++ {
		for k := 0; k < size; k++ {
			out[i*size+k] = row[k*n+i]
		}
	}
	return out
}

func sampler(bo binary.ByteOrder, f SampleFormat, bits int) func([]byte) float64 {
	switch f {
	case Uint:
		switch bits {
		case 8:
			return func(b []byte) float64 { return float64(b[0]) }
		case 16:
			return func(b []byte) float64 { return float64(bo.Uint16(b)) }
		case 32:
			return func(b []byte) float64 { return float64(bo.Uint32(b)) }
		case 64:
			return func(b []byte) float64 { return float64(bo.Uint64(b)) }
		}
	case Int:
		switch bits {
		case 8:
			return func(b []byte) float64 { return float64(int8(b[0])) }
		case 16:
			return func(b []byte) float64 { return float64(int16(bo.Uint16(b))) }
		case 32:
			return func(b []byte) float64 { return float64(int32(bo.Uint32(b))) }
		case 64:
			return func(b []byte) float64 { return float64(int64(bo.Uint64(b))) }
		}
	case Float:
		if bits == 32 {
			return func(b []byte) float64 { return float64(math.Float32frombits(bo.Uint32(b))) }
		}
		return func(b []byte) float64 { return math.Float64frombits(bo.Uint64(b)) }
	}
	panic("raster: unexpected sample type")
}

// geoInfo sets the no-data value,
// the coordinate reference,
// and the extent of the grid.
func (d *decoder) geoInfo(g *Grid) error {
	if s, ok := d.ascii(tGDALNoData); ok {
		s = strings.TrimSpace(s)
		if s != "" {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return FormatError(fmt.Sprintf("no-data value %q: %v", s, err))
			}
			g.SetNoData(v)
		}
	}

	keys, err := d.uints(tGeoKeyDirectory)
	if err != nil {
		return err
	}
	g.CRS = crsFromKeys(keys)

	scale, err := d.floats(tPixelScale)
	if err != nil {
		return err
	}
	tie, err := d.floats(tTiepoint)
	if err != nil {
		return err
	}
	if len(scale) >= 2 && len(tie) >= 6 {
		x0 := tie[3] - tie[0]*scale[0]
		y0 := tie[4] + tie[1]*scale[1]
		x1 := x0 + float64(g.cols)*scale[0]
		y1 := y0 - float64(g.rows)*scale[1]
		g.SetBounds(orb.Bound{
			Min: orb.Point{x0, y1},
			Max: orb.Point{x1, y0},
		})
	}
	return nil
}

func crsFromKeys(keys []uint64) string {
	if len(keys) < 4 {
		return ""
	}
	n := int(keys[3])
	var geog, proj uint64
	for i := 0; i < n && 4+4*i+3 < len(keys); i++ {
		k := keys[4+4*i : 4+4*i+4]
		if k[1] != 0 {
			// value stored in another tag
			continue
		}
		switch k[0] {
		case gkGeographicType:
			geog = k[3]
		case gkProjectedType:
			proj = k[3]
		}
	}
	for _, c := range []uint64{proj, geog} {
		if c == 0 {
			continue
		}
		if c == gkUserDefined {
			return "user-defined"
		}
		return fmt.Sprintf("EPSG:%d", c)
	}
	return ""
}
