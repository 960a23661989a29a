// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package raster

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"
)

// Encode writes a grid into w
// as a single band, 32-bit floating point,
// uncompressed GeoTIFF.
//
// If defined,
// the no-data value,
// the extent,
// and the EPSG code of the grid
// are stored as GeoTIFF tags.
func Encode(w io.Writer, g *Grid) error {
	bo := binary.LittleEndian
	dataLen := uint32(g.Len() * 4)

	entries := []tagEntry{
		{tImageWidth, longs(bo, uint32(g.cols))},
		{tImageLength, longs(bo, uint32(g.rows))},
		{tBitsPerSample, shorts(bo, 32)},
		{tCompression, shorts(bo, cNone)},
		{tPhotometric, shorts(bo, 1)},
		{tStripOffsets, longs(bo, 8)},
		{tSamplesPerPixel, shorts(bo, 1)},
		{tRowsPerStrip, longs(bo, uint32(g.rows))},
		{tStripByteCounts, longs(bo, dataLen)},
		{tPlanarConfig, shorts(bo, 1)},
		{tSampleFormat, shorts(bo, uint16(Float))},
	}
	if b, ok := g.Bounds(); ok && g.cols > 0 && g.rows > 0 {
		sx := (b.Max[0] - b.Min[0]) / float64(g.cols)
		sy := (b.Max[1] - b.Min[1]) / float64(g.rows)
		entries = append(entries,
			tagEntry{tPixelScale, doubles(bo, sx, sy, 0)},
			tagEntry{tTiepoint, doubles(bo, 0, 0, 0, b.Min[0], b.Max[1], 0)},
		)
	}
	if keys := geoKeys(g.CRS); keys != nil {
		entries = append(entries, tagEntry{tGeoKeyDirectory, shorts(bo, keys...)})
	}
	if v, ok := g.NoData(); ok {
		s := strconv.FormatFloat(v, 'g', -1, 32) + "\x00"
		entries = append(entries, tagEntry{tGDALNoData, ifdEntry{typ: dtASCII, count: uint32(len(s)), data: []byte(s)}})
	}
	slices.SortFunc(entries, func(a, b tagEntry) int {
		return int(a.tag) - int(b.tag)
	})

	var buf bytes.Buffer
	buf.WriteString("II")
	binary.Write(&buf, bo, uint16(42))
	ifdOff := 8 + dataLen
	binary.Write(&buf, bo, ifdOff)

	for _, v := range g.vals {
		binary.Write(&buf, bo, math.Float32bits(float32(v)))
	}

	extra := ifdOff + 2 + 12*uint32(len(entries)) + 4
	var ext bytes.Buffer
	binary.Write(&buf, bo, uint16(len(entries)))
	for _, en := range entries {
		binary.Write(&buf, bo, en.tag)
		binary.Write(&buf, bo, en.e.typ)
		binary.Write(&buf, bo, en.e.count)
		if len(en.e.data) <= 4 {
			var v [4]byte
			copy(v[:], en.e.data)
			buf.Write(v[:])
			continue
		}
		binary.Write(&buf, bo, extra+uint32(ext.Len()))
		ext.Write(en.e.data)
		if ext.Len()%2 != 0 {
			ext.WriteByte(0)
		}
	}
	binary.Write(&buf, bo, uint32(0))
	buf.Write(ext.Bytes())

	_, err := w.Write(buf.Bytes())
	return err
}

// WriteFile writes a grid into a GeoTIFF file.
func WriteFile(name string, g *Grid) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	if err := Encode(f, g); err != nil {
		return fmt.Errorf("when encoding file %q: %v", name, err)
	}
	return nil
}

type tagEntry struct {
	tag uint16
	e   ifdEntry
}

func shorts(bo binary.ByteOrder, v ...uint16) ifdEntry {
	data := make([]byte, 2*len(v))
	for i, x := range v {
		bo.PutUint16(data[2*i:], x)
	}
	return ifdEntry{typ: dtShort, count: uint32(len(v)), data: data}
}

func longs(bo binary.ByteOrder, v ...uint32) ifdEntry {
	data := make([]byte, 4*len(v))
	for i, x := range v {
		bo.PutUint32(data[4*i:], x)
	}
	return ifdEntry{typ: dtLong, count: uint32(len(v)), data: data}
}

func doubles(bo binary.ByteOrder, v ...float64) ifdEntry {
	data := make([]byte, 8*len(v))
	for i, x := range v {
		bo.PutUint64(data[8*i:], math.Float64bits(x))
	}
	return ifdEntry{typ: dtDouble, count: uint32(len(v)), data: data}
}

// geoKeys returns a GeoKey directory
// for an EPSG code.
// EPSG codes between 4000 and 4999
// are assumed to be geographic systems.
func geoKeys(crs string) []uint16 {
	s, ok := strings.CutPrefix(strings.ToUpper(crs), "EPSG:")
	if !ok {
		return nil
	}
	code, err := strconv.Atoi(s)
	if err != nil || code <= 0 || code >= gkUserDefined {
		return nil
	}

	const (
		gtModelType  = 1024
		gtRasterType = 1025
	)
	model, key := uint16(1), uint16(gkProjectedType)
	if code >= 4000 && code < 5000 {
		model, key = 2, gkGeographicType
	}
	return []uint16{
		1, 1, 0, 3,
		gtModelType, 0, 1, model,
		gtRasterType, 0, 1, 1,
		key, 0, 1, uint16(code),
	}
}
