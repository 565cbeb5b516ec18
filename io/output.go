package io

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/phil-mansfield/wingworks"
	"github.com/phil-mansfield/wingworks/geom"
)

// FrameVersion is incremented whenever the layout of FrameHeader or Frame
// changes.
const FrameVersion = 1

// FrameHeader describes the parts of a World which don't change between
// steps. It is written once, at the start of a frame file or stream.
type FrameHeader struct {
	Version int `msgpack:"version"`
	// World width and height.
	Extent    Vector2 `msgpack:"extent"`
	Radius    float64 `msgpack:"radius"`
	Particles int     `msgpack:"particles"`
	// Foil vertices, in order.
	FoilXs []float64 `msgpack:"foil_xs"`
	FoilYs []float64 `msgpack:"foil_ys"`
}

// Frame is the state of a World after a single step.
type Frame struct {
	Step        int       `msgpack:"step"`
	Xs          []float64 `msgpack:"xs"`
	Ys          []float64 `msgpack:"ys"`
	Force       Vector2   `msgpack:"force"`
	EdgeForces  []Vector2 `msgpack:"edge_forces"`
	NetMomentum float64   `msgpack:"net_momentum"`
}

type Vector2 [2]float64

func vector2(v geom.Vec) Vector2 { return Vector2{v.X, v.Y} }

// Vec converts v back into a geom.Vec.
func (v Vector2) Vec() geom.Vec { return geom.Vec{X: v[0], Y: v[1]} }

func splitVecs(vs []geom.Vec) (xs, ys []float64) {
	xs, ys = make([]float64, len(vs)), make([]float64, len(vs))
	for i, v := range vs {
		xs[i], ys[i] = v.X, v.Y
	}
	return xs, ys
}

// NewFrameHeader returns the header for frames of w.
func NewFrameHeader(w *wingworks.World) *FrameHeader {
	hd := &FrameHeader{
		Version:   FrameVersion,
		Extent:    Vector2{w.Width(), w.Height()},
		Radius:    w.Radius(),
		Particles: len(w.Particles()),
	}
	hd.FoilXs, hd.FoilYs = splitVecs(w.FoilShape().Vertices)
	return hd
}

// NewFrame converts a snapshot into a Frame.
func NewFrame(snap *wingworks.Snapshot) *Frame {
	fr := &Frame{
		Step:        snap.Step,
		Force:       vector2(snap.Force),
		EdgeForces:  make([]Vector2, len(snap.EdgeForces)),
		NetMomentum: snap.NetMomentum,
	}
	fr.Xs, fr.Ys = splitVecs(snap.Positions)
	for i, f := range snap.EdgeForces {
		fr.EdgeForces[i] = vector2(f)
	}
	return fr
}

// EncodeHeader returns hd as a standalone msgpack message.
func EncodeHeader(hd *FrameHeader) ([]byte, error) {
	return msgpack.Marshal(hd)
}

// EncodeFrame returns fr as a standalone msgpack message.
func EncodeFrame(fr *Frame) ([]byte, error) {
	return msgpack.Marshal(fr)
}

// DecodeFrame is the inverse of EncodeFrame.
func DecodeFrame(b []byte, fr *Frame) error {
	return msgpack.Unmarshal(b, fr)
}

// FrameWriter writes a header followed by a sequence of frames to a file.
// msgpack values are self-delimiting, so frames are simply concatenated.
type FrameWriter struct {
	f   *os.File
	buf *bufio.Writer
	enc *msgpack.Encoder
}

// CreateFrameFile creates (or truncates) a frame file and writes hd to it.
func CreateFrameFile(file string, hd *FrameHeader) (*FrameWriter, error) {
	f, err := os.Create(file)
	if err != nil {
		return nil, err
	}

	fw := &FrameWriter{f: f, buf: bufio.NewWriter(f)}
	fw.enc = msgpack.NewEncoder(fw.buf)
	if err := fw.enc.Encode(hd); err != nil {
		f.Close()
		return nil, fmt.Errorf("Could not write frame header to %s: %w", file, err)
	}
	return fw, nil
}

// Write appends fr to the file.
func (fw *FrameWriter) Write(fr *Frame) error {
	return fw.enc.Encode(fr)
}

// Close flushes any buffered frames and closes the file.
func (fw *FrameWriter) Close() error {
	if err := fw.buf.Flush(); err != nil {
		fw.f.Close()
		return err
	}
	return fw.f.Close()
}

// FrameReader reads files written by FrameWriter.
type FrameReader struct {
	Header FrameHeader

	f   *os.File
	dec *msgpack.Decoder
}

// OpenFrameFile opens a frame file and reads its header.
func OpenFrameFile(file string) (*FrameReader, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}

	fr := &FrameReader{f: f, dec: msgpack.NewDecoder(bufio.NewReader(f))}
	if err := fr.dec.Decode(&fr.Header); err != nil {
		f.Close()
		return nil, fmt.Errorf("Could not read frame header from %s: %w", file, err)
	}
	if fr.Header.Version != FrameVersion {
		f.Close()
		return nil, fmt.Errorf(
			"%s has frame version %d, but only version %d is supported.",
			file, fr.Header.Version, FrameVersion,
		)
	}
	return fr, nil
}

// Next reads the next frame into buf. It returns io.EOF once every frame
// has been read.
func (fr *FrameReader) Next(buf *Frame) error {
	err := fr.dec.Decode(buf)
	if err == io.ErrUnexpectedEOF {
		return fmt.Errorf("Frame file ends partway through a frame: %w", err)
	}
	return err
}

// Close closes the underlying file.
func (fr *FrameReader) Close() error { return fr.f.Close() }
