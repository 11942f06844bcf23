package sink

import (
	"bufio"
	"compress/lzw"
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"io"
	"os"

	"github.com/san-kum/fourierforge/internal/dynamo"
)

// maxGIFSide is the largest dimension a GIF header can describe.
const maxGIFSide = 1<<16 - 1

// GIF encodes an animated GIF frame by frame. Each frame is quantized to the
// Plan 9 palette and written immediately, so memory stays at one frame.
type GIF struct {
	spec   Spec
	w      io.WriteCloser
	bw     *bufio.Writer
	rgba   *image.RGBA
	img    *image.Paletted
	frames int
	closed bool
}

// NewGIF writes to w, which is closed together with the sink.
func NewGIF(w io.WriteCloser, spec Spec) (*GIF, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if spec.Width > maxGIFSide || spec.Height > maxGIFSide {
		return nil, fmt.Errorf("sink: gif size %dx%d: %w", spec.Width, spec.Height, dynamo.ErrParameterBounds)
	}
	bounds := image.Rect(0, 0, spec.Width, spec.Height)
	return &GIF{
		spec: spec,
		w:    w,
		bw:   bufio.NewWriter(w),
		rgba: image.NewRGBA(bounds),
		img:  image.NewPaletted(bounds, palette.Plan9),
	}, nil
}

// CreateGIF creates the file at path.
func CreateGIF(path string, spec Spec) (*GIF, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	g, err := NewGIF(f, spec)
	if err != nil {
		f.Close()
		return nil, err
	}
	return g, nil
}

func (g *GIF) WriteFrame(frame []byte) error {
	if g.closed {
		return dynamo.ErrSinkClosed
	}
	if err := g.spec.check(frame); err != nil {
		return err
	}
	if g.frames == 0 {
		g.writeHeader()
	}

	for i, j := 0, 0; i < len(frame); i, j = i+3, j+4 {
		g.rgba.Pix[j] = frame[i]
		g.rgba.Pix[j+1] = frame[i+1]
		g.rgba.Pix[j+2] = frame[i+2]
		g.rgba.Pix[j+3] = 0xff
	}
	draw.Draw(g.img, g.img.Bounds(), g.rgba, image.Point{}, draw.Src)

	// GIF delays are in hundredths of a second.
	delay := max(100/g.spec.FPS, 2)
	g.bw.Write([]byte{0x21, 0xf9, 0x04, 0x00, byte(delay), byte(delay >> 8), 0x00, 0x00})
	g.bw.WriteByte(0x2c)
	g.putSize(0, 0)
	g.putSize(g.spec.Width, g.spec.Height)
	g.bw.WriteByte(0x00)

	g.bw.WriteByte(8) // LZW minimum code size for 256 colors
	blocks := &blockWriter{w: g.bw}
	lw := lzw.NewWriter(blocks, lzw.LSB, 8)
	if _, err := lw.Write(g.img.Pix); err != nil {
		return err
	}
	if err := lw.Close(); err != nil {
		return err
	}
	blocks.close()

	g.frames++
	return g.bw.Flush()
}

// writeHeader emits the signature, screen descriptor, global palette and
// an endless loop extension.
func (g *GIF) writeHeader() {
	g.bw.WriteString("GIF89a")
	g.putSize(g.spec.Width, g.spec.Height)
	// Global color table present, 8 bits of color resolution, 256 entries.
	g.bw.Write([]byte{0xf7, 0x00, 0x00})
	for _, c := range palette.Plan9 {
		rgb := color.RGBAModel.Convert(c).(color.RGBA)
		g.bw.Write([]byte{rgb.R, rgb.G, rgb.B})
	}
	g.bw.Write([]byte{0x21, 0xff, 0x0b})
	g.bw.WriteString("NETSCAPE2.0")
	g.bw.Write([]byte{0x03, 0x01, 0x00, 0x00, 0x00})
}

func (g *GIF) putSize(a, b int) {
	g.bw.Write([]byte{byte(a), byte(a >> 8), byte(b), byte(b >> 8)})
}

// Len is the number of frames written so far.
func (g *GIF) Len() int { return g.frames }

func (g *GIF) Close() error {
	if g.closed {
		return nil
	}
	g.closed = true
	defer g.w.Close()

	if g.frames == 0 {
		return nil
	}
	g.bw.WriteByte(0x3b)
	if err := g.bw.Flush(); err != nil {
		return err
	}
	tracer().Infof("wrote GIF with %d frames", g.frames)
	return nil
}

// blockWriter splits LZW output into the length-prefixed sub-blocks of at
// most 255 bytes that GIF image data is made of.
type blockWriter struct {
	w   *bufio.Writer
	buf [255]byte
	n   int
}

func (b *blockWriter) Write(p []byte) (int, error) {
	written := len(p)
	for len(p) > 0 {
		c := copy(b.buf[b.n:], p)
		b.n += c
		p = p[c:]
		if b.n == len(b.buf) {
			b.flush()
		}
	}
	return written, nil
}

func (b *blockWriter) flush() {
	if b.n == 0 {
		return
	}
	b.w.WriteByte(byte(b.n))
	b.w.Write(b.buf[:b.n])
	b.n = 0
}

// close flushes the last block and writes the block terminator.
func (b *blockWriter) close() {
	b.flush()
	b.w.WriteByte(0x00)
}
