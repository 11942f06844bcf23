package sink

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/gif"
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/fourierforge/internal/dynamo"
)

type bufferCloser struct {
	bytes.Buffer
	closed bool
}

func (b *bufferCloser) Close() error {
	b.closed = true
	return nil
}

type failing struct {
	writes int
	closed int
}

func (f *failing) WriteFrame([]byte) error {
	f.writes++
	return errors.New("pipe broken")
}

func (f *failing) Close() error {
	f.closed++
	return nil
}

func TestSpecValidate(t *testing.T) {
	assert.NoError(t, Spec{Width: 4, Height: 2, FPS: 60}.Validate())
	assert.True(t, errors.Is(Spec{Width: 0, Height: 2, FPS: 60}.Validate(), dynamo.ErrParameterBounds))
	assert.True(t, errors.Is(Spec{Width: 4, Height: 2}.Validate(), dynamo.ErrParameterBounds))
	assert.Equal(t, 24, Spec{Width: 4, Height: 2}.FrameSize())
}

func TestGIFEncodes(t *testing.T) {
	spec := Spec{Width: 4, Height: 2, FPS: 50}
	out := &bufferCloser{}
	g, err := NewGIF(out, spec)
	require.NoError(t, err)

	frame := make([]byte, spec.FrameSize())
	for i := range frame {
		frame[i] = byte(i * 10)
	}
	require.NoError(t, g.WriteFrame(frame))
	first := out.Len()
	assert.Positive(t, first, "frames are encoded as they arrive")
	require.NoError(t, g.WriteFrame(frame))
	assert.Greater(t, out.Len(), first)
	assert.Error(t, g.WriteFrame(frame[:5]))
	assert.Equal(t, 2, g.Len())

	require.NoError(t, g.Close())
	assert.True(t, out.closed)

	anim, err := gif.DecodeAll(bytes.NewReader(out.Bytes()))
	require.NoError(t, err)
	assert.Len(t, anim.Image, 2)
	assert.Equal(t, 2, anim.Delay[0])

	assert.True(t, errors.Is(g.WriteFrame(frame), dynamo.ErrSinkClosed))
}

func TestGIFStreamsLargeFrames(t *testing.T) {
	spec := Spec{Width: 640, Height: 360, FPS: 60}
	out := &bufferCloser{}
	g, err := NewGIF(out, spec)
	require.NoError(t, err)

	frame := make([]byte, spec.FrameSize())
	for n := range 30 {
		for i := range frame {
			frame[i] = byte(i + n)
		}
		require.NoError(t, g.WriteFrame(frame))
	}
	require.NoError(t, g.Close())

	anim, err := gif.DecodeAll(bytes.NewReader(out.Bytes()))
	require.NoError(t, err)
	require.Len(t, anim.Image, 30)
	assert.Equal(t, image.Rect(0, 0, 640, 360), anim.Image[29].Bounds())
	assert.Equal(t, 0, anim.LoopCount)
}

func TestGIFRejectsOversize(t *testing.T) {
	_, err := NewGIF(&bufferCloser{}, Spec{Width: 70000, Height: 2, FPS: 30})
	assert.True(t, errors.Is(err, dynamo.ErrParameterBounds))
}

func TestGIFEmptyWritesNothing(t *testing.T) {
	out := &bufferCloser{}
	g, err := NewGIF(out, Spec{Width: 4, Height: 4, FPS: 30})
	require.NoError(t, err)
	require.NoError(t, g.Close())
	assert.Zero(t, out.Len())
	assert.True(t, out.closed)
}

func TestGuardSwallowsFailure(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	f := &failing{}
	g := NewGuard(f)

	assert.NoError(t, g.WriteFrame(nil))
	assert.True(t, g.Failed())
	assert.NoError(t, g.WriteFrame(nil))
	assert.Equal(t, 1, f.writes, "writes stop after the first failure")

	assert.NoError(t, g.Close())
	assert.NoError(t, g.Close())
	assert.Equal(t, 1, f.closed)
}

func TestFFmpegArgs(t *testing.T) {
	args := FFmpegArgs(Spec{Width: 1920, Height: 1080, FPS: 60}, "out.mp4")
	assert.Equal(t, []string{
		"-r", "60", "-f", "rawvideo", "-pix_fmt", "rgb24", "-s", "1920x1080",
		"-i", "-", "-threads", "0", "-c:v", "libx264", "-preset", "ultrafast",
		"-crf", "23", "-pix_fmt", "yuv420p", "-y", "out.mp4",
	}, args)
}

func TestNop(t *testing.T) {
	n := &Nop{}
	assert.NoError(t, n.WriteFrame(nil))
	assert.NoError(t, n.Close())
	assert.True(t, errors.Is(n.WriteFrame(nil), dynamo.ErrSinkClosed))
	assert.Equal(t, 1, n.Frames)
}

func TestFormatOf(t *testing.T) {
	assert.Equal(t, FormatFFmpeg, FormatOf("shot.MP4"))
	assert.Equal(t, FormatFFmpeg, FormatOf("out/shot.webm"))
	assert.Equal(t, FormatGIF, FormatOf("shot.gif"))
	assert.Equal(t, FormatGIF, FormatOf("shot"))
}

func TestOpenGIF(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	out := filepath.Join(t.TempDir(), "shot.gif")
	spec := Spec{Width: 4, Height: 2, FPS: 30}
	s, err := Open(context.Background(), FormatGIF, out, spec)
	require.NoError(t, err)
	require.NoError(t, s.WriteFrame(make([]byte, spec.FrameSize())))
	require.NoError(t, s.Close())

	fh, err := os.Open(out)
	require.NoError(t, err)
	defer fh.Close()
	g, err := gif.DecodeAll(fh)
	require.NoError(t, err)
	assert.Len(t, g.Image, 1)
}

func TestOpenRejects(t *testing.T) {
	_, err := Open(context.Background(), "bmp", "x.bmp", Spec{Width: 4, Height: 2, FPS: 30})
	assert.Error(t, err)

	_, err = Open(context.Background(), FormatGIF, "x.gif", Spec{})
	assert.ErrorIs(t, err, dynamo.ErrParameterBounds)
}
