package sink

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strconv"

	"github.com/san-kum/fourierforge/internal/dynamo"
)

// FFmpeg pipes raw RGB24 frames into an ffmpeg process encoding H.264.
type FFmpeg struct {
	spec   Spec
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	closed bool
}

// FFmpegArgs returns the ffmpeg arguments for encoding spec into output.
func FFmpegArgs(spec Spec, output string) []string {
	return []string{
		"-r", strconv.Itoa(spec.FPS),
		"-f", "rawvideo",
		"-pix_fmt", "rgb24",
		"-s", fmt.Sprintf("%dx%d", spec.Width, spec.Height),
		"-i", "-",
		"-threads", "0",
		"-c:v", "libx264",
		"-preset", "ultrafast",
		"-crf", "23",
		"-pix_fmt", "yuv420p",
		"-y", output,
	}
}

// StartFFmpeg launches the encoder. binary is usually "ffmpeg".
func StartFFmpeg(ctx context.Context, binary, output string, spec Spec) (*FFmpeg, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	path, err := exec.LookPath(binary)
	if err != nil {
		return nil, fmt.Errorf("sink: %s not found: %w", binary, dynamo.ErrSinkClosed)
	}

	cmd := exec.CommandContext(ctx, path, FFmpegArgs(spec, output)...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("sink: starting %s: %w", binary, err)
	}
	tracer().Infof("ffmpeg started for %s (%dx%d @ %d fps)", output, spec.Width, spec.Height, spec.FPS)
	return &FFmpeg{spec: spec, cmd: cmd, stdin: stdin}, nil
}

func (f *FFmpeg) WriteFrame(frame []byte) error {
	if f.closed {
		return dynamo.ErrSinkClosed
	}
	if err := f.spec.check(frame); err != nil {
		return err
	}
	_, err := f.stdin.Write(frame)
	return err
}

// Close ends the input stream and waits for the encoder to finish.
func (f *FFmpeg) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	if err := f.stdin.Close(); err != nil {
		return err
	}
	return f.cmd.Wait()
}
