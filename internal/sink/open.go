package sink

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// Output formats.
const (
	FormatGIF    = "gif"
	FormatFFmpeg = "ffmpeg"
)

// FFmpegBinary is the encoder looked up on PATH for video output.
var FFmpegBinary = "ffmpeg"

// FormatOf guesses the format from a file extension, defaulting to GIF.
func FormatOf(output string) string {
	switch strings.ToLower(filepath.Ext(output)) {
	case ".mp4", ".mkv", ".mov", ".webm":
		return FormatFFmpeg
	}
	return FormatGIF
}

// Open creates a sink for format writing to output.
func Open(ctx context.Context, format, output string, spec Spec) (Sink, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	switch format {
	case FormatGIF, "":
		g, err := CreateGIF(output, spec)
		if err != nil {
			return nil, err
		}
		return g, nil
	case FormatFFmpeg:
		f, err := StartFFmpeg(ctx, FFmpegBinary, output, spec)
		if err != nil {
			return nil, err
		}
		return f, nil
	default:
		return nil, fmt.Errorf("sink: unknown format %q", format)
	}
}
