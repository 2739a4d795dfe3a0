// Package capture encodes rendered frames into a video file by piping raw
// RGBA pixels to an ffmpeg process.
package capture

import (
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Frame is one framebuffer readback, bottom row first as GL returns it.
type Frame struct {
	Pixels []byte
	PTS    int64
}

type Config struct {
	Width      int
	Height     int
	FPS        int
	Frames     int // expected total, drives the progress bar
	Codec      string
	OutputFile string
	FFMPEGPath string
	Quiet      bool
}

// FrameSize is the byte length of one RGBA frame.
func (c *Config) FrameSize() int {
	return c.Width * c.Height * 4
}

func (c *Config) validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid frame size %dx%d", c.Width, c.Height)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("invalid frame rate %d", c.FPS)
	}
	if c.OutputFile == "" {
		return fmt.Errorf("no output file")
	}
	return nil
}

func inputArgs(cfg *Config) ffmpeg.KwArgs {
	return ffmpeg.KwArgs{
		"format":    "rawvideo",
		"pix_fmt":   "rgba",
		"s":         fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"framerate": cfg.FPS,
	}
}

func outputArgs(cfg *Config) ffmpeg.KwArgs {
	// GL rows come bottom-up
	outputArgs := ffmpeg.KwArgs{"vf": "vflip"}

	switch strings.ToLower(filepath.Ext(cfg.OutputFile)) {
	case ".gif":
		return outputArgs
	}

	if cfg.Codec == "hevc" {
		outputArgs["c:v"] = "libx265"
		if strings.HasSuffix(cfg.OutputFile, ".mp4") {
			outputArgs["tag:v"] = "hvc1"
		}
	} else {
		outputArgs["c:v"] = "libx264"
	}
	outputArgs["pix_fmt"] = "yuv420p"
	return outputArgs
}

// Recorder is the consumer side of a producer/consumer pair: the render loop
// hands it frames with WriteFrame and a goroutine streams them to ffmpeg.
type Recorder struct {
	cfg    Config
	frames chan *Frame
	failed chan struct{}
	done   chan error
	bar    *progressbar.ProgressBar

	encodeErr error
	written   int64
	closed    bool
}

const frameQueue = 3

// NewRecorder starts ffmpeg and the encoder goroutine.
func NewRecorder(cfg Config) (*Recorder, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	r := &Recorder{
		cfg:    cfg,
		frames: make(chan *Frame, frameQueue),
		failed: make(chan struct{}),
		done:   make(chan error, 1),
	}
	if cfg.Quiet {
		r.bar = progressbar.DefaultSilent(int64(cfg.Frames), "recording")
	} else {
		r.bar = progressbar.Default(int64(cfg.Frames), "recording")
	}

	pipeReader, pipeWriter := io.Pipe()
	ffmpegCmd := ffmpeg.Input("pipe:", inputArgs(&cfg)).
		Output(cfg.OutputFile, outputArgs(&cfg)).
		OverWriteOutput().WithInput(pipeReader).ErrorToStdOut()
	if cfg.FFMPEGPath != "" {
		ffmpegCmd = ffmpegCmd.SetFfmpegPath(cfg.FFMPEGPath)
	}

	errc := make(chan error, 1)
	go func() {
		err := ffmpegCmd.Run()
		// unblock the writer if ffmpeg exits before reading everything
		pipeReader.CloseWithError(io.ErrClosedPipe)
		errc <- err
	}()
	go r.runEncoder(pipeWriter, errc)

	log.Printf("Recording %dx%d @ %d fps to %s", cfg.Width, cfg.Height, cfg.FPS, cfg.OutputFile)
	return r, nil
}

func (r *Recorder) runEncoder(w *io.PipeWriter, errc <-chan error) {
	var writeErr error
	for frame := range r.frames {
		if _, err := w.Write(frame.Pixels); err != nil {
			writeErr = fmt.Errorf("failed to write frame %d to ffmpeg: %w", frame.PTS, err)
			r.encodeErr = writeErr
			close(r.failed)
			break
		}
		_ = r.bar.Add(1)
	}
	// drain so a producer blocked on a full queue can observe failed
	for range r.frames {
	}
	w.Close()

	if runErr := <-errc; runErr != nil {
		r.done <- fmt.Errorf("ffmpeg failed: %w", runErr)
		return
	}
	r.done <- writeErr
}

// WriteFrame queues one frame. pixels must hold exactly FrameSize bytes and
// must not be modified afterwards.
func (r *Recorder) WriteFrame(pixels []byte) error {
	if r.closed {
		return fmt.Errorf("recorder is closed")
	}
	if len(pixels) != r.cfg.FrameSize() {
		return fmt.Errorf("frame is %d bytes, want %d", len(pixels), r.cfg.FrameSize())
	}
	frame := &Frame{Pixels: pixels, PTS: r.written}
	select {
	case <-r.failed:
		return r.encodeErr
	default:
	}
	select {
	case r.frames <- frame:
		r.written++
		return nil
	case <-r.failed:
		return r.encodeErr
	}
}

// Written returns the number of frames accepted so far.
func (r *Recorder) Written() int64 {
	return r.written
}

// Close flushes queued frames and waits for ffmpeg to exit. Only the first
// call waits; later calls return nil.
func (r *Recorder) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	close(r.frames)
	err := <-r.done
	_ = r.bar.Finish()
	if err == nil {
		log.Printf("Successfully rendered %d frames to %s", r.written, r.cfg.OutputFile)
	}
	return err
}
