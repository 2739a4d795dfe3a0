package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"

	"github.com/richinsley/twotriangles/capture"
	"github.com/richinsley/twotriangles/glapi"
	"github.com/richinsley/twotriangles/glfwcontext"
	"github.com/richinsley/twotriangles/graphics"
	"github.com/richinsley/twotriangles/options"
	"github.com/richinsley/twotriangles/renderer"
	"github.com/richinsley/twotriangles/translator"
)

const exitFailure = -1

func run(opts *options.Options) int {
	scene, err := opts.Resolve()
	if err != nil {
		log.Printf("Failed to load scene: %v", err)
		return exitFailure
	}

	if err := glfwcontext.InitGraphics(); err != nil {
		log.Printf("Failed to initialize GLFW: %v", err)
		return exitFailure
	}
	defer glfwcontext.TerminateGraphics()

	ctx, err := glfwcontext.New(scene, !*opts.Record)
	if err != nil {
		log.Printf("Failed to create GLFW window: %v", err)
		return exitFailure
	}
	ctx.MakeCurrent()

	api, err := glapi.Init()
	if err != nil {
		ctx.Shutdown()
		log.Printf("Failed to load OpenGL functions: %v", err)
		return exitFailure
	}

	r := renderer.NewRenderer(ctx, api)
	defer r.Shutdown()

	var tr renderer.Translator
	if *opts.Translate {
		tr = translator.New()
	}
	if _, err := r.LoadScene(scene, tr); err != nil {
		var shaderErr *renderer.ShaderError
		if errors.As(err, &shaderErr) {
			log.Printf("Shader build failed in %s stage:\n%s", shaderErr.Stage, shaderErr.Log)
		} else {
			log.Printf("Failed to initialize scene: %v", err)
		}
		return exitFailure
	}

	if *opts.Record {
		if err := record(r, ctx, api, opts); err != nil {
			log.Printf("Offscreen rendering failed: %v", err)
			return exitFailure
		}
		return 0
	}

	log.Println("Starting interactive render loop...")
	r.Run()
	return 0
}

func record(r *renderer.Renderer, ctx graphics.Context, api graphics.API, opts *options.Options) error {
	width, height := ctx.GetFramebufferSize()
	target, err := renderer.NewRenderTarget(api, width, height)
	if err != nil {
		return err
	}
	defer target.Delete()
	r.SetTarget(target)
	defer r.SetTarget(nil)

	rec, err := capture.NewRecorder(capture.Config{
		Width:      width,
		Height:     height,
		FPS:        *opts.FPS,
		Frames:     *opts.Frames,
		Codec:      *opts.Codec,
		OutputFile: *opts.OutputFile,
		FFMPEGPath: *opts.FFMPEGPath,
		Quiet:      *opts.Quiet,
	})
	if err != nil {
		return err
	}

	log.Println("Starting offscreen render loop...")
	renderErr := r.RunFrames(*opts.Frames, func(frame int) error {
		pixels := make([]byte, target.FrameSize())
		if err := target.ReadPixels(pixels); err != nil {
			return fmt.Errorf("failed to read frame %d: %w", frame, err)
		}
		return rec.WriteFrame(pixels)
	})
	closeErr := rec.Close()
	if renderErr != nil {
		return renderErr
	}
	return closeErr
}

func init() {
	runtime.LockOSThread()
}

func main() {
	opts := options.Register(flag.CommandLine)
	flag.Parse()

	if *opts.Help {
		fmt.Println("Two Triangles")
		flag.PrintDefaults()
		return
	}

	os.Exit(run(opts))
}
