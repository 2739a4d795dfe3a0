package options

import (
	"flag"
	"log"
)

// Options holds the command-line configuration. Fields are pointers so they
// can be bound directly to a flag.FlagSet.
type Options struct {
	ConfigFile *string
	Help       *bool
	Width      *int
	Height     *int
	Title      *string
	Translate  *bool // route shader sources through the ANGLE translator
	Record     *bool
	Frames     *int
	FPS        *int
	OutputFile *string
	Codec      *string
	FFMPEGPath *string
	Quiet      *bool
}

// Register binds every option to fs with its default value.
func Register(fs *flag.FlagSet) *Options {
	return &Options{
		ConfigFile: fs.String("config", "", "YAML scene file (defaults to the built-in two-triangle scene)"),
		Help:       fs.Bool("help", false, "Show help message"),
		Width:      fs.Int("width", 0, "Window width, overrides the scene file"),
		Height:     fs.Int("height", 0, "Window height, overrides the scene file"),
		Title:      fs.String("title", "", "Window title, overrides the scene file"),
		Translate:  fs.Bool("translate", false, "Validate and translate shaders with the ANGLE translator"),
		Record:     fs.Bool("record", false, "Render offscreen and encode the frames to a video file"),
		Frames:     fs.Int("frames", 120, "Number of frames to record"),
		FPS:        fs.Int("fps", 60, "Frames per second for recording"),
		OutputFile: fs.String("output", "output.mp4", "Output file name for recording"),
		Codec:      fs.String("codec", "h264", "Video codec for recording (h264 or hevc)"),
		FFMPEGPath: fs.String("ffmpeg", "", "Path to ffmpeg executable"),
		Quiet:      fs.Bool("quiet", false, "Hide the recording progress bar"),
	}
}

// Apply copies window overrides from the command line onto the scene.
func (o *Options) Apply(scene *SceneConfig) {
	if o.Width != nil && *o.Width > 0 {
		scene.Width = *o.Width
	}
	if o.Height != nil && *o.Height > 0 {
		scene.Height = *o.Height
	}
	if o.Title != nil && *o.Title != "" {
		scene.Title = *o.Title
	}
}

// Resolve builds the scene to run: the built-in scene, or the scene file
// named by -config, with the command-line window overrides applied. The
// result is validated.
func (o *Options) Resolve() (*SceneConfig, error) {
	scene := DefaultScene()
	if o.ConfigFile != nil && *o.ConfigFile != "" {
		var err error
		scene, err = LoadScene(*o.ConfigFile)
		if err != nil {
			return nil, err
		}
		log.Printf("Loaded scene file: %s", *o.ConfigFile)
	}
	o.Apply(scene)
	if err := scene.Validate(); err != nil {
		return nil, err
	}
	return scene, nil
}
