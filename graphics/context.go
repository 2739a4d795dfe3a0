package graphics

// Context defines the interface for a window that owns an OpenGL context.
type Context interface {
	MakeCurrent()
	Shutdown()
	ShouldClose() bool
	SetShouldClose(bool)
	// EndFrame presents the back buffer and polls the window system.
	EndFrame()
	GetFramebufferSize() (int, int)
	// Events drains the input events queued since the previous call.
	Events() []Event
}
