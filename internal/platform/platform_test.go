package platform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileText(t *testing.T) {
	for _, p := range []Profile{ProfileAny, ProfileCore, ProfileCompat} {
		text, err := p.MarshalText()
		require.NoError(t, err)

		var got Profile
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, p, got)
	}

	var p Profile
	require.NoError(t, p.UnmarshalText([]byte(" Compatibility ")))
	assert.Equal(t, ProfileCompat, p)
	require.NoError(t, p.UnmarshalText(nil))
	assert.Equal(t, ProfileAny, p)
	assert.Error(t, p.UnmarshalText([]byte("es")))
}

func TestContextRequestString(t *testing.T) {
	req := ContextRequest{Major: 3, Minor: 3, Profile: ProfileCore, Samples: 4}
	assert.Equal(t, "3.3 core (samples=4)", req.String())
	assert.Equal(t, "4.1", ContextInfo{Major: 4, Minor: 1}.Version())
}

func TestHeadlessBackend_NoGLContext(t *testing.T) {
	b := NewHeadlessBackend(nil)
	w, err := b.NewGLWindow(WindowConfig{Width: 10, Height: 10}, ContextRequest{Major: 3, Minor: 3})
	assert.Nil(t, w)
	assert.ErrorIs(t, err, ErrNoContext)
	assert.ErrorContains(t, err, "3.3")
}

func TestHeadlessWindow_Lifecycle(t *testing.T) {
	b := NewHeadlessBackend(nil)
	win, err := b.NewPlaceholderWindow(WindowConfig{Title: "demo", Width: 100, Height: 50})
	require.NoError(t, err)
	w := win.(*HeadlessWindow)

	assert.Equal(t, "demo", w.Title())
	assert.False(t, w.Alive(), "hidden until shown")
	w.Show()
	assert.True(t, w.Alive())

	width, height := w.FramebufferSize()
	assert.Equal(t, 100, width)
	assert.Equal(t, 50, height)

	b.Terminate()
	assert.False(t, w.Alive())
	w.Show()
	assert.False(t, w.Alive(), "a closed window cannot be shown again")
}

func TestHeadlessWindow_EventsArriveThroughPump(t *testing.T) {
	b := NewHeadlessBackend(nil)
	win, err := b.NewPlaceholderWindow(WindowConfig{Width: 100, Height: 50})
	require.NoError(t, err)
	w := win.(*HeadlessWindow)
	w.Show()

	var events []Event
	w.SetEventHandler(func(e Event) { events = append(events, e) })

	w.Resize(300, 200)
	w.RequestClose()
	assert.Empty(t, events, "nothing is delivered outside the pump")
	assert.True(t, w.Alive())

	b.PollEvents()
	assert.Equal(t, []Event{Resize{Width: 300, Height: 200}, CloseRequest{}}, events)
	width, height := w.FramebufferSize()
	assert.Equal(t, 300, width)
	assert.Equal(t, 200, height)
	assert.Equal(t, 300, w.Surface().Bounds().Dx())
	assert.False(t, w.Alive())
}

func TestHeadlessBackend_PostEmptyEventWakesPump(t *testing.T) {
	b := NewHeadlessBackend(nil)
	go b.PostEmptyEvent()

	start := time.Now()
	b.WaitEventsTimeout(5 * time.Second)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestHeadlessBackend_WaitTimesOut(t *testing.T) {
	b := NewHeadlessBackend(nil)
	start := time.Now()
	b.WaitEventsTimeout(20 * time.Millisecond)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestRGBASurface(t *testing.T) {
	s := NewRGBASurface(-3, 4)
	assert.Equal(t, 0, s.Bounds().Dx())
	assert.Equal(t, 4, s.Bounds().Dy())
	assert.Same(t, s.RGBA(), s.RGBA())

	custom := surfaceFactoryFunc(func(w, h int) Surface { return NewRGBASurface(w*2, h*2) })
	b := NewHeadlessBackend(custom)
	win, err := b.NewPlaceholderWindow(WindowConfig{Width: 5, Height: 5})
	require.NoError(t, err)
	width, _ := win.FramebufferSize()
	assert.Equal(t, 5, width)
	assert.Equal(t, 10, win.(*HeadlessWindow).Surface().Bounds().Dx())
}

func TestHeadlessWindow_SurfaceAllocatedOnDemand(t *testing.T) {
	allocs := 0
	counting := surfaceFactoryFunc(func(w, h int) Surface {
		allocs++
		return NewRGBASurface(w, h)
	})
	b := NewHeadlessBackend(counting)
	win, err := b.NewPlaceholderWindow(WindowConfig{Width: 1000, Height: 1000})
	require.NoError(t, err)
	w := win.(*HeadlessWindow)

	w.Resize(800, 600)
	w.Resize(640, 480)
	b.PollEvents()
	assert.Zero(t, allocs, "resizing only tracks the size")
	width, height := w.FramebufferSize()
	assert.Equal(t, 640, width)
	assert.Equal(t, 480, height)

	first := w.Surface()
	assert.Same(t, first, w.Surface())
	assert.Equal(t, 1, allocs)

	w.Resize(640, 480)
	b.PollEvents()
	assert.Same(t, first, w.Surface(), "same size keeps the buffer")

	w.Resize(-1, 20)
	b.PollEvents()
	width, height = w.FramebufferSize()
	assert.Equal(t, 0, width)
	assert.Equal(t, 20, height)
	assert.Equal(t, 20, w.Surface().Bounds().Dy())
	assert.Equal(t, 2, allocs)
}
