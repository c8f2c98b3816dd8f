package overlay

import (
	"fmt"
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"timeout/internal/core/model"
	"timeout/internal/core/scheduler"
)

// Config defines overlay visuals.
type Config struct {
	Opacity       float64
	Fullscreen    bool
	PostponeDelay time.Duration
}

// Session describes the break shown on the overlay.
type Session struct {
	Title     string
	Message   string
	Remaining time.Duration
	Progress  float64
	Strict    bool
}

// NewSession builds the overlay content for a running break.
func NewSession(active scheduler.Break, remaining time.Duration, progress float64) Session {
	return Session{
		Title:     active.Config.Name + " Break",
		Message:   breakMessage(active.Config),
		Remaining: remaining,
		Progress:  progress,
		Strict:    active.Config.Strict,
	}
}

// Window manages the overlay UI. Its methods touch widgets and must run on
// the fyne goroutine.
type Window struct {
	window         fyne.Window
	config         Config
	background     *canvas.Rectangle
	titleLabel     *canvas.Text
	messageLabel   *canvas.Text
	timerLabel     *canvas.Text
	progress       *widget.ProgressBar
	skipButton     *widget.Button
	postponeButton *widget.Button
	onSkip         func()
	onPostpone     func()
	visible        bool
}

const (
	overlayWidthFraction  = float32(0.4)
	overlayHeightFraction = float32(0.45)
	defaultScreenWidth    = float32(1920)
	defaultScreenHeight   = float32(1080)
)

type splashWindowDriver interface {
	CreateSplashWindow() fyne.Window
}

// New creates a hidden overlay window.
func New(app fyne.App, config Config) *Window {
	window := app.NewWindow("TimeOut")
	if driver, ok := app.Driver().(splashWindowDriver); ok {
		// Splash window is undecorated (no native frame/buttons).
		window = driver.CreateSplashWindow()
	}
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}
	window.SetPadded(false)

	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}

	titleLabel := canvas.NewText("", white)
	titleLabel.Alignment = fyne.TextAlignCenter
	titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	titleLabel.TextSize = 48

	messageLabel := canvas.NewText("", white)
	messageLabel.Alignment = fyne.TextAlignCenter
	messageLabel.TextSize = 18

	timerLabel := canvas.NewText("--:--", color.NRGBA{R: 120, G: 220, B: 140, A: 255})
	timerLabel.Alignment = fyne.TextAlignCenter
	timerLabel.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	timerLabel.TextSize = 64

	progress := widget.NewProgressBar()
	progress.TextFormatter = func() string { return "" }

	overlay := &Window{
		window:       window,
		config:       config,
		background:   canvas.NewRectangle(color.NRGBA{A: opacityToAlpha(config.Opacity)}),
		titleLabel:   titleLabel,
		messageLabel: messageLabel,
		timerLabel:   timerLabel,
		progress:     progress,
	}
	overlay.skipButton = widget.NewButtonWithIcon("Skip", theme.MediaSkipNextIcon(), func() {
		if overlay.onSkip != nil {
			overlay.onSkip()
		}
	})
	overlay.postponeButton = widget.NewButtonWithIcon(postponeLabel(config.PostponeDelay), theme.HistoryIcon(), func() {
		if overlay.onPostpone != nil {
			overlay.onPostpone()
		}
	})

	buttons := container.NewHBox(overlay.postponeButton, overlay.skipButton)
	panel := container.New(&panelLayout{}, titleLabel, messageLabel, timerLabel, progress, container.NewCenter(buttons))
	window.SetContent(container.NewStack(overlay.background, panel))

	return overlay
}

// Show displays the overlay for a break session.
func (overlay *Window) Show(session Session) {
	overlay.titleLabel.Text = session.Title
	overlay.titleLabel.Refresh()
	overlay.messageLabel.Text = session.Message
	overlay.messageLabel.Refresh()
	overlay.setStrict(session.Strict)
	overlay.Update(session.Remaining, session.Progress)

	overlay.applyWindowMode()
	overlay.window.Show()
	overlay.window.RequestFocus()
	overlay.applyNativeOpacity(opacityToAlpha(overlay.config.Opacity))
	overlay.visible = true
}

// Update refreshes the countdown and progress bar.
func (overlay *Window) Update(remaining time.Duration, progress float64) {
	overlay.timerLabel.Text = scheduler.FormatRemaining(remaining)
	overlay.timerLabel.Refresh()
	overlay.progress.SetValue(clampProgress(progress))
}

// Hide closes the overlay.
func (overlay *Window) Hide() {
	if overlay.config.Fullscreen {
		overlay.window.SetFullScreen(false)
	}
	overlay.window.Hide()
	overlay.visible = false
}

// Visible reports whether a session is on screen.
func (overlay *Window) Visible() bool {
	return overlay.visible
}

// SetOnSkip sets skip handler.
func (overlay *Window) SetOnSkip(handler func()) {
	overlay.onSkip = handler
}

// SetOnPostpone sets postpone handler.
func (overlay *Window) SetOnPostpone(handler func()) {
	overlay.onPostpone = handler
}

// UpdateConfig updates overlay visuals.
func (overlay *Window) UpdateConfig(config Config) {
	overlay.config = config
	overlay.background.FillColor = color.NRGBA{A: opacityToAlpha(config.Opacity)}
	canvas.Refresh(overlay.background)
	overlay.postponeButton.SetText(postponeLabel(config.PostponeDelay))
	if overlay.visible {
		overlay.applyWindowMode()
		overlay.applyNativeOpacity(opacityToAlpha(config.Opacity))
	}
}

func (overlay *Window) setStrict(strict bool) {
	if strict {
		overlay.skipButton.Hide()
		overlay.postponeButton.Hide()
		return
	}
	overlay.skipButton.Show()
	overlay.postponeButton.Show()
}

func (overlay *Window) applyWindowMode() {
	if overlay.config.Fullscreen {
		overlay.window.SetFullScreen(true)
		return
	}
	overlay.window.SetFullScreen(false)
	overlay.resizeToScreenFraction()
}

func (overlay *Window) resizeToScreenFraction() {
	screenSize := fyne.NewSize(defaultScreenWidth, defaultScreenHeight)
	canvasSize := overlay.window.Canvas().Size()
	// Canvas size can be reused as a proxy for monitor size when it is clearly screen-like.
	if canvasSize.Width >= 1024 && canvasSize.Height >= 720 {
		screenSize = canvasSize
	}

	width := screenSize.Width * overlayWidthFraction
	height := screenSize.Height * overlayHeightFraction
	minSize := overlay.window.Content().MinSize()
	if width < minSize.Width {
		width = minSize.Width
	}
	if height < minSize.Height {
		height = minSize.Height
	}

	overlay.window.Resize(fyne.NewSize(width, height))
	overlay.window.CenterOnScreen()
}

func breakMessage(config model.BreakConfig) string {
	if config.Duration < time.Minute {
		return "Look at something far away and relax your eyes."
	}
	return "Stand up, stretch and step away from the screen."
}

func postponeLabel(delay time.Duration) string {
	if delay <= 0 {
		delay = model.DefaultPostponeDelay
	}
	return fmt.Sprintf("Postpone %dm", int(delay.Minutes()))
}

// opacityToAlpha maps a 0..1 opacity onto an 8-bit alpha.
func opacityToAlpha(opacity float64) uint8 {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	return uint8(opacity*255 + 0.5)
}

func clampProgress(progress float64) float64 {
	if progress < 0 {
		return 0
	}
	if progress > 1 {
		return 1
	}
	return progress
}

// panelLayout stacks title, message, timer, progress and buttons in a
// centered column; the progress bar takes 60% of the width.
type panelLayout struct{}

const panelSpacing = float32(18)

func (layout *panelLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) < 5 {
		return
	}
	contentHeight := layout.MinSize(objects).Height
	y := (size.Height - contentHeight) / 2
	if y < 0 {
		y = 0
	}

	for i, object := range objects[:5] {
		objectSize := object.MinSize()
		width := size.Width
		if i == 3 {
			width = size.Width * 0.6
		}
		object.Move(fyne.NewPos((size.Width-width)/2, y))
		object.Resize(fyne.NewSize(width, objectSize.Height))
		y += objectSize.Height + panelSpacing
	}
}

func (layout *panelLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	if len(objects) < 5 {
		return fyne.NewSize(0, 0)
	}
	var width, height float32
	for _, object := range objects[:5] {
		objectSize := object.MinSize()
		if objectSize.Width > width {
			width = objectSize.Width
		}
		height += objectSize.Height
	}
	height += panelSpacing * 4
	return fyne.NewSize(width+40, height+40)
}
