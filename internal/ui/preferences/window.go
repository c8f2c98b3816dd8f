package preferences

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
	"github.com/hay-kot/criterio"

	"timeout/internal/core/model"
)

// Window handles the preferences UI.
type Window struct {
	window        fyne.Window
	settings      model.Settings
	onSave        func(model.Settings) error
	sections      []*breakSection
	breaksBox     *fyne.Container
	postpone      *widget.Entry
	opacity       *widget.Slider
	fullscreen    *widget.Check
	launchAtLogin *widget.Check
	errorLabel    *widget.Label
}

// New creates a preferences window. onSave receives validated settings; an
// error it returns keeps the window open.
func New(app fyne.App, settings model.Settings, onSave func(model.Settings) error) *Window {
	window := app.NewWindow("TimeOut Settings")

	prefs := &Window{
		window:        window,
		onSave:        onSave,
		breaksBox:     container.NewVBox(),
		postpone:      widget.NewEntry(),
		opacity:       widget.NewSlider(model.MinOverlayOpacity, model.MaxOverlayOpacity),
		fullscreen:    widget.NewCheck("Fullscreen overlay", nil),
		launchAtLogin: widget.NewCheck("Launch at login", nil),
		errorLabel:    widget.NewLabel(""),
	}
	prefs.opacity.Step = 0.01
	prefs.errorLabel.Wrapping = fyne.TextWrapWord
	prefs.errorLabel.Importance = widget.DangerImportance

	general := container.NewVBox(
		widget.NewLabelWithStyle("General", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Postpone by"), prefs.postpone, widget.NewLabel("min")),
		widget.NewLabel("Overlay opacity"),
		prefs.opacity,
		prefs.fullscreen,
		prefs.launchAtLogin,
	)

	saveButton := widget.NewButton("Save", prefs.handleSave)
	cancelButton := widget.NewButton("Cancel", func() {
		prefs.UpdateSettings(prefs.settings)
		window.Hide()
	})
	buttons := container.NewVBox(prefs.errorLabel, container.NewHBox(saveButton, layout.NewSpacer(), cancelButton))

	form := container.NewVScroll(container.NewVBox(prefs.breaksBox, widget.NewSeparator(), general))
	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.Resize(fyne.NewSize(460, 560))
	window.SetCloseIntercept(window.Hide)

	prefs.UpdateSettings(settings)
	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings model.Settings) {
	prefs.settings = settings

	prefs.sections = prefs.sections[:0]
	prefs.breaksBox.RemoveAll()
	for _, config := range settings.Breaks {
		section := newBreakSection(config)
		prefs.sections = append(prefs.sections, section)
		prefs.breaksBox.Add(widget.NewCard(config.Name, "", section.view()))
	}

	prefs.postpone.SetText(strconv.Itoa(int(settings.PostponeDelay / time.Minute)))
	prefs.opacity.SetValue(settings.OverlayOpacity)
	prefs.fullscreen.SetChecked(settings.Fullscreen)
	prefs.launchAtLogin.SetChecked(settings.LaunchAtLogin)
	prefs.errorLabel.SetText("")
}

// collect reads the form into settings and validates them.
func (prefs *Window) collect() (model.Settings, error) {
	settings := prefs.settings
	settings.Breaks = make([]model.BreakConfig, 0, len(prefs.sections))

	var errs criterio.FieldErrorsBuilder
	for i, section := range prefs.sections {
		var config model.BreakConfig
		config, errs = section.collect(fmt.Sprintf("breaks[%d]", i), errs)
		settings.Breaks = append(settings.Breaks, config)
	}
	if minutes, ok := parsePositiveInt(prefs.postpone.Text); ok {
		settings.PostponeDelay = time.Duration(minutes) * time.Minute
	} else {
		errs = errs.Append("postpone_delay", notPositive(prefs.postpone.Text))
	}
	settings.OverlayOpacity = math.Round(prefs.opacity.Value*100) / 100
	settings.Fullscreen = prefs.fullscreen.Checked
	settings.LaunchAtLogin = prefs.launchAtLogin.Checked

	if err := errs.ToError(); err != nil {
		return settings, err
	}
	return settings, settings.Validate()
}

func (prefs *Window) handleSave() {
	settings, err := prefs.collect()
	if err != nil {
		prefs.errorLabel.SetText(err.Error())
		return
	}
	if prefs.onSave != nil {
		if err := prefs.onSave(settings); err != nil {
			prefs.errorLabel.SetText(err.Error())
			return
		}
	}

	prefs.UpdateSettings(settings)
	prefs.window.Hide()
}
