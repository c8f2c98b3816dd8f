package preferences

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/hay-kot/criterio"

	"timeout/internal/core/model"
)

// breakSection edits one break config.
type breakSection struct {
	config        model.BreakConfig
	name          *widget.Entry
	enabled       *widget.Check
	interval      *widget.Entry
	duration      *widget.Entry
	resetOnIdle   *widget.Check
	idleThreshold *widget.Entry
	strict        *widget.Check
}

func newBreakSection(config model.BreakConfig) *breakSection {
	section := &breakSection{
		name:          widget.NewEntry(),
		enabled:       widget.NewCheck("Enabled", nil),
		interval:      widget.NewEntry(),
		duration:      widget.NewEntry(),
		resetOnIdle:   widget.NewCheck("Reset after idle", nil),
		idleThreshold: widget.NewEntry(),
		strict:        widget.NewCheck("Strict (no skip or postpone)", nil),
	}
	section.set(config)
	return section
}

func (section *breakSection) set(config model.BreakConfig) {
	section.config = config
	section.name.SetText(config.Name)
	section.enabled.SetChecked(config.Enabled)
	section.interval.SetText(strconv.Itoa(int(config.Interval / time.Minute)))
	section.duration.SetText(strconv.Itoa(int(config.Duration / time.Second)))
	section.resetOnIdle.SetChecked(config.ResetOnIdle)
	section.idleThreshold.SetText(strconv.Itoa(int(config.IdleThreshold / time.Minute)))
	section.strict.SetChecked(config.Strict)
}

func (section *breakSection) view() fyne.CanvasObject {
	return container.NewVBox(
		container.NewBorder(nil, nil, widget.NewLabel("Name"), section.enabled, section.name),
		container.NewHBox(widget.NewLabel("Every"), section.interval, widget.NewLabel("min"),
			widget.NewLabel("for"), section.duration, widget.NewLabel("sec")),
		container.NewHBox(section.resetOnIdle, section.idleThreshold, widget.NewLabel("min idle")),
		section.strict,
	)
}

// collect reads the widgets back into a config, reporting unparsable
// fields under prefix.
func (section *breakSection) collect(prefix string, errs criterio.FieldErrorsBuilder) (model.BreakConfig, criterio.FieldErrorsBuilder) {
	config := section.config
	config.Name = strings.TrimSpace(section.name.Text)
	config.Enabled = section.enabled.Checked
	config.ResetOnIdle = section.resetOnIdle.Checked
	config.Strict = section.strict.Checked

	if minutes, ok := parsePositiveInt(section.interval.Text); ok {
		config.Interval = time.Duration(minutes) * time.Minute
	} else {
		errs = errs.Append(prefix+".interval", notPositive(section.interval.Text))
	}
	if seconds, ok := parsePositiveInt(section.duration.Text); ok {
		config.Duration = time.Duration(seconds) * time.Second
	} else {
		errs = errs.Append(prefix+".duration", notPositive(section.duration.Text))
	}
	if minutes, ok := parsePositiveInt(section.idleThreshold.Text); ok {
		config.IdleThreshold = time.Duration(minutes) * time.Minute
	} else if config.ResetOnIdle {
		errs = errs.Append(prefix+".idle_threshold", notPositive(section.idleThreshold.Text))
	}
	return config, errs
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}

func notPositive(value string) error {
	return fmt.Errorf("%q is not a positive whole number", value)
}
