package model

import (
	"testing"

	"github.com/hay-kot/criterio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings_Valid(t *testing.T) {
	assert.NoError(t, DefaultSettings().Validate())
}

func TestSettings_Validate_ReportsEveryField(t *testing.T) {
	settings := DefaultSettings()
	settings.PostponeDelay = 0
	settings.OverlayOpacity = 0.2
	settings.Breaks[0].Interval = 0

	err := settings.Validate()

	var fieldErrs criterio.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)

	fields := make([]string, 0, len(fieldErrs))
	for _, fieldErr := range fieldErrs {
		fields = append(fields, fieldErr.Field)
	}
	assert.ElementsMatch(t, []string{"breaks[0].interval", "postpone_delay", "overlay_opacity"}, fields)
}
