package log

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/takara-ml/donorml/pkg/errors"
)

// SetupWarningLogger routes library warnings (ConvergenceWarning and
// friends) through a zerolog JSON logger writing to w. Warnings that
// implement zerolog.LogObjectMarshaler are emitted with their structured
// fields; anything else falls back to the message string.
func SetupWarningLogger(w io.Writer) {
	logger := zerolog.New(w).With().Timestamp().Logger()
	errors.SetZerologWarnFunc(func(warning error) {
		event := logger.Warn()
		if obj, ok := warning.(zerolog.LogObjectMarshaler); ok {
			event = event.Object(WarningAttrKey, obj)
		} else {
			event = event.Str(WarningAttrKey, warning.Error())
		}
		event.Msg("donorml warning")
	})
}
