package alpaca

import (
	"go.uber.org/zap"

	"go.alpaca.dev/morph/morph"
)

// log is the package-level structured logger for the public boundary's
// degrade-and-continue paths. Defaults to a no-op so importing this
// module never forces a logging backend on the host.
var log = zap.NewNop().Sugar()

// SetLogger installs the logger used for alpaca's warning paths, and
// propagates it to the morph package so a single call configures
// logging end to end. Passing nil restores the no-op default.
func SetLogger(l *zap.SugaredLogger) {
	if l == nil {
		log = zap.NewNop().Sugar()
	} else {
		log = l
	}
	morph.SetLogger(l)
}
