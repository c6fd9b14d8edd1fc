package morph

import "go.uber.org/zap"

// log is the package-level structured logger for degrade-and-continue
// paths (spec.md §7): sampling failures that fall back to a default
// instead of failing the request. Defaults to a no-op so importing this
// package never forces a logging backend on the host.
var log = zap.NewNop().Sugar()

// SetLogger installs the logger used for morph's warning paths. Passing
// nil restores the no-op default.
func SetLogger(l *zap.SugaredLogger) {
	if l == nil {
		log = zap.NewNop().Sugar()
		return
	}
	log = l
}
