package packager

import (
	"context"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-ps"

	"github.com/oshokin/ccp-packager/internal/logger"
)

// IsPackagerRunningNow reports whether another process with this
// executable's name is already active, so two concurrent invocations
// cannot interleave archive and index writes into the same pool.
func IsPackagerRunningNow(ctx context.Context) bool {
	executable, err := os.Executable()
	if err != nil {
		logger.Infof(ctx, "Unable to resolve own executable: %v", err)

		return false
	}

	processList, err := ps.Processes()
	if err != nil {
		logger.Infof(ctx, "Unable to inspect process list: %v", err)

		return false
	}

	var (
		self          = filepath.Base(executable)
		thisProcessID = os.Getpid()
	)

	for _, process := range processList {
		if process.Pid() == thisProcessID {
			continue
		}

		if process.Executable() == self {
			return true
		}
	}

	return false
}
