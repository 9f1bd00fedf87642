package app

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

// NewLogger returns a text logger at the named level.
func NewLogger(level string, out io.Writer) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log_level %q: %w", level, err)
	}
	log := logrus.New()
	log.SetOutput(out)
	log.SetLevel(lvl)
	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: lvl < logrus.DebugLevel,
		FullTimestamp:    true,
	})
	return log, nil
}
