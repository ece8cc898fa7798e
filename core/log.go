package core

import "github.com/sirupsen/logrus"

// SetLogLevel adjusts the package-level logrus logger, mirroring the
// teacher's own package-level logging convention (no injected logger
// struct). level is one of logrus's string level names ("trace", "debug",
// "info", "warn", ...).
func SetLogLevel(level string) error {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	logrus.SetLevel(parsed)
	return nil
}
