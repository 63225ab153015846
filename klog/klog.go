// Package klog provides the subsystem-logger convention used throughout
// the daemon: one named, leveled logger per package, in the manner of
// lnd's ltndLog/peerLog/breachLog split. Backed by
// github.com/sirupsen/logrus (the structured logger used elsewhere in
// the retrieval pack for this kind of long-lived node process).
package klog

import "github.com/sirupsen/logrus"

// NewSubsystem returns a logger tagged with subsystem, defaulting to
// Info level absent an explicit override.
func NewSubsystem(tag string) *logrus.Entry {
	base := logrus.New()
	base.SetLevel(logrus.InfoLevel)
	return base.WithField("subsystem", tag)
}
