// Copyright (c) 2017, Daniel Martí <mvdan@mvdan.cc>
// See LICENSE for licensing information

package interp

import "github.com/sirupsen/logrus"

// trace is a nil-safe structured log call: a Shell built without
// WithLogger pays nothing for tracing.
func (s *Shell) trace(event string, fields logrus.Fields) {
	if s.logger == nil {
		return
	}
	s.logger.WithFields(fields).Debug(event)
}

// warn is trace's Warn-level counterpart, used for command-not-found
// and handler-failure conditions.
func (s *Shell) warn(event string, fields logrus.Fields) {
	if s.logger == nil {
		return
	}
	s.logger.WithFields(fields).Warn(event)
}
