// Package errors provides panic-safe concurrency helpers shared across
// the module.
package errors

import (
	"runtime/debug"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// GroupWrapper embeds errgroup.Group and adds panic recovery, so a
// panicking worker surfaces as an error instead of crashing the process.
type GroupWrapper struct {
	*errgroup.Group
	logger   logrus.FieldLogger
	panicErr error
}

// NewGroupWrapper creates a GroupWrapper. A nil logger falls back to the
// standard logrus logger.
func NewGroupWrapper(logger logrus.FieldLogger) *GroupWrapper {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &GroupWrapper{
		Group:  new(errgroup.Group),
		logger: logger,
	}
}

// Go runs f on the underlying errgroup with panic recovery.
func (g *GroupWrapper) Go(f func() error) {
	g.Group.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				g.logger.WithField("action", "recover_panic").
					Errorf("recovered from panic: %v", r)
				debug.PrintStack()
				err = errors.Errorf("panic occurred: %v", r)
				g.panicErr = err
			}
		}()
		return f()
	})
}

// Wait waits for all workers and returns the first non-nil error,
// preferring an error over a recovered panic.
func (g *GroupWrapper) Wait() error {
	if err := g.Group.Wait(); err != nil {
		return err
	}
	return g.panicErr
}
