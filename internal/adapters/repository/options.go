package repository

import (
	"time"

	"gorm.io/gorm/logger"
)

type options struct {
	now       func() time.Time
	sqlLogger logger.Interface
}

// Option applies a configuration option to a store.
type Option func(*options)

// WithClock sets the time source used for rating timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithSQLLogger sets the GORM logger of the SQL store. Silent by default.
func WithSQLLogger(l logger.Interface) Option {
	return func(o *options) {
		if l != nil {
			o.sqlLogger = l
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		now:       time.Now,
		sqlLogger: logger.Default.LogMode(logger.Silent),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
