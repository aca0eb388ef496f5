package application

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/laundrydesk/laundrydesk/internal/domain"
)

// Option configures an OrderStore, CustomerBook or DashboardService.
type Option func(*options)

type options struct {
	now   domain.Clock
	log   logrus.FieldLogger
	warn  domain.WarningSink
	retry domain.RetryConfig
	loc   *time.Location
}

func defaultOptions() options {
	silent := logrus.New()
	silent.SetOutput(io.Discard)
	return options{
		now:   func() time.Time { return time.Now().UTC() },
		log:   silent,
		retry: domain.DefaultConfig().WriteRetry,
		loc:   time.Local,
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithClock overrides time.Now.
func WithClock(now domain.Clock) Option {
	return func(o *options) { o.now = now }
}

// WithLogger sets the structured logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(o *options) { o.log = log }
}

// WithWarnings sets where non-fatal persistence errors are reported.
func WithWarnings(sink domain.WarningSink) Option {
	return func(o *options) { o.warn = sink }
}

// WithRetry sets the write retry policy.
func WithRetry(r domain.RetryConfig) Option {
	return func(o *options) { o.retry = r }
}

// WithLocation sets the zone used for calendar-day boundaries.
func WithLocation(loc *time.Location) Option {
	return func(o *options) { o.loc = loc }
}
