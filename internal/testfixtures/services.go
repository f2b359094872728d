package testfixtures

import (
	"context"
	"log/slog"
	"time"

	"github.com/example/frontdesk-log/internal/application"
)

// ServiceFactory assists tests with constructing application services using
// deterministic identifiers and clocks.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:       NewClock(time.Time{}),
		IDGenerator: NewIDGenerator(""),
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("")
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithIDGenerator overrides the identifier generator used by the factory.
func WithIDGenerator(generator *IDGenerator) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.IDGenerator = generator
	}
}

// NewLogService builds a log service over store and loads it.
func (f *ServiceFactory) NewLogService(store application.LogStore, logger *slog.Logger) *application.LogService {
	svc := application.NewLogServiceWithLogger(store, f.Clock.NowFunc(), logger)
	svc.Load(context.Background())
	return svc
}

// NewAuthService builds an auth service over store and loads it.
func (f *ServiceFactory) NewAuthService(store application.UserStore, logger *slog.Logger) *application.AuthService {
	svc := application.NewAuthServiceWithLogger(store, f.IDGenerator.NextFunc(), f.Clock.NowFunc(), logger)
	svc.Load(context.Background())
	return svc
}
