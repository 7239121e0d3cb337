package testfixtures

import (
	"log/slog"
	"time"

	"github.com/example/goal-tracker/internal/application"
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
		IDGenerator: NewIDGenerator("id"),
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("id")
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

func (f *ServiceFactory) idGen(override func() string) func() string {
	if override != nil {
		return override
	}
	return f.IDGenerator.NextFunc()
}

func (f *ServiceFactory) nowFn(override func() time.Time) func() time.Time {
	if override != nil {
		return override
	}
	return f.Clock.NowFunc()
}

// GoalServiceDeps captures dependencies for constructing a goal service.
type GoalServiceDeps struct {
	Goals       application.GoalRepository
	Communities application.CommunityCatalog
	IDGenerator func() string
	Now         func() time.Time
	Logger      *slog.Logger
}

// NewGoalService builds a goal service using the supplied dependencies
// combined with the factory defaults.
func (f *ServiceFactory) NewGoalService(deps GoalServiceDeps) *application.GoalService {
	return application.NewGoalService(
		deps.Goals,
		deps.Communities,
		f.idGen(deps.IDGenerator),
		f.nowFn(deps.Now),
		deps.Logger,
	)
}

// ActionableServiceDeps captures dependencies for constructing an actionable
// service.
type ActionableServiceDeps struct {
	Actionables application.ActionableRepository
	Goals       application.GoalFinder
	IDGenerator func() string
	Now         func() time.Time
	Logger      *slog.Logger
}

// NewActionableService builds an actionable service using the supplied
// dependencies.
func (f *ServiceFactory) NewActionableService(deps ActionableServiceDeps) *application.ActionableService {
	return application.NewActionableService(
		deps.Actionables,
		deps.Goals,
		f.idGen(deps.IDGenerator),
		f.nowFn(deps.Now),
		deps.Logger,
	)
}

// CompletionServiceDeps captures dependencies for constructing a completion
// service.
type CompletionServiceDeps struct {
	Completions application.CompletionRepository
	Actionables application.ActionableFinder
	Goals       application.GoalFinder
	IDGenerator func() string
	Now         func() time.Time
	Logger      *slog.Logger
}

// NewCompletionService builds a completion service using the supplied
// dependencies.
func (f *ServiceFactory) NewCompletionService(deps CompletionServiceDeps) *application.CompletionService {
	return application.NewCompletionService(
		deps.Completions,
		deps.Actionables,
		deps.Goals,
		f.idGen(deps.IDGenerator),
		f.nowFn(deps.Now),
		deps.Logger,
	)
}

// CommunityServiceDeps captures dependencies for constructing a community
// service.
type CommunityServiceDeps struct {
	Communities application.CommunityRepository
	IDGenerator func() string
	Now         func() time.Time
	Logger      *slog.Logger
}

// NewCommunityService builds a community service using the supplied
// dependencies.
func (f *ServiceFactory) NewCommunityService(deps CommunityServiceDeps) *application.CommunityService {
	return application.NewCommunityService(
		deps.Communities,
		f.idGen(deps.IDGenerator),
		f.nowFn(deps.Now),
		deps.Logger,
	)
}

// UserServiceDeps captures dependencies for constructing a user service.
type UserServiceDeps struct {
	Users       application.UserRepository
	IDGenerator func() string
	Now         func() time.Time
	Logger      *slog.Logger
}

// NewUserService builds a user service using the supplied dependencies.
func (f *ServiceFactory) NewUserService(deps UserServiceDeps) *application.UserService {
	return application.NewUserService(
		deps.Users,
		f.idGen(deps.IDGenerator),
		f.nowFn(deps.Now),
		deps.Logger,
	)
}

// AuthServiceDeps captures dependencies for constructing an auth service.
type AuthServiceDeps struct {
	Credentials    application.CredentialStore
	Sessions       application.SessionRepository
	Verify         application.PasswordVerifier
	TokenGenerator func() string
	Now            func() time.Time
	SessionTTL     time.Duration
	Logger         *slog.Logger
}

// NewAuthService builds an auth service using the supplied dependencies. The
// factory ID generator doubles as the token generator when none is provided.
func (f *ServiceFactory) NewAuthService(deps AuthServiceDeps) *application.AuthService {
	return application.NewAuthService(
		deps.Credentials,
		deps.Sessions,
		deps.Verify,
		f.idGen(deps.TokenGenerator),
		f.nowFn(deps.Now),
		deps.SessionTTL,
		deps.Logger,
	)
}

// CalendarServiceDeps captures dependencies for constructing a calendar
// service.
type CalendarServiceDeps struct {
	Occurrences application.OccurrenceLister
	Now         func() time.Time
	Logger      *slog.Logger
}

// NewCalendarService builds a calendar service using the supplied
// dependencies.
func (f *ServiceFactory) NewCalendarService(deps CalendarServiceDeps) *application.CalendarService {
	return application.NewCalendarService(
		deps.Occurrences,
		f.nowFn(deps.Now),
		deps.Logger,
	)
}
