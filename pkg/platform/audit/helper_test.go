package audit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"

	"vaultguard/pkg/requestcontext"
)

type mockEmitter struct {
	events    []Event
	shouldErr bool
}

func (m *mockEmitter) Emit(_ context.Context, event Event) error {
	if m.shouldErr {
		return errors.New("emit failed")
	}
	m.events = append(m.events, event)
	return nil
}

// LoggerSuite tests the audit Logger helper.
type LoggerSuite struct {
	suite.Suite
	emitter *mockEmitter
	logger  *Logger
}

func TestLoggerSuite(t *testing.T) {
	suite.Run(t, new(LoggerSuite))
}

func (s *LoggerSuite) SetupTest() {
	s.emitter = &mockEmitter{}
	s.logger = NewLogger(slog.New(slog.NewTextHandler(io.Discard, nil)), s.emitter)
}

func (s *LoggerSuite) TestRecordEnrichesFromContext() {
	ctx := requestcontext.WithRequestID(context.Background(), "req-12345")
	ctx = requestcontext.WithClientMetadata(ctx, "10.0.0.1", "curl/8.0")
	ctx = requestcontext.WithDevice(ctx, "curl")

	s.logger.Record(ctx, EventLoginFailed, "acct-1", false, "invalid credentials")

	s.Require().Len(s.emitter.events, 1)
	e := s.emitter.events[0]
	s.Equal("LOGIN_FAILED", e.Action)
	s.Equal("acct-1", e.AccountID)
	s.False(e.Success)
	s.Equal("invalid credentials", e.Detail)
	s.Equal("req-12345", e.RequestID)
	s.Equal("10.0.0.1", e.IP)
	s.Equal("curl", e.Device)
}

func (s *LoggerSuite) TestRecordSwallowsEmitErrors() {
	s.emitter.shouldErr = true
	s.NotPanics(func() {
		s.logger.Record(context.Background(), EventRegister, "acct-1", true, "")
	})
}

func (s *LoggerSuite) TestNilSafe() {
	var nilLogger *Logger
	s.NotPanics(func() {
		nilLogger.Record(context.Background(), EventRegister, "acct-1", true, "")
	})
	s.NotPanics(func() {
		NewLogger(nil, nil).Record(context.Background(), EventRegister, "acct-1", true, "")
	})
}

func (s *LoggerSuite) TestCategory() {
	s.Equal(CategorySecurity, EventLoginFailed.Category())
	s.Equal(CategorySecurity, EventRateLimitBlocked.Category())
	s.Equal(CategoryVault, EventRevealPassword.Category())
	s.Equal(CategoryOperations, EventRegister.Category())
	s.Equal(CategoryOperations, AuditEvent("SOMETHING_NEW").Category())
}
