//go:build integration

package authlockout_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"vaultguard/internal/ratelimit/models"
	"vaultguard/internal/ratelimit/store/authlockout"
	dErrors "vaultguard/pkg/domain-errors"
	"vaultguard/pkg/testutil"
	"vaultguard/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *authlockout.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = authlockout.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateAll(context.Background()))
}

func (s *PostgresStoreSuite) registerFailure(ctx context.Context, accountID string, now time.Time) (*models.LockoutState, error) {
	return s.store.Update(ctx, accountID, func(st *models.LockoutState) error {
		st.RegisterFailure(now, 5, 30*time.Minute)
		return nil
	})
}

// Concurrent failures for one account serialize on the row lock; none are lost.
func (s *PostgresStoreSuite) TestConcurrentFailureRecording() {
	ctx := context.Background()
	accountID := s.postgres.CreateTestAccount(ctx, s.T())
	const goroutines = 50

	result := testutil.RunConcurrent(goroutines, func(int) error {
		_, err := s.store.Update(ctx, accountID, func(st *models.LockoutState) error {
			st.FailedAttempts++
			return nil
		})
		return err
	})
	s.Equal(int32(goroutines), result.Successes)

	state, err := s.store.Get(ctx, accountID)
	s.Require().NoError(err)
	s.Equal(goroutines, state.FailedAttempts)
}

func (s *PostgresStoreSuite) TestLockRoundTrip() {
	ctx := context.Background()
	accountID := s.postgres.CreateTestAccount(ctx, s.T())
	now := time.Now().UTC().Truncate(time.Microsecond)

	for i := 0; i < 5; i++ {
		_, err := s.registerFailure(ctx, accountID, now)
		s.Require().NoError(err)
	}

	state, err := s.store.Get(ctx, accountID)
	s.Require().NoError(err)
	s.Equal(5, state.FailedAttempts)
	s.Require().NotNil(state.LockedUntil)
	s.True(state.LockedUntil.Equal(now.Add(30 * time.Minute)))

	locked, err := s.store.CountLocked(ctx, now)
	s.Require().NoError(err)
	s.Equal(1, locked)

	purged, err := s.store.PurgeElapsed(ctx, now.Add(31*time.Minute))
	s.Require().NoError(err)
	s.Equal(1, purged)

	state, err = s.store.Get(ctx, accountID)
	s.Require().NoError(err)
	s.Zero(state.FailedAttempts)
	s.Nil(state.LockedUntil)
}

func (s *PostgresStoreSuite) TestUnknownAccount() {
	_, err := s.store.Update(context.Background(), uuid.NewString(), func(*models.LockoutState) error { return nil })
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}
