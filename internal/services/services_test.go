package services

import (
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"roadtrip/internal/infra/testdb"
	"roadtrip/internal/repositories"
)

type sentInvitation struct {
	to, inviter, trip, tripID string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentInvitation
	err  error
}

func (m *recordingMailer) SendTripInvitation(to, inviterName, tripName string, tripID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentInvitation{to, inviterName, tripName, tripID})
	return m.err
}

// fakeClock is a settable time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type fixture struct {
	db        *gorm.DB
	trips     repositories.RoadTripRepository
	accounts  repositories.AccountRepository
	waypoints repositories.WaypointRepository
	sessions  repositories.SessionRepository
	clock     *fakeClock
	mailer    *recordingMailer
}

func newFixture(t *testing.T) *fixture {
	db := testdb.Open(t)
	return &fixture{
		db:        db,
		trips:     repositories.NewRoadTripRepository(db),
		accounts:  repositories.NewAccountRepository(db),
		waypoints: repositories.NewWaypointRepository(db),
		sessions:  repositories.NewSessionRepository(db),
		clock:     &fakeClock{now: time.Date(2026, 5, 2, 8, 30, 0, 0, time.UTC)},
		mailer:    &recordingMailer{},
	}
}

func (f *fixture) sessionService() *SessionService {
	return newSessionService(f.sessions, f.trips, 24*time.Hour, f.clock.Now, zap.NewNop())
}

func (f *fixture) waypointService() WaypointServiceInterface {
	return NewWaypointService(f.trips, f.waypoints, zap.NewNop())
}

func (f *fixture) roadTripService() RoadTripServiceInterface {
	return NewRoadTripService(f.trips, f.accounts, f.mailer, zap.NewNop())
}

func ptr[T any](v T) *T { return &v }
