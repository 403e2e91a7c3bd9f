package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ridewise/ridewise/internal/config"
	"github.com/ridewise/ridewise/internal/csvparse"
	"github.com/ridewise/ridewise/internal/database"
	"github.com/ridewise/ridewise/internal/database/mock"
	"github.com/ridewise/ridewise/internal/fleet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// Saturday, so no rush hour alert.
var testNow = time.Date(2026, time.March, 7, 12, 0, 0, 0, time.UTC)

type fakeAlerter struct {
	mu      sync.Mutex
	enabled bool
	err     error
	sent    []fleet.Alert
}

func (f *fakeAlerter) Enabled() bool { return f.enabled }

func (f *fakeAlerter) SendAlert(_ context.Context, alert fleet.Alert) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, alert)
	return f.err
}

func newTestEngine(t *testing.T) (*Engine, *mock.MockDB) {
	t.Helper()
	cfg := config.Default()
	cfg.SessionKey = "secret"
	cfg.Fleet.TickInterval = time.Hour
	cfg.Fleet.AlertInterval = time.Hour

	db := mock.NewMockDB()
	e, err := New(cfg, db)
	require.NoError(t, err)
	e.now = func() time.Time { return testNow }
	t.Cleanup(func() { _ = e.Close() })
	return e, db
}

func TestNew_RegistersJobs(t *testing.T) {
	e, _ := newTestEngine(t)

	jobs := e.GetScheduler().GetJobs()
	require.Len(t, jobs, 3)
	assert.Equal(t, JobFleetAlerts, jobs[0].ID)
	assert.Equal(t, JobFleetTick, jobs[1].ID)
	assert.Equal(t, JobUploadRetention, jobs[2].ID)
	assert.Equal(t, "0 3 * * *", jobs[2].Schedule)
	assert.True(t, jobs[1].Singleton)
}

func TestNew_InvalidWebPush(t *testing.T) {
	cfg := config.Default()
	cfg.WebPush.Enabled = true
	cfg.WebPush.VAPIDEmail = "ops@example.com"
	cfg.WebPush.PublicKey = "!!"
	cfg.WebPush.PrivateKey = "!!"

	_, err := New(cfg, mock.NewMockDB())
	assert.ErrorContains(t, err, "invalid webpush config")
}

func TestFleetTick(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	initial := e.FleetStats(ctx)
	assert.Equal(t, 847, initial.Total, "falls back to the simulator on a cache miss")

	require.NoError(t, e.runFleetTick(ctx))
	cached, err := e.GetCache().GetFleetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, cached, e.FleetStats(ctx))
	assert.GreaterOrEqual(t, cached.Total, fleet.MinTotal)
}

func TestGetDashboard(t *testing.T) {
	e, _ := newTestEngine(t)

	d := e.GetDashboard(context.Background())
	assert.Len(t, d.Metrics, 4)
	require.Len(t, d.Alerts, 1)
	assert.Equal(t, "Surge Zone Detected", d.Alerts[0].Title)
	assert.Len(t, d.Actions, 2)
	assert.Equal(t, 847, d.Stats.Total)
}

func TestFleetAlerts_PublishesOnlyNewAlerts(t *testing.T) {
	e, _ := newTestEngine(t)
	e.cfg.Fleet.LowInventoryThreshold = 25
	ntfyFake := &fakeAlerter{enabled: true}
	pushFake := &fakeAlerter{enabled: true}
	disabled := &fakeAlerter{enabled: false}
	e.alerters = []AlertSender{ntfyFake, pushFake, disabled}
	ctx := context.Background()

	require.NoError(t, e.runFleetAlerts(ctx))
	// surge plus Vichva Central, Sector 62 IT Park and Dadar Station
	assert.Len(t, ntfyFake.sent, 4)
	assert.Len(t, pushFake.sent, 4)
	assert.Empty(t, disabled.sent)

	require.NoError(t, e.runFleetAlerts(ctx))
	assert.Len(t, ntfyFake.sent, 4, "unchanged alerts are not republished")

	e.cfg.Fleet.LowInventoryThreshold = 26
	require.NoError(t, e.runFleetAlerts(ctx))
	require.Len(t, ntfyFake.sent, 5)
	assert.Equal(t, "Station OMR IT Corridor critically low", ntfyFake.sent[4].Description)
}

func TestFleetAlerts_SenderError(t *testing.T) {
	e, _ := newTestEngine(t)
	failing := &fakeAlerter{enabled: true, err: errors.New("ntfy down")}
	ok := &fakeAlerter{enabled: true}
	e.alerters = []AlertSender{failing, ok}

	err := e.runFleetAlerts(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ntfy down")
}

func TestUploads(t *testing.T) {
	e, db := newTestEngine(t)
	ctx := context.Background()

	user := &database.User{Username: "rider"}
	require.NoError(t, db.CreateUser(ctx, user))

	_, ok := e.LatestUpload(ctx, user)
	assert.False(t, ok)

	result := &csvparse.Result{
		RowsReceived: 3,
		RowsUsed:     2,
		InvalidRows:  1,
		TotalDemand:  90,
		PeakHour:     &csvparse.PeakHour{Hour: 8, Demand: 60},
		PeakDay:      &csvparse.PeakDay{Date: "2026-01-05", Demand: 90},
	}
	latest, err := e.RecordUpload(ctx, user, "demand.csv", 128, result)
	require.NoError(t, err)
	assert.NotEmpty(t, latest.UploadID)
	assert.Equal(t, testNow, latest.UploadedAt)

	cached, ok := e.LatestUpload(ctx, user)
	require.True(t, ok)
	assert.Equal(t, latest.UploadID, cached.UploadID)
	assert.Equal(t, 90, cached.Result.TotalDemand)

	uploads, err := e.Uploads(ctx, user, 10)
	require.NoError(t, err)
	require.Len(t, uploads, 1)
	require.NotNil(t, uploads[0].PeakHour)
	assert.Equal(t, 8, *uploads[0].PeakHour)
	assert.Equal(t, "2026-01-05", uploads[0].PeakDay)

	_, err = e.RecordUpload(ctx, nil, "anon.csv", 10, &csvparse.Result{})
	require.NoError(t, err)
	uploads, err = e.Uploads(ctx, user, 0)
	require.NoError(t, err)
	assert.Len(t, uploads, 1, "anonymous uploads are not attributed")

	db.CreateUploadError = errors.New("disk full")
	_, err = e.RecordUpload(ctx, user, "x.csv", 1, &csvparse.Result{})
	assert.ErrorContains(t, err, "disk full")
}

func TestUploadRetention(t *testing.T) {
	e, db := newTestEngine(t)
	ctx := context.Background()

	user := &database.User{Username: "rider"}
	require.NoError(t, db.CreateUser(ctx, user))
	old := &database.Upload{PublicID: "old", UserID: &user.ID}
	old.CreatedAt = testNow.Add(-31 * 24 * time.Hour)
	require.NoError(t, db.CreateUpload(ctx, old))
	recent := &database.Upload{PublicID: "recent", UserID: &user.ID}
	recent.CreatedAt = testNow.Add(-time.Hour)
	require.NoError(t, db.CreateUpload(ctx, recent))
	_, err := e.RecordUpload(ctx, user, "x.csv", 1, &csvparse.Result{})
	require.NoError(t, err)

	require.NoError(t, e.runUploadRetention(ctx))

	uploads, err := db.GetUploadsByUser(ctx, user.ID, 0)
	require.NoError(t, err)
	assert.Len(t, uploads, 2)
	_, ok := e.LatestUpload(ctx, user)
	assert.False(t, ok, "retention clears the upload cache")

	db.DeleteUploadsOlderThanError = errors.New("locked")
	assert.ErrorContains(t, e.runUploadRetention(ctx), "locked")
}

func TestRunAndClose(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	cfg := config.Default()
	cfg.SessionKey = "secret"
	e, err := New(cfg, mock.NewMockDB())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	assert.Eventually(t, func() bool {
		_, err := e.GetCache().GetFleetStats(context.Background())
		return err == nil
	}, time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	require.NoError(t, e.Close())
}
