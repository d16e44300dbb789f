package config

import (
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/SAP-F-2025/exam-session-service/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (testing.T.Chdir requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoadConfig_Defaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, key := range []string{"PORT", "ENVIRONMENT", "DEFAULT_USER_ID", "SESSION_STORE", "TIMER_INTERVAL", "EVENTS_PUBLISHER"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "user-1", cfg.DefaultUserID)
	assert.Equal(t, "redis", cfg.SessionStore)
	assert.Equal(t, time.Second, cfg.TimerInterval)
	assert.Equal(t, "kafka", cfg.Events.Publisher)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("TIMER_INTERVAL", "250ms")
	t.Setenv("CACHE_TTL", "not-a-duration")
	t.Setenv("EVENTS_ENABLED", "false")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 250*time.Millisecond, cfg.TimerInterval)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.False(t, cfg.Events.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Events.GetKafkaBrokers())
}

func TestCreateEventPublisher(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	disabled := EventConfig{Enabled: false, Publisher: "kafka"}
	publisher, err := disabled.CreateEventPublisher(logger)
	require.NoError(t, err)
	assert.IsType(t, &events.MockEventPublisher{}, publisher)

	channel := EventConfig{Enabled: true, Publisher: "channel", SessionTopic: "exam-sessions"}
	publisher, err = channel.CreateEventPublisher(logger)
	require.NoError(t, err)
	assert.IsType(t, &events.WatermillEventPublisher{}, publisher)
	assert.NoError(t, publisher.Close())

	unknown := EventConfig{Enabled: true, Publisher: "carrier-pigeon"}
	publisher, err = unknown.CreateEventPublisher(logger)
	require.NoError(t, err)
	assert.IsType(t, &events.MockEventPublisher{}, publisher)
}
