package subscribers_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mitchelldurbincs/spreadstarts/internal/game/events"
	"github.com/mitchelldurbincs/spreadstarts/internal/game/events/subscribers"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var lines []map[string]interface{}
	for _, raw := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if raw == "" {
			continue
		}
		var line map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(raw), &line))
		lines = append(lines, line)
	}
	return lines
}

func TestLoggerSubscriber(t *testing.T) {
	logSub := subscribers.NewLoggerSubscriber("test-logger", zerolog.Nop(), zerolog.InfoLevel)

	assert.Equal(t, "test-logger", logSub.ID())
	assert.True(t, logSub.InterestedIn(events.TypeRebalanceStarted))
	assert.True(t, logSub.InterestedIn("any.event.type"))
}

func TestLoggerSubscriberEventLogging(t *testing.T) {
	members := []events.Member{{ID: 1, Human: true, Position: 4}, {ID: 3, Position: 9}}

	testCases := []struct {
		name  string
		event events.Event
		check func(t *testing.T, line map[string]interface{})
	}{
		{
			name:  "RebalanceStarted",
			event: events.NewRebalanceStartedEvent("g1", "r1", 8, 12),
			check: func(t *testing.T, line map[string]interface{}) {
				assert.Equal(t, "Rebalancing human start positions", line["message"])
				assert.Equal(t, float64(8), line["participants"])
				assert.Equal(t, float64(12), line["max_participants"])
			},
		},
		{
			name:  "ParticipantsClassified",
			event: events.NewParticipantsClassifiedEvent("g1", "r1", 3, 5),
			check: func(t *testing.T, line map[string]interface{}) {
				assert.Equal(t, float64(3), line["humans"])
				assert.Equal(t, float64(5), line["ais"])
			},
		},
		{
			name:  "RebalanceSkipped",
			event: events.NewRebalanceSkippedEvent("g1", "r1", "skipped_cap_exceeded", "13 participants, at most 12 supported"),
			check: func(t *testing.T, line map[string]interface{}) {
				assert.Equal(t, "Rebalance skipped", line["message"])
				assert.Equal(t, "skipped_cap_exceeded", line["status"])
			},
		},
		{
			name:  "SubsetSelected",
			event: events.NewSubsetSelectedEvent("g1", "r1", members, 7, 7, 28, 0, 28),
			check: func(t *testing.T, line map[string]interface{}) {
				assert.Equal(t, "[1:human@4 3:ai@9]", line["members"])
				assert.Equal(t, float64(7), line["min_distance"])
				assert.Equal(t, float64(28), line["distance_queries"])
			},
		},
		{
			name:  "TieBreakApplied",
			event: events.NewTieBreakAppliedEvent("g1", "r1", 2, 5, 6, 30),
			check: func(t *testing.T, line map[string]interface{}) {
				assert.Equal(t, float64(2), line["tie_breaks"])
				assert.Equal(t, float64(30), line["sum_distance"])
			},
		},
		{
			name:  "SwapPlanned",
			event: events.NewSwapPlannedEvent("g1", "r1", 2, 1),
			check: func(t *testing.T, line map[string]interface{}) {
				assert.Equal(t, float64(2), line["count"])
				assert.Equal(t, float64(1), line["already_placed"])
			},
		},
		{
			name:  "SwapApplied",
			event: events.NewSwapAppliedEvent("g1", "r1", 0, 1, 3, 4, 9),
			check: func(t *testing.T, line map[string]interface{}) {
				assert.Equal(t, float64(1), line["human_id"])
				assert.Equal(t, float64(9), line["human_to"])
			},
		},
		{
			name:  "RebalanceCompleted",
			event: events.NewRebalanceCompletedEvent("g1", "r1", "applied", 1, true, 3*time.Millisecond),
			check: func(t *testing.T, line map[string]interface{}) {
				assert.Equal(t, "applied", line["status"])
				assert.Equal(t, true, line["dry_run"])
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			logSub := subscribers.NewLoggerSubscriber("event-logger", zerolog.New(&buf), zerolog.InfoLevel)

			logSub.HandleEvent(tc.event)

			lines := decodeLines(t, &buf)
			require.Len(t, lines, 1)
			assert.Equal(t, tc.event.Type(), lines[0]["event_type"])
			assert.Equal(t, "g1", lines[0]["game_id"])
			assert.Equal(t, "r1", lines[0]["run_id"])
			assert.Equal(t, "event_logger", lines[0]["subscriber"])
			tc.check(t, lines[0])
		})
	}
}

func TestLoggerSubscriberFilter(t *testing.T) {
	var buf bytes.Buffer
	logSub := subscribers.NewLoggerSubscriber("filtered-logger", zerolog.New(&buf), zerolog.InfoLevel)
	logSub.SetEventFilter([]string{events.TypeRebalanceSkipped})

	assert.True(t, logSub.InterestedIn(events.TypeRebalanceSkipped))
	assert.False(t, logSub.InterestedIn(events.TypeSwapApplied))

	bus := events.NewEventBus(zerolog.Nop())
	bus.Subscribe(logSub)
	bus.Publish(events.NewSwapAppliedEvent("g", "r", 0, 1, 2, 3, 4))
	bus.Publish(events.NewRebalanceSkippedEvent("g", "r", "skipped_all_human", "no AI participants"))

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, events.TypeRebalanceSkipped, lines[0]["event_type"])

	logSub.SetEventFilter(nil)
	assert.True(t, logSub.InterestedIn(events.TypeSwapApplied))
}

func TestLoggerSubscriberLogLevels(t *testing.T) {
	testCases := []struct {
		name     string
		logLevel zerolog.Level
		expected string
	}{
		{"Debug", zerolog.DebugLevel, "debug"},
		{"Info", zerolog.InfoLevel, "info"},
		{"Warn", zerolog.WarnLevel, "warn"},
		{"Error", zerolog.ErrorLevel, "error"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			logSub := subscribers.NewLoggerSubscriber("level-logger", zerolog.New(&buf), tc.logLevel)
			logSub.HandleEvent(events.NewSwapPlannedEvent("g", "r", 0, 2))

			lines := decodeLines(t, &buf)
			require.Len(t, lines, 1)
			assert.Equal(t, tc.expected, lines[0]["level"])
		})
	}
}

func TestLoggerSubscriberDevMode(t *testing.T) {
	var buf bytes.Buffer
	logSub := subscribers.NewLoggerSubscriber("dev-logger", zerolog.New(&buf), zerolog.InfoLevel)
	logSub.SetDevMode(true)

	logSub.HandleEvent(events.NewParticipantsClassifiedEvent("g", "r", 2, 4))

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	data, ok := lines[0]["event_data"].(map[string]interface{})
	require.True(t, ok, "event_data should be embedded JSON")
	assert.Equal(t, float64(2), data["humans"])
	assert.Equal(t, events.TypeParticipantsClassified, data["type"])
}

func BenchmarkLoggerSubscriber(b *testing.B) {
	logger := zerolog.New(&bytes.Buffer{}).Level(zerolog.Disabled)
	logSub := subscribers.NewLoggerSubscriber("bench-logger", logger, zerolog.InfoLevel)
	event := events.NewSwapAppliedEvent("g", "r", 0, 1, 2, 3, 4)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		logSub.HandleEvent(event)
	}
}
