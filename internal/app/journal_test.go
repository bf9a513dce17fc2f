package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taoyao-code/scoreboard-server/internal/scoreboard"
	"github.com/taoyao-code/scoreboard-server/internal/storage/models"
)

type memStore struct {
	events []models.MatchEvent
}

func (m *memStore) AppendEvent(_ context.Context, ev *models.MatchEvent) error {
	m.events = append(m.events, *ev)
	return nil
}

func (m *memStore) ListEvents(_ context.Context, matchID string, _ int) ([]models.MatchEvent, error) {
	var out []models.MatchEvent
	for _, ev := range m.events {
		if ev.MatchID == matchID {
			out = append(out, ev)
		}
	}
	return out, nil
}

func TestJournal_Record(t *testing.T) {
	store := &memStore{}
	j := &Journal{store: store}
	at := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)

	st := scoreboard.NewMatchState(false)
	st.MatchID = "3f1c7a52-0d1e-4c77-9a0b-5d9e2b7c1a10"
	st.HomeScore = 12
	st.AwayScore = 7
	st.CurrentPeriod = scoreboard.PeriodSecondHalf
	st.TimerMinutes = 41
	st.TimerSeconds = 5

	ev := scoreboard.Event{Kind: scoreboard.EventTry, Team: scoreboard.Home, Delta: 5, At: at}
	require.NoError(t, j.Record(context.Background(), ev, st))

	got, err := j.ListEvents(context.Background(), st.MatchID, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.MatchEvent{
		MatchID:      st.MatchID,
		Kind:         "try",
		Team:         "home",
		Delta:        5,
		HomeScore:    12,
		AwayScore:    7,
		Period:       2,
		ClockSeconds: 41*60 + 5,
		CreatedAt:    at,
	}, got[0])
}

func TestGenerateServerID(t *testing.T) {
	t.Setenv("SERVER_ID", "")
	assert.Contains(t, GenerateServerID(), "scoreboard-server-")

	t.Setenv("SERVER_ID", "pitch-1")
	assert.Equal(t, "pitch-1", GenerateServerID())
}
