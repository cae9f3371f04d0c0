package cooldown

import (
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/edgedelta/log-error-notifier/batch"
	"github.com/stretchr/testify/assert"
)

func dataBatch(messages ...string) batch.Batch {
	b := batch.Batch{MessageType: batch.MessageTypeData, LogGroup: "/aws/lambda/api"}
	for _, m := range messages {
		b.LogEvents = append(b.LogEvents, events.CloudwatchLogsLogEvent{Message: m})
	}
	return b
}

func TestAllow(t *testing.T) {
	t0 := time.UnixMilli(1_700_000_000_000)
	cooldown := 15 * time.Minute

	tests := []struct {
		desc   string
		batch  batch.Batch
		sentAt *time.Time
		now    time.Time
		want   bool
	}{
		{
			desc:  "first data batch",
			batch: dataBatch("boom"),
			now:   t0,
			want:  true,
		},
		{
			desc:  "control message",
			batch: batch.Batch{MessageType: batch.MessageTypeControl, LogEvents: dataBatch("CWL CONTROL MESSAGE").LogEvents},
			now:   t0,
			want:  false,
		},
		{
			desc:  "no events",
			batch: dataBatch(),
			now:   t0,
			want:  false,
		},
		{
			desc:   "inside cooldown",
			batch:  dataBatch("boom"),
			sentAt: &t0,
			now:    t0.Add(cooldown - time.Millisecond),
			want:   false,
		},
		{
			desc:   "exactly at cooldown boundary",
			batch:  dataBatch("boom"),
			sentAt: &t0,
			now:    t0.Add(cooldown),
			want:   false,
		},
		{
			desc:   "after cooldown",
			batch:  dataBatch("boom"),
			sentAt: &t0,
			now:    t0.Add(cooldown + time.Millisecond),
			want:   true,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.desc, func(t *testing.T) {
			s := NewState(cooldown)
			if tc.sentAt != nil {
				s.MarkSent(*tc.sentAt)
			}
			assert.Equal(t, tc.want, s.Allow(tc.batch, tc.now))
		})
	}
}

func TestAllowHasNoSideEffects(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	s := NewState(time.Minute)

	assert.True(t, s.Allow(dataBatch("boom"), now))
	assert.True(t, s.Allow(dataBatch("boom"), now.Add(time.Millisecond)))
	assert.True(t, s.LastSentAt().IsZero())
}

func TestZeroCooldown(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	s := NewState(0)
	s.MarkSent(now)

	assert.False(t, s.Allow(dataBatch("boom"), now))
	assert.True(t, s.Allow(dataBatch("boom"), now.Add(time.Millisecond)))
	assert.Equal(t, now, s.LastSentAt())
}
