package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"mschat/errors"
)

func TestNewTimestamp_RejectsFutureBeyondTolerance(t *testing.T) {
	req := require.New(t)

	_, err := NewTimestamp(time.Now().Add(time.Minute))
	req.ErrorIs(err, errors.ErrValidation)

	// Small skew is absorbed
	_, err = NewTimestamp(time.Now().Add(500 * time.Millisecond))
	req.NoError(err)

	_, err = NewTimestamp(time.Unix(-1, 0))
	req.ErrorIs(err, errors.ErrValidation)
}

func TestTimestamp_MillisecondUTCRoundTrip(t *testing.T) {
	req := require.New(t)

	local := time.Date(2024, 6, 1, 12, 30, 45, 123_456_789, time.FixedZone("CEST", 2*3600))
	ts, err := NewTimestamp(local)
	req.NoError(err)

	req.Equal(time.UTC, ts.Time().Location())
	req.Equal(ts, RestoreTimestamp(ts.UnixMilli()))
	// Sub-millisecond precision is dropped at creation
	req.Zero(ts.Time().Nanosecond() % int(time.Millisecond))
}

func TestTimestamp_IsAfter(t *testing.T) {
	req := require.New(t)

	earlier := RestoreTimestamp(1_700_000_000_000)
	later := RestoreTimestamp(1_700_000_000_001)

	req.True(later.IsAfter(earlier))
	req.False(earlier.IsAfter(later))
	req.False(earlier.IsAfter(earlier))
}
