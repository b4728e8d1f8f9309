package chat

import (
	"fmt"
	"time"

	"mschat/errors"
)

// futureTolerance absorbs small clock skew between producer and validator.
const futureTolerance = time.Second

// Timestamp is a validated point in time. Millisecond precision, always UTC,
// so a persisted value round-trips to an equal one.
type Timestamp struct {
	value time.Time
}

func NewTimestamp(at time.Time) (Timestamp, error) {
	if at.Unix() < 0 {
		return Timestamp{}, fmt.Errorf("%w: timestamp cannot be negative", errors.ErrValidation)
	}
	if at.After(time.Now().Add(futureTolerance)) {
		return Timestamp{}, fmt.Errorf("%w: timestamp cannot be in the future", errors.ErrValidation)
	}
	return Timestamp{value: at.UTC().Truncate(time.Millisecond)}, nil
}

// Now never fails: the current instant is within tolerance by definition.
func Now() Timestamp {
	return Timestamp{value: time.Now().UTC().Truncate(time.Millisecond)}
}

// RestoreTimestamp rebuilds a persisted timestamp from its millisecond form.
// Persistence mapping only: the stored value was validated at creation time,
// re-checking the future bound here would reject legitimate clock skew
// between the writer and this process.
func RestoreTimestamp(unixMilli int64) Timestamp {
	return Timestamp{value: time.UnixMilli(unixMilli).UTC()}
}

func (t Timestamp) Time() time.Time {
	return t.value
}

func (t Timestamp) UnixMilli() int64 {
	return t.value.UnixMilli()
}

func (t Timestamp) IsAfter(other Timestamp) bool {
	return t.value.After(other.value)
}
