package mode

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Timestamp is stored as epoch milliseconds, the format the app has always
// written. RFC3339 strings are accepted on read.
type Timestamp struct {
	time.Time
}

// NewTimestamp truncates t to millisecond precision so values survive a
// round trip through storage unchanged.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: time.UnixMilli(t.UnixMilli()).UTC()}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("0"), nil
	}
	return []byte(fmt.Sprintf("%d", t.UnixMilli())), nil
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			t.Time = time.Time{}
			return nil
		}
		parsed, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return err
		}
		t.Time = parsed.UTC()
		return nil
	}
	var ms float64
	if err := json.Unmarshal(b, &ms); err != nil {
		return err
	}
	if ms == 0 {
		t.Time = time.Time{}
		return nil
	}
	t.Time = time.UnixMilli(int64(ms)).UTC()
	return nil
}
