package model

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// ISOTime is a timestamp persisted as an ISO-8601 string column. Reads accept
// either a stored string or a native datetime and normalize to UTC.
type ISOTime time.Time

// NewISOTime wraps t as an ISOTime in UTC.
func NewISOTime(t time.Time) ISOTime {
	return ISOTime(t.UTC())
}

// Time returns the underlying time value.
func (t ISOTime) Time() time.Time {
	return time.Time(t)
}

// IsZero reports whether the timestamp is unset.
func (t ISOTime) IsZero() bool {
	return time.Time(t).IsZero()
}

// Value implements driver.Valuer by formatting as an ISO-8601 string.
func (t ISOTime) Value() (driver.Value, error) {
	return time.Time(t).UTC().Format(time.RFC3339Nano), nil
}

// Scan implements sql.Scanner, parsing stored ISO-8601 strings back into a
// timestamp.
func (t *ISOTime) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*t = ISOTime{}
		return nil
	case time.Time:
		*t = ISOTime(v.UTC())
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	default:
		return fmt.Errorf("isotime: cannot scan %T", value)
	}
}

func (t *ISOTime) parse(s string) error {
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		parsed, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("isotime: parse %q: %w", s, err)
		}
	}
	*t = ISOTime(parsed.UTC())
	return nil
}

// MarshalJSON renders the timestamp as an RFC 3339 JSON string.
func (t ISOTime) MarshalJSON() ([]byte, error) {
	return time.Time(t).MarshalJSON()
}

// UnmarshalJSON parses an RFC 3339 JSON string.
func (t *ISOTime) UnmarshalJSON(data []byte) error {
	var parsed time.Time
	if err := parsed.UnmarshalJSON(data); err != nil {
		return err
	}
	*t = ISOTime(parsed.UTC())
	return nil
}
