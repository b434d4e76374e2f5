package program

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Gateway persists programs in a document collection.
type Gateway interface {
	GetAll(ctx context.Context) ([]Snapshot, error)
	Create(ctx context.Context, draft Draft) (string, error)
}

// Snapshot is a stored document as returned by a gateway: its id plus the
// raw field data, timestamps still in the provider's representation.
type Snapshot struct {
	ID   string
	Data map[string]any
}

// Timestamp is the provider representation of an instant.
type Timestamp struct {
	Seconds int64 `json:"seconds"`
	Nanos   int32 `json:"nanos"`
}

// TimestampOf converts t to the provider representation.
func TimestampOf(t time.Time) Timestamp {
	return Timestamp{Seconds: t.Unix(), Nanos: int32(t.Nanosecond())}
}

// Time returns the instant as a time.Time in UTC.
func (ts Timestamp) Time() time.Time {
	return time.Unix(ts.Seconds, int64(ts.Nanos)).UTC()
}

// Program decodes the snapshot into a Program.
func (s Snapshot) Program() (Program, error) {
	p := Program{ID: s.ID}
	if s.Data == nil {
		return p, fmt.Errorf("document %s has no data", s.ID)
	}

	title, _ := s.Data[FieldTitle].(string)
	p.Title = title
	if prereq, ok := s.Data[FieldPrerequisite].(string); ok {
		p.PrerequisiteProgramID = prereq
	}

	var err error
	if p.TraineeCount, err = intField(s.Data, FieldTraineeCount, 0); err != nil {
		return p, fmt.Errorf("document %s: %w", s.ID, err)
	}
	if p.DurationInWeeks, err = intField(s.Data, FieldDurationInWeeks, DefaultDurationInWeeks); err != nil {
		return p, fmt.Errorf("document %s: %w", s.ID, err)
	}
	if raw, ok := s.Data[FieldCreatedAt]; ok && raw != nil {
		if p.CreatedAt, err = ParseTimestamp(raw); err != nil {
			return p, fmt.Errorf("document %s: %s: %w", s.ID, FieldCreatedAt, err)
		}
	}
	return p, nil
}

// FromSnapshots decodes every snapshot. Documents that fail to decode are
// skipped and reported in the joined error.
func FromSnapshots(snaps []Snapshot) ([]Program, error) {
	programs := make([]Program, 0, len(snaps))
	var errs []error
	for _, snap := range snaps {
		p, err := snap.Program()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		programs = append(programs, p)
	}
	return programs, errors.Join(errs...)
}

// ParseTimestamp accepts the timestamp encodings seen in stored documents:
// {"seconds","nanos"} and {"_seconds","_nanoseconds"} maps, RFC 3339
// strings, unix seconds, and time.Time values.
func ParseTimestamp(raw any) (time.Time, error) {
	switch v := raw.(type) {
	case time.Time:
		return v, nil
	case Timestamp:
		return v.Time(), nil
	case map[string]any:
		secs, ok := firstPresent(v, "seconds", "_seconds")
		if !ok {
			return time.Time{}, fmt.Errorf("timestamp missing seconds")
		}
		s, err := toInt64(secs)
		if err != nil {
			return time.Time{}, fmt.Errorf("timestamp seconds: %w", err)
		}
		var n int64
		if nanos, ok := firstPresent(v, "nanos", "_nanoseconds"); ok {
			if n, err = toInt64(nanos); err != nil {
				return time.Time{}, fmt.Errorf("timestamp nanos: %w", err)
			}
		}
		return Timestamp{Seconds: s, Nanos: int32(n)}.Time(), nil
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
			if t, err := time.Parse(layout, v); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("unrecognized timestamp %q", v)
	default:
		s, err := toInt64(v)
		if err != nil {
			return time.Time{}, fmt.Errorf("unsupported timestamp type %T", raw)
		}
		return time.Unix(s, 0).UTC(), nil
	}
}

func firstPresent(m map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func intField(data map[string]any, field string, fallback int) (int, error) {
	raw, ok := data[field]
	if !ok || raw == nil {
		return fallback, nil
	}
	n, err := toInt64(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	return int(n), nil
}

func toInt64(raw any) (int64, error) {
	switch v := raw.(type) {
	case int:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("%v is not an integer", v)
		}
		return int64(v), nil
	case json.Number:
		return v.Int64()
	case string:
		return strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	default:
		return 0, fmt.Errorf("unsupported number type %T", raw)
	}
}
