package logtail

import (
	"bufio"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// Keys written by the application's zap JSON encoder.
const (
	KeyTime    = "ts"
	KeyLevel   = "level"
	KeyLogger  = "logger"
	KeyMessage = "msg"
	KeyCaller  = "caller"
	KeyStack   = "stacktrace"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line. A missing file yields no lines.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "open log")
	}
	defer func() { _ = file.Close() }()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, errors.Wrap(err, "read log")
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read log")
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Entry is one decoded JSON log line.
type Entry struct {
	Time    time.Time
	Level   string
	Logger  string
	Message string
	Fields  []Field
}

// Field is a structured key/value pair in file order.
type Field struct {
	Key   string
	Value string
}

// Parse decodes a zap JSON line.
func Parse(line string) (Entry, error) {
	var entry Entry
	d := jx.DecodeStr(line)
	err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		switch string(key) {
		case KeyTime:
			ts, err := decodeTime(d)
			if err != nil {
				return errors.Wrap(err, "ts")
			}
			entry.Time = ts
			return nil
		case KeyLevel:
			v, err := d.Str()
			entry.Level = strings.ToUpper(v)
			return err
		case KeyLogger:
			v, err := d.Str()
			entry.Logger = v
			return err
		case KeyMessage:
			v, err := d.Str()
			entry.Message = v
			return err
		case KeyCaller, KeyStack:
			return d.Skip()
		}
		value, err := decodeValue(d)
		if err != nil {
			return errors.Wrapf(err, "field %s", key)
		}
		entry.Fields = append(entry.Fields, Field{Key: string(key), Value: value})
		return nil
	})
	if err != nil {
		return Entry{}, errors.Wrap(err, "decode log line")
	}
	return entry, nil
}

func decodeTime(d *jx.Decoder) (time.Time, error) {
	switch d.Next() {
	case jx.String:
		raw, err := d.Str()
		if err != nil {
			return time.Time{}, err
		}
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.000Z0700"} {
			if ts, err := time.Parse(layout, raw); err == nil {
				return ts, nil
			}
		}
		return time.Time{}, errors.Errorf("unrecognised time %q", raw)
	case jx.Number:
		secs, err := d.Float64()
		if err != nil {
			return time.Time{}, err
		}
		whole, frac := math.Modf(secs)
		return time.Unix(int64(whole), int64(frac*1e9)), nil
	default:
		return time.Time{}, d.Skip()
	}
}

func decodeValue(d *jx.Decoder) (string, error) {
	if d.Next() == jx.String {
		return d.Str()
	}
	raw, err := d.Raw()
	if err != nil {
		return "", err
	}
	return raw.String(), nil
}

// Format renders a log line as "15:04:05 LEVEL [logger] message key=value".
// Lines that are not JSON objects are returned unchanged.
func Format(line string) string {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "{") {
		return line
	}
	entry, err := Parse(trimmed)
	if err != nil {
		return line
	}
	return entry.String()
}

// FormatLines applies Format to every line.
func FormatLines(lines []string) []string {
	if len(lines) == 0 {
		return nil
	}
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = Format(line)
	}
	return out
}

func (e Entry) String() string {
	var b strings.Builder
	if !e.Time.IsZero() {
		b.WriteString(e.Time.In(time.Local).Format("15:04:05"))
		b.WriteByte(' ')
	}
	level := e.Level
	if level == "" {
		level = "INFO"
	}
	b.WriteString(level)
	if e.Logger != "" {
		b.WriteString(" [")
		b.WriteString(e.Logger)
		b.WriteByte(']')
	}
	if e.Message != "" {
		b.WriteByte(' ')
		b.WriteString(e.Message)
	}
	for _, f := range e.Fields {
		b.WriteByte(' ')
		b.WriteString(f.Key)
		b.WriteByte('=')
		if strings.ContainsAny(f.Value, " \t") {
			b.WriteString(strconv.Quote(f.Value))
		} else {
			b.WriteString(f.Value)
		}
	}
	return b.String()
}
