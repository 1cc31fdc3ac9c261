package id

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MonthKey identifies a calendar month. Month is zero-based (0 = January).
type MonthKey struct {
	Year  int
	Month int
}

// NewMonthKey returns the key for year and a zero-based month index.
func NewMonthKey(year, month0 int) MonthKey {
	return MonthKey{Year: year, Month: month0}
}

// MonthKeyOf returns the key of the month t falls in, in t's location.
func MonthKeyOf(t time.Time) MonthKey {
	return MonthKey{Year: t.Year(), Month: int(t.Month()) - 1}
}

// String formats the key as "2025-0".
func (k MonthKey) String() string {
	return fmt.Sprintf("%d-%d", k.Year, k.Month)
}

// Previous returns the month before k, wrapping January to December of the prior year.
func (k MonthKey) Previous() MonthKey {
	if k.Month == 0 {
		return MonthKey{Year: k.Year - 1, Month: 11}
	}
	return MonthKey{Year: k.Year, Month: k.Month - 1}
}

// Next returns the month after k.
func (k MonthKey) Next() MonthKey {
	if k.Month == 11 {
		return MonthKey{Year: k.Year + 1, Month: 0}
	}
	return MonthKey{Year: k.Year, Month: k.Month + 1}
}

// Valid reports whether the month index is within 0..11.
func (k MonthKey) Valid() bool {
	return k.Month >= 0 && k.Month <= 11
}

// Before reports whether k is earlier than other.
func (k MonthKey) Before(other MonthKey) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	return k.Month < other.Month
}

// MarshalText implements encoding.TextMarshaler so keys work as JSON object keys.
func (k MonthKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *MonthKey) UnmarshalText(text []byte) error {
	parsed, err := ParseMonthKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseMonthKey parses "2025-0" into a MonthKey.
func ParseMonthKey(s string) (MonthKey, error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return MonthKey{}, fmt.Errorf("invalid month key format: %q", s)
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return MonthKey{}, fmt.Errorf("invalid year in month key %q: %w", s, err)
	}

	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return MonthKey{}, fmt.Errorf("invalid month in month key %q: %w", s, err)
	}

	k := MonthKey{Year: year, Month: month}
	if !k.Valid() {
		return MonthKey{}, fmt.Errorf("month %d out of range in month key %q", month, s)
	}
	return k, nil
}

// Generator hands out transaction IDs derived from a millisecond clock.
// IDs strictly increase even when the clock stalls or goes backwards.
type Generator struct {
	now  func() time.Time
	last int64
}

// NewGenerator creates a Generator. A nil clock means time.Now.
func NewGenerator(now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{now: now}
}

// Seed makes every later ID greater than floor.
func (g *Generator) Seed(floor int64) {
	if floor > g.last {
		g.last = floor
	}
}

// Next returns a fresh ID and the time it was taken at.
func (g *Generator) Next() (int64, time.Time) {
	t := g.now()
	n := t.UnixMilli()
	if n <= g.last {
		n = g.last + 1
	}
	g.last = n
	return n, t
}
