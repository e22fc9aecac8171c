package core

import (
	"sort"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
)

func fixedClock(ms int64) func() time.Time {
	return func() time.Time {
		return time.UnixMilli(ms)
	}
}

func TestNextFormat(t *testing.T) {
	gen := NewGenerator()
	id := gen.Next()
	if len(id) != 26 {
		t.Fatalf("expected 26-char id, got %d: %q", len(id), id)
	}
	if _, err := ulid.Parse(id); err != nil {
		t.Fatalf("id does not parse: %v", err)
	}
}

func TestNextStrictlyIncreases(t *testing.T) {
	gen := NewGenerator()
	ids := make([]string, 1000)
	for i := range ids {
		ids[i] = gen.Next()
	}
	for i := 1; i < len(ids); i++ {
		if ids[i] <= ids[i-1] {
			t.Fatalf("id %d does not sort after predecessor: %q <= %q", i, ids[i], ids[i-1])
		}
	}
	if !sort.StringsAreSorted(ids) {
		t.Fatal("ids are not lexicographically sorted")
	}
}

func TestSameMillisecondStillSorts(t *testing.T) {
	gen := &Generator{now: fixedClock(1700000000000)}
	prev := gen.Next()
	for i := 0; i < 100; i++ {
		next := gen.Next()
		if next <= prev {
			t.Fatalf("same-ms id does not sort after predecessor: %q <= %q", next, prev)
		}
		prev = next
	}
}

func TestClockRegressionNeverRegresses(t *testing.T) {
	ms := int64(1700000000000)
	gen := &Generator{now: fixedClock(ms)}
	first := gen.Next()

	gen.now = fixedClock(ms - 5000)
	second := gen.Next()
	if second <= first {
		t.Fatalf("id after clock regression does not sort after predecessor: %q <= %q", second, first)
	}

	parsed, err := ulid.Parse(second)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if int64(parsed.Time()) < ms {
		t.Fatalf("emitted timestamp regressed: %d < %d", parsed.Time(), ms)
	}
}

func TestEntropyOverflowRollsIntoTimestamp(t *testing.T) {
	ms := int64(1700000000000)
	gen := &Generator{now: fixedClock(ms), lastMs: uint64(ms), primed: true}
	for i := range gen.entropy {
		gen.entropy[i] = 0xff
	}

	id := gen.Next()
	parsed, err := ulid.Parse(id)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.Time() != uint64(ms)+1 {
		t.Fatalf("expected timestamp %d after entropy overflow, got %d", ms+1, parsed.Time())
	}
	for i, b := range gen.entropy {
		if b != 0 {
			t.Fatalf("expected entropy byte %d to wrap to zero, got %#x", i, b)
		}
	}
}
