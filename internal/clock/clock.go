// Package clock formats wall-clock timestamps and elapsed durations, the Go
// counterpart of original_source/util/TimeUtil.h's Time::formatTime and
// millisecond accessors. Where the original hand-rolled a stringstream,
// this uses golang.org/x/text/message so the millisecond-count portion of
// the output honors locale digit grouping.
package clock

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatTimestamp renders t as "2019-09-14[18:29:03.123]", matching
// original_source's Time::formatTime layout.
func FormatTimestamp(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d[%02d:%02d:%02d.%03d]",
		t.Year(), t.Month(), t.Day(),
		t.Hour(), t.Minute(), t.Second(),
		t.Nanosecond()/int(time.Millisecond))
}

// FormatElapsedMillis renders d as an integer count of milliseconds, with
// digit grouping for lang — e.g. "1,234 ms" for language.English on a
// 1.234s duration. Used by cmd/quokkademo to report task latencies.
func FormatElapsedMillis(d time.Duration, lang language.Tag) string {
	p := message.NewPrinter(lang)
	return p.Sprintf("%d ms", d.Milliseconds())
}

// MilliSeconds returns milliseconds since the Unix epoch, matching
// original_source's Time::milliSeconds.
func MilliSeconds(t time.Time) int64 {
	return t.UnixMilli()
}

// MicroSeconds returns microseconds since the Unix epoch, matching
// original_source's Time::microSeconds.
func MicroSeconds(t time.Time) int64 {
	return t.UnixMicro()
}
