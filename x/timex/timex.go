package timex

import "time"

// NowMs returns Unix milliseconds as int64.
func NowMs() int64 { return time.Now().UnixMilli() }

// FramePeriod converts a frame length in milliseconds to a tick period.
// lengthMS==0 is coerced to 1 to avoid a zero-period ticker.
func FramePeriod(lengthMS int) time.Duration {
	if lengthMS <= 0 {
		lengthMS = 1
	}
	return time.Duration(lengthMS) * time.Millisecond
}
