package session

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Countdown is a one-second exam countdown. The expiry callback fires exactly
// once when the remaining time reaches zero, after which the ticker stops.
// Stop is idempotent and suppresses the callback if it has not fired yet.
type Countdown struct {
	mu        sync.Mutex
	remaining int
	stopped   bool
	stop      chan struct{}
	onExpire  func()

	// tick defaults to one second; tests shorten it.
	tick time.Duration
}

// NewCountdown creates a countdown of totalSeconds. Call Start to begin
// ticking.
func NewCountdown(totalSeconds int, onExpire func()) *Countdown {
	return &Countdown{
		remaining: totalSeconds,
		stop:      make(chan struct{}),
		onExpire:  onExpire,
		tick:      time.Second,
	}
}

// Start launches the ticking goroutine. A countdown created at zero or less
// expires on its first tick.
func (c *Countdown) Start() {
	go c.run()
}

func (c *Countdown) run() {
	ticker := time.NewTicker(c.tick)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.mu.Lock()
			if c.stopped {
				c.mu.Unlock()
				return
			}
			c.remaining--
			if c.remaining > 0 {
				c.mu.Unlock()
				continue
			}
			c.remaining = 0
			c.stopped = true
			close(c.stop)
			expire := c.onExpire
			c.mu.Unlock()

			if expire != nil {
				expire()
			}
			return
		}
	}
}

// Stop halts the countdown without firing the expiry callback. Safe to call
// multiple times and after expiry.
func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}
	c.stopped = true
	close(c.stop)
}

// Remaining returns the seconds left.
func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

var (
	hourPattern = regexp.MustCompile(`(\d+)\s*hour`)
	hrPattern   = regexp.MustCompile(`(\d+)\s*hr`)
	minPattern  = regexp.MustCompile(`(\d+)\s*mins`)
)

// ParseDuration converts a human duration string from the exam setup screen
// ("30 mins", "1 hour", "1 hr 30 mins", "2 hours") into whole seconds.
// Fragments that do not parse contribute zero; there is no error case.
func ParseDuration(s string) int {
	seconds := 0
	switch {
	case strings.Contains(s, "hour"):
		if m := hourPattern.FindStringSubmatch(s); m != nil {
			n, _ := strconv.Atoi(m[1])
			seconds += n * 3600
		}
		if m := minPattern.FindStringSubmatch(s); m != nil {
			n, _ := strconv.Atoi(m[1])
			seconds += n * 60
		}
	case strings.Contains(s, "hr"):
		if m := hrPattern.FindStringSubmatch(s); m != nil {
			n, _ := strconv.Atoi(m[1])
			seconds += n * 3600
		}
		if m := minPattern.FindStringSubmatch(s); m != nil {
			n, _ := strconv.Atoi(m[1])
			seconds += n * 60
		}
	default:
		if m := minPattern.FindStringSubmatch(s); m != nil {
			n, _ := strconv.Atoi(m[1])
			seconds = n * 60
		}
	}
	return seconds
}

// FormatClock renders seconds as "H:MM:SS", dropping the hours component when
// it is zero ("M:SS").
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hrs := seconds / 3600
	mins := (seconds % 3600) / 60
	secs := seconds % 60

	if hrs > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hrs, mins, secs)
	}
	return fmt.Sprintf("%d:%02d", mins, secs)
}
