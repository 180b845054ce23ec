// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: 2026 fogline
// SPDX-FileContributor: fogline

package mqttsn

import (
	"time"
)

// Clock supplies monotonic milliseconds for timer deadlines. The value
// wraps at 2^32 ms (~49 days); deadline arithmetic tolerates the wrap the
// same way the timer hardware on a constrained node does.
type Clock interface {
	Now() uint32
}

// systemClock measures milliseconds since the client was created.
type systemClock struct {
	start time.Time
}

func newSystemClock() Clock {
	return &systemClock{start: time.Now()}
}

func (c *systemClock) Now() uint32 {
	return uint32(time.Since(c.start).Milliseconds())
}
