package middleware

import "sync"

// circuitBreaker tracks consecutive primary store errors. It opens after
// failureThreshold errors, which routes checks to the fallback limiter, and
// closes again after successThreshold consecutive primary successes.
type circuitBreaker struct {
	mu               sync.Mutex
	open             bool
	failureCount     int
	successCount     int
	failureThreshold int
	successThreshold int
}

func newCircuitBreaker() *circuitBreaker {
	return &circuitBreaker{failureThreshold: 5, successThreshold: 3}
}

func (c *circuitBreaker) isOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// recordFailure reports whether the circuit is open after this failure.
func (c *circuitBreaker) recordFailure() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failureCount++
	c.successCount = 0
	if c.failureCount >= c.failureThreshold {
		c.open = true
	}
	return c.open
}

// recordSuccess reports whether the circuit is closed after this success.
func (c *circuitBreaker) recordSuccess() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.open {
		c.successCount++
		if c.successCount < c.successThreshold {
			return false
		}
		c.open = false
		c.successCount = 0
	}
	c.failureCount = 0
	return true
}
