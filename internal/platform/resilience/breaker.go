package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrBreakerOpen = errors.New("circuit breaker is open")

type BreakerState string

const (
	BreakerClosed   BreakerState = "closed"
	BreakerOpen     BreakerState = "open"
	BreakerHalfOpen BreakerState = "half_open"
)

// Breaker guards the odds provider. It opens after a run of transient
// failures and probes with a bounded number of half-open requests before
// closing again.
type Breaker struct {
	mu sync.Mutex

	failureThreshold int
	openTimeout      time.Duration
	halfOpenMaxReq   int

	state            BreakerState
	failureStreak    int
	openedAt         time.Time
	halfOpenInFlight int
	halfOpenOK       int
	now              func() time.Time
}

func NewBreaker(failureThreshold int, openTimeout time.Duration, halfOpenMaxReq int) *Breaker {
	if failureThreshold < 1 {
		failureThreshold = 1
	}
	if openTimeout <= 0 {
		openTimeout = 15 * time.Second
	}
	if halfOpenMaxReq < 1 {
		halfOpenMaxReq = 1
	}

	return &Breaker{
		failureThreshold: failureThreshold,
		openTimeout:      openTimeout,
		halfOpenMaxReq:   halfOpenMaxReq,
		state:            BreakerClosed,
		now:              time.Now,
	}
}

func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	if b.state == BreakerOpen {
		if now.Sub(b.openedAt) < b.openTimeout {
			return ErrBreakerOpen
		}
		b.toHalfOpen()
	}

	if b.state == BreakerHalfOpen {
		if b.halfOpenInFlight >= b.halfOpenMaxReq {
			return ErrBreakerOpen
		}
		b.halfOpenInFlight++
	}

	return nil
}

func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case BreakerClosed:
		b.failureStreak = 0
	case BreakerHalfOpen:
		if b.halfOpenInFlight > 0 {
			b.halfOpenInFlight--
		}
		b.halfOpenOK++
		if b.halfOpenOK >= b.halfOpenMaxReq && b.halfOpenInFlight == 0 {
			b.toClosed()
		}
	}
}

func (b *Breaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case BreakerClosed:
		b.failureStreak++
		if b.failureStreak >= b.failureThreshold {
			b.toOpen()
		}
	case BreakerHalfOpen:
		if b.halfOpenInFlight > 0 {
			b.halfOpenInFlight--
		}
		b.toOpen()
	case BreakerOpen:
		b.openedAt = b.now()
	}
}

func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == BreakerOpen && b.now().Sub(b.openedAt) >= b.openTimeout {
		return BreakerHalfOpen
	}

	return b.state
}

func (b *Breaker) toClosed() {
	b.state = BreakerClosed
	b.failureStreak = 0
	b.halfOpenInFlight = 0
	b.halfOpenOK = 0
	b.openedAt = time.Time{}
}

func (b *Breaker) toOpen() {
	b.state = BreakerOpen
	b.openedAt = b.now()
	b.halfOpenInFlight = 0
	b.halfOpenOK = 0
}

func (b *Breaker) toHalfOpen() {
	b.state = BreakerHalfOpen
	b.halfOpenInFlight = 0
	b.halfOpenOK = 0
}
