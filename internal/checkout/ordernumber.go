package checkout

import (
	"strconv"
	"sync"
	"time"
)

// OrderNumberPrefix starts every till order number.
const OrderNumberPrefix = "POS-"

// OrderNumberGenerator issues order numbers.
type OrderNumberGenerator interface {
	Next() string
}

// millisGenerator issues POS-<unix millis>, bumped by one millisecond when
// two sales land in the same millisecond so numbers never repeat in-process.
type millisGenerator struct {
	mu   sync.Mutex
	now  func() time.Time
	last int64
}

// NewOrderNumberGenerator creates a generator. A nil clock uses time.Now.
func NewOrderNumberGenerator(now func() time.Time) OrderNumberGenerator {
	if now == nil {
		now = time.Now
	}
	return &millisGenerator{now: now}
}

// Next returns the next order number.
func (g *millisGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms

	return OrderNumberPrefix + strconv.FormatInt(ms, 10)
}
