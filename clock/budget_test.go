package clock

import (
	"testing"
	"time"

	"github.com/matryer/is"
)

func TestRemainingCountsDown(t *testing.T) {
	is := is.New(t)
	b := NewBudget(time.Hour)
	r1 := b.Remaining()
	is.True(r1 > 59*time.Minute)
	is.True(r1 <= time.Hour)
	r2 := b.Remaining()
	is.True(r2 <= r1)
}

func TestExpired(t *testing.T) {
	is := is.New(t)

	generous := NewBudget(time.Hour)
	is.True(!generous.Expired(0))
	is.True(!generous.Expired(10*time.Millisecond))
	is.True(generous.Expired(2 * time.Hour)) // margin larger than what is left

	spent := Until(time.Now().Add(-time.Second))
	is.True(spent.Expired(0))
	is.True(spent.Remaining() < 0)

	zero := NewBudget(0)
	is.True(zero.Expired(0))
}

func TestUntilKeepsDeadline(t *testing.T) {
	is := is.New(t)
	deadline := time.Now().Add(time.Minute)
	is.Equal(Until(deadline).Deadline(), deadline)
}
