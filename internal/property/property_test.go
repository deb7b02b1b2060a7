package property

import (
	"errors"
	"math/rand"
	"testing"
)

func TestSetNotifiesOnlyOnChange(t *testing.T) {
	p := New(1.0)
	calls := 0
	p.LazyLink(func(v, old float64) { calls++ })

	p.Set(1.0)
	if calls != 0 {
		t.Errorf("expected no notification for unchanged value, got %d", calls)
	}

	p.Set(2.0)
	if calls != 1 {
		t.Errorf("expected 1 notification, got %d", calls)
	}
}

func TestLinkCallsImmediately(t *testing.T) {
	p := New("red")
	var got string
	p.Link(func(v, old string) { got = v })
	if got != "red" {
		t.Errorf("expected red, got %q", got)
	}
}

func TestListenerReceivesOldValue(t *testing.T) {
	p := New(3)
	var gotNew, gotOld int
	p.LazyLink(func(v, old int) { gotNew, gotOld = v, old })
	p.Set(7)
	if gotNew != 7 || gotOld != 3 {
		t.Errorf("expected (7, 3), got (%d, %d)", gotNew, gotOld)
	}
}

func TestUnlink(t *testing.T) {
	p := New(0)
	calls := 0
	id := p.LazyLink(func(v, old int) { calls++ })

	if !p.Unlink(id) {
		t.Fatal("expected unlink to succeed")
	}
	if p.Unlink(id) {
		t.Error("expected second unlink to report false")
	}

	p.Set(1)
	if calls != 0 {
		t.Errorf("expected no calls after unlink, got %d", calls)
	}
	if p.ListenerCount() != 0 {
		t.Errorf("expected 0 listeners, got %d", p.ListenerCount())
	}
}

func TestValidatorRejectsWithoutMutation(t *testing.T) {
	errNeg := errors.New("negative")
	p := New(1.0, WithValidator(func(v float64) error {
		if v < 0 {
			return errNeg
		}
		return nil
	}))
	calls := 0
	p.LazyLink(func(v, old float64) { calls++ })

	if err := p.TrySet(-1); !errors.Is(err, errNeg) {
		t.Fatalf("expected errNeg, got %v", err)
	}
	if p.Get() != 1.0 {
		t.Errorf("expected value unchanged, got %f", p.Get())
	}
	if calls != 0 {
		t.Errorf("expected no notification, got %d", calls)
	}

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected Set to panic")
		}
		if err, ok := r.(error); !ok || !errors.Is(err, errNeg) {
			t.Errorf("expected errNeg panic, got %v", r)
		}
	}()
	p.Set(-2)
}

func TestInvariantPanicsFromTrySet(t *testing.T) {
	errFixed := errors.New("fixed")
	p := New(5, WithInvariant(func(v int) error {
		if v != 5 {
			return errFixed
		}
		return nil
	}))
	calls := 0
	p.LazyLink(func(int, int) { calls++ })

	assertPanics := func(name string, fn func()) {
		t.Helper()
		defer func() {
			r := recover()
			if err, ok := r.(error); !ok || !errors.Is(err, errFixed) {
				t.Errorf("%s: expected panic with errFixed, got %v", name, r)
			}
		}()
		fn()
	}
	assertPanics("TrySet", func() { _ = p.TrySet(6) })
	assertPanics("Set", func() { p.Set(7) })

	if p.Get() != 5 || calls != 0 {
		t.Errorf("expected value 5 and no notifications, got %d and %d", p.Get(), calls)
	}
	if err := p.Validate(8); !errors.Is(err, errFixed) {
		t.Errorf("expected Validate to report errFixed, got %v", err)
	}
	if err := p.TrySet(5); err != nil {
		t.Errorf("expected the fixed value to be accepted, got %v", err)
	}
}

func TestReset(t *testing.T) {
	p := New(5)
	p.Set(9)
	p.Reset()
	if p.Get() != 5 {
		t.Errorf("expected 5 after reset, got %d", p.Get())
	}
}

func TestDerivedRecomputesBeforeLaterListeners(t *testing.T) {
	natural := New(0.5)
	displacement := New(0.0)
	length := NewDerived(func() float64 {
		return natural.Get() + displacement.Get()
	}, natural, displacement)

	var seen float64
	displacement.LazyLink(func(v, old float64) { seen = length.Get() })

	displacement.Set(0.1)
	if seen != 0.6 {
		t.Errorf("expected listener to see length 0.6, got %f", seen)
	}
	if length.Get() != 0.6 {
		t.Errorf("expected length 0.6, got %f", length.Get())
	}
}

func TestDerivedDispose(t *testing.T) {
	a := New(1)
	d := NewDerived(func() int { return a.Get() * 2 }, a)
	d.Dispose()
	a.Set(4)
	if d.Get() != 2 {
		t.Errorf("expected stale value 2 after dispose, got %d", d.Get())
	}
	if a.ListenerCount() != 0 {
		t.Errorf("expected dependency listeners removed, got %d", a.ListenerCount())
	}
}

func TestDerivedChain(t *testing.T) {
	a := New(1)
	b := NewDerived(func() int { return a.Get() + 1 }, a)
	c := NewDerived(func() int { return b.Get() * 10 }, b)

	a.Set(4)
	if c.Get() != 50 {
		t.Errorf("expected 50, got %d", c.Get())
	}
}

func TestNotificationOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for seq := 0; seq < 100; seq++ {
		p := New(0.0)
		var order []string
		for _, name := range []string{"A", "B", "C"} {
			name := name
			p.LazyLink(func(v, old float64) { order = append(order, name) })
		}

		n := 1 + rng.Intn(20)
		changes := 0
		for i := 0; i < n; i++ {
			v := rng.Float64()
			if v != p.Get() {
				changes++
			}
			p.Set(v)
		}

		if len(order) != 3*changes {
			t.Fatalf("sequence %d: expected %d calls, got %d", seq, 3*changes, len(order))
		}
		for i := 0; i < len(order); i += 3 {
			if order[i] != "A" || order[i+1] != "B" || order[i+2] != "C" {
				t.Fatalf("sequence %d: out of order at %d: %v", seq, i, order[i:i+3])
			}
		}
	}
}

func TestUnlinkDuringDispatchKeepsPass(t *testing.T) {
	p := New(0)
	var order []string
	var idB ListenerID
	p.LazyLink(func(v, old int) {
		order = append(order, "A")
		p.Unlink(idB)
	})
	idB = p.LazyLink(func(v, old int) { order = append(order, "B") })
	p.LazyLink(func(v, old int) { order = append(order, "C") })

	p.Set(1)
	if len(order) != 3 {
		t.Fatalf("expected full first pass, got %v", order)
	}

	order = nil
	p.Set(2)
	if len(order) != 2 || order[0] != "A" || order[1] != "C" {
		t.Errorf("expected [A C], got %v", order)
	}
}
