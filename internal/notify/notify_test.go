package notify

import (
	"testing"
)

func TestNew(t *testing.T) {
	n := New()
	if n == nil {
		t.Fatal("New() returned nil")
	}
	if n.Len() != 0 {
		t.Errorf("Len() = %d, want 0", n.Len())
	}
}

func TestNotifier_Subscribe(t *testing.T) {
	n := New()

	var received int
	sub := n.Subscribe(func(change Change) {
		received++
	})

	n.NotifyChange(nil, "EvaluatedValue", "a", "b")
	n.NotifyChange(nil, "IsVisible", true, false)

	if received != 2 {
		t.Errorf("observer received %d changes, want 2", received)
	}

	sub.Unsubscribe()
	n.NotifyChange(nil, "EvaluatedValue", "b", "c")

	if received != 2 {
		t.Error("unsubscribed observer received notification")
	}
	if n.Len() != 0 {
		t.Errorf("Len() = %d after unsubscribe, want 0", n.Len())
	}
}

func TestNotifier_SubscribeField(t *testing.T) {
	n := New()

	var values, visible int
	n.SubscribeField("EvaluatedValue", func(change Change) {
		values++
	})
	n.SubscribeField("IsVisible", func(change Change) {
		visible++
	})

	n.NotifyChange(nil, "EvaluatedValue", 1, 2)
	n.NotifyChange(nil, "EvaluatedValue", 2, 3)
	n.NotifyChange(nil, "IsVisible", true, false)
	n.NotifyChange(nil, "Values", nil, nil)

	if values != 2 {
		t.Errorf("EvaluatedValue observer received %d changes, want 2", values)
	}
	if visible != 1 {
		t.Errorf("IsVisible observer received %d changes, want 1", visible)
	}
}

func TestNotifier_Order(t *testing.T) {
	n := New()

	var order []int
	for i := 0; i < 5; i++ {
		i := i
		n.Subscribe(func(change Change) {
			order = append(order, i)
		})
	}

	n.NotifyChange(nil, "x", nil, nil)

	for i, got := range order {
		if got != i {
			t.Fatalf("delivery order = %v, want ascending", order)
		}
	}
}

func TestNotifier_ChangePayload(t *testing.T) {
	n := New()
	sender := &struct{ name string }{"sender"}

	var got Change
	n.Subscribe(func(change Change) {
		got = change
	})

	n.NotifyChange(sender, "EvaluatedValue", "old", "new")

	if got.Field != "EvaluatedValue" {
		t.Errorf("Field = %q, want %q", got.Field, "EvaluatedValue")
	}
	if got.OldValue != "old" || got.NewValue != "new" {
		t.Errorf("OldValue/NewValue = %v/%v, want old/new", got.OldValue, got.NewValue)
	}
	if got.Sender != sender {
		t.Error("Sender not propagated")
	}
}

func TestNotifier_UnsubscribeDuringDelivery(t *testing.T) {
	n := New()

	var first, second int
	var sub *Subscription
	sub = n.Subscribe(func(change Change) {
		first++
		sub.Unsubscribe()
	})
	n.Subscribe(func(change Change) {
		second++
	})

	n.NotifyChange(nil, "x", nil, nil)
	n.NotifyChange(nil, "x", nil, nil)

	if first != 1 {
		t.Errorf("self-unsubscribing observer called %d times, want 1", first)
	}
	if second != 2 {
		t.Errorf("second observer called %d times, want 2", second)
	}
}

func TestSubscription_UnsubscribeTwice(t *testing.T) {
	n := New()
	sub := n.SubscribeField("x", func(Change) {})
	other := n.Subscribe(func(Change) {})

	sub.Unsubscribe()
	sub.Unsubscribe()

	if n.Len() != 1 {
		t.Errorf("Len() = %d, want 1", n.Len())
	}
	if sub.Field() != "x" {
		t.Errorf("Field() = %q, want %q", sub.Field(), "x")
	}
	other.Unsubscribe()

	var nilSub *Subscription
	nilSub.Unsubscribe()
}
