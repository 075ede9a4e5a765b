package packet

import "testing"

func TestFlagsDefault(t *testing.T) {
	f := NewFlags()
	if !f.IsFirst() || !f.IsLast() {
		t.Fatal("default flags must have FIRST and LAST set")
	}
	if f.IsMultiple() || f.IsInOrder() || f.IsAck() {
		t.Fatal("default flags must not have other bits set")
	}
}

func TestFlagsSetUnsetRoundTrip(t *testing.T) {
	f := NewFlags().SetFirst().UnsetFirst()
	if f.IsFirst() {
		t.Fatal("unset_first after set_first should leave is_first false")
	}
	f = NewFlags().SetLast().UnsetLast()
	if f.IsLast() {
		t.Fatal("unset_last after set_last should leave is_last false")
	}
	f = NewFlags().SetMultiple().UnsetMultiple()
	if f.IsMultiple() {
		t.Fatal("unset_multiple after set_multiple should leave is_multiple false")
	}
	f = NewFlags().SetInOrder().UnsetInOrder()
	if f.IsInOrder() {
		t.Fatal("unset_in_order after set_in_order should leave is_in_order false")
	}
	f = NewFlags().SetAck().UnsetAck()
	if f.IsAck() {
		t.Fatal("unset_ack after set_ack should leave is_ack false")
	}
}

func TestFlagsUnsetFirstLeavesLast(t *testing.T) {
	if !NewFlags().UnsetFirst().IsLast() {
		t.Fatal("unsetting FIRST must not clear LAST")
	}
	if !NewFlags().UnsetLast().IsFirst() {
		t.Fatal("unsetting LAST must not clear FIRST")
	}
}

func TestFlagsString(t *testing.T) {
	if got := NewFlags().String(); got != "FL___" {
		t.Fatalf("default flags string = %q, want FL___", got)
	}
}
