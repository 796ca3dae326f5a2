package worker

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestParcelTake(t *testing.T) {
	p := NewParcel(int32(5))

	if p.Spent() {
		t.Fatal("expected fresh parcel to be unspent")
	}

	v, err := p.Take()
	if err != nil {
		t.Fatalf("Take failed: %v", err)
	}
	if v != 5 {
		t.Errorf("expected 5, got %d", v)
	}
	if !p.Spent() {
		t.Error("expected parcel to be spent after Take")
	}

	_, err = p.Take()
	if !errors.Is(err, ErrParcelConsumed) {
		t.Errorf("expected ErrParcelConsumed on second Take, got %v", err)
	}
}

func TestParcelInvalid(t *testing.T) {
	tests := []struct {
		name   string
		parcel *Parcel[int32]
	}{
		{name: "nil parcel", parcel: nil},
		{name: "zero parcel", parcel: &Parcel[int32]{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.parcel.Take(); !errors.Is(err, ErrInvalidParcel) {
				t.Errorf("expected ErrInvalidParcel, got %v", err)
			}
			if !tt.parcel.Spent() {
				t.Error("expected invalid parcel to report spent")
			}
		})
	}
}

func TestParcelConcurrentTakeHasOneWinner(t *testing.T) {
	p := NewParcel(int32(5))

	var wins atomic.Int32
	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := p.Take(); err == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	if got := wins.Load(); got != 1 {
		t.Errorf("expected exactly one successful Take, got %d", got)
	}
}

func TestZeroRequestIsRejected(t *testing.T) {
	var req Request
	if _, err := req.Take(); !errors.Is(err, ErrInvalidParcel) {
		t.Errorf("expected ErrInvalidParcel, got %v", err)
	}
}
