package booking

import (
	"testing"

	"glowbook/models"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to models.BookingStatus
		want     bool
	}{
		{models.BookingPending, models.BookingConfirmed, true},
		{models.BookingPending, models.BookingCancelled, true},
		{models.BookingPending, models.BookingCompleted, false},
		{models.BookingConfirmed, models.BookingCompleted, true},
		{models.BookingConfirmed, models.BookingCancelled, true},
		{models.BookingConfirmed, models.BookingPending, false},
		{models.BookingCompleted, models.BookingCancelled, false},
		{models.BookingCancelled, models.BookingConfirmed, false},
		{models.BookingPending, models.BookingPending, false},
		{models.BookingStatus("Unknown"), models.BookingConfirmed, false},
	}

	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	if IsTerminal(models.BookingPending) {
		t.Error("Pending should not be terminal")
	}
	if IsTerminal(models.BookingConfirmed) {
		t.Error("Confirmed should not be terminal")
	}
	if !IsTerminal(models.BookingCompleted) {
		t.Error("Completed should be terminal")
	}
	if !IsTerminal(models.BookingCancelled) {
		t.Error("Cancelled should be terminal")
	}
}

func TestComputeDeposit(t *testing.T) {
	cases := []struct {
		total int64
		want  int64
	}{
		{10000, 2000},
		{9999, 2000},
		{101, 20},
		{102, 20},
		{103, 21},
		{1, 0},
	}
	for _, c := range cases {
		if got := ComputeDeposit(c.total); got != c.want {
			t.Errorf("ComputeDeposit(%d) = %d, want %d", c.total, got, c.want)
		}
	}
}
