package calendar

import (
	"fmt"
	"time"
)

const (
	firstSlotMinutes = 7*60 + 30
	lastSlotMinutes  = 19*60 + 30
	SlotStepMinutes  = 30
)

// TimeSlots lists the bookable times from 07:30 to 19:30 every 30 minutes.
func TimeSlots() []string {
	slots := make([]string, 0, (lastSlotMinutes-firstSlotMinutes)/SlotStepMinutes+1)
	for m := firstSlotMinutes; m <= lastSlotMinutes; m += SlotStepMinutes {
		slots = append(slots, fmt.Sprintf("%02d:%02d", m/60, m%60))
	}
	return slots
}

// ValidateClock checks an HH:MM time on the half-hour grid.
func ValidateClock(clock string) error {
	if len(clock) != len(ClockLayout) {
		return fmt.Errorf("%w: %q", ErrInvalidTime, clock)
	}
	t, err := time.Parse(ClockLayout, clock)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidTime, clock)
	}
	if t.Minute()%SlotStepMinutes != 0 {
		return fmt.Errorf("%w: %q is not on a %d minute boundary", ErrInvalidTime, clock, SlotStepMinutes)
	}
	return nil
}
