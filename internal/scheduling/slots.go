package scheduling

import "fmt"

// TimeSlot is a bookable interval within working hours. Times use the
// canonical "15:04:05" form, so lexicographic comparison matches temporal
// order.
type TimeSlot struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// Fixed working hours: eight one-hour slots between 09:00 and 17:00.
const (
	workDayStartHour = 9
	workDayEndHour   = 17
)

// WorkingHourSlots returns the full hourly slot grid for one working day.
func WorkingHourSlots() []TimeSlot {
	slots := make([]TimeSlot, 0, workDayEndHour-workDayStartHour)
	for h := workDayStartHour; h < workDayEndHour; h++ {
		slots = append(slots, TimeSlot{
			StartTime: fmt.Sprintf("%02d:00:00", h),
			EndTime:   fmt.Sprintf("%02d:00:00", h+1),
		})
	}
	return slots
}

// AvailableSlots subtracts booked intervals from the working-hour grid.
// A slot is taken when its start instant falls inside a booked
// [start, end) range; slots are treated as atomic hourly units, so a
// booking that begins mid-slot does not block the slot it starts in.
func AvailableSlots(booked []TimeSlot) []TimeSlot {
	available := make([]TimeSlot, 0, workDayEndHour-workDayStartHour)
	for _, slot := range WorkingHourSlots() {
		if !slotTaken(slot, booked) {
			available = append(available, slot)
		}
	}
	return available
}

func slotTaken(slot TimeSlot, booked []TimeSlot) bool {
	for _, b := range booked {
		if slot.StartTime >= b.StartTime && slot.StartTime < b.EndTime {
			return true
		}
	}
	return false
}
