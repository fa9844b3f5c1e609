package schedule

import (
	"encoding/json"
	"strconv"

	"github.com/trezcool/campweek/core/camp"
)

// Schedule maps each week slot (2 and 3) to at most one camp.
// It is not safe for concurrent use; Sessions serializes access to the schedules it holds.
type Schedule struct {
	slots map[camp.WeekID]*camp.Camp
}

// Slot is one week slot and its camp, if any.
type Slot struct {
	Week camp.WeekID `json:"week"`
	Camp *camp.Camp  `json:"camp"`
}

// New returns an empty schedule.
func New() *Schedule {
	s := &Schedule{slots: make(map[camp.WeekID]*camp.Camp, len(camp.WeekIDs))}
	for _, w := range camp.WeekIDs {
		s.slots[w] = nil
	}
	return s
}

// Toggle clears the week when it already holds a camp with the same ID, otherwise assigns c to it.
// Availability is not checked here. Unknown weeks are ignored.
func (s *Schedule) Toggle(c camp.Camp, week camp.WeekID) {
	curr, ok := s.slots[week]
	if !ok {
		return
	}
	if curr != nil && curr.ID == c.ID {
		s.slots[week] = nil
		return
	}
	s.slots[week] = &c
}

// Remove empties the week slot.
func (s *Schedule) Remove(week camp.WeekID) {
	if _, ok := s.slots[week]; ok {
		s.slots[week] = nil
	}
}

// Get returns the camp assigned to the week.
func (s *Schedule) Get(week camp.WeekID) (camp.Camp, bool) {
	if c := s.slots[week]; c != nil {
		return *c, true
	}
	return camp.Camp{}, false
}

// TotalPrice sums the prices of the assigned camps.
func (s *Schedule) TotalPrice() int {
	var total int
	for _, c := range s.slots {
		if c != nil && c.Price > 0 {
			total += c.Price
		}
	}
	return total
}

// Slots returns every week slot ordered by week.
func (s *Schedule) Slots() []Slot {
	slots := make([]Slot, 0, len(camp.WeekIDs))
	for _, w := range camp.WeekIDs {
		var c *camp.Camp
		if curr := s.slots[w]; curr != nil {
			cp := *curr
			c = &cp
		}
		slots = append(slots, Slot{Week: w, Camp: c})
	}
	return slots
}

// CampIDs returns the camp ID per assigned week.
func (s *Schedule) CampIDs() map[camp.WeekID]string {
	ids := make(map[camp.WeekID]string, len(s.slots))
	for w, c := range s.slots {
		if c != nil {
			ids[w] = c.ID
		}
	}
	return ids
}

// Clone returns an independent copy of the schedule; the camps themselves are copied by value.
func (s *Schedule) Clone() *Schedule {
	cp := New()
	for w, c := range s.slots {
		if c != nil {
			cc := *c
			cp.slots[w] = &cc
		}
	}
	return cp
}

// MarshalJSON renders the schedule as {"2": camp|null, "3": camp|null}.
func (s *Schedule) MarshalJSON() ([]byte, error) {
	obj := make(map[string]*camp.Camp, len(s.slots))
	for w, c := range s.slots {
		obj[strconv.Itoa(int(w))] = c
	}
	return json.Marshal(obj)
}
