package department

// OwnedBy keeps the records whose owner is employeeID. An empty employeeID
// matches nothing.
func OwnedBy(records []Record, employeeID string) []Record {
	out := make([]Record, 0, len(records))
	if employeeID == "" {
		return out
	}
	for _, r := range records {
		if r.EmployeeID == employeeID {
			out = append(out, r)
		}
	}
	return out
}

// Without returns a copy of records minus the one identified by id.
func Without(records []Record, id string) ([]Record, bool) {
	out := make([]Record, 0, len(records))
	removed := false
	for _, r := range records {
		if !removed && r.ID == id {
			removed = true
			continue
		}
		out = append(out, r)
	}
	return out, removed
}

func Find(records []Record, id string) (Record, bool) {
	for _, r := range records {
		if r.ID == id {
			return r, true
		}
	}
	return Record{}, false
}

// Pager tracks the current page against the total reported by the API.
type Pager struct {
	Current int
	Total   int
}

func NewPager(current int) Pager {
	if current < 1 {
		current = 1
	}
	return Pager{Current: current, Total: 1}
}

func (p Pager) PrevDisabled() bool {
	return p.Current == 1
}

func (p Pager) NextDisabled() bool {
	return p.Current == p.Total
}

func (p Pager) CanPrev() bool {
	return p.Current > 1
}

func (p Pager) CanNext() bool {
	return p.Current < p.Total
}

func (p Pager) PrevPage() int {
	if p.CanPrev() {
		return p.Current - 1
	}
	return p.Current
}

func (p Pager) NextPage() int {
	if p.CanNext() {
		return p.Current + 1
	}
	return p.Current
}
