package parking

import "github.com/google/uuid"

// Floor is an ordered level within a lot. Ordering drives the
// nearest-first allocation scan: lower values are tried first.
type Floor struct {
	ID       uuid.UUID
	LotID    uuid.UUID
	Label    string
	Ordering int
}

func NewFloor(id, lotID uuid.UUID, label string, ordering int) *Floor {
	return &Floor{
		ID:       id,
		LotID:    lotID,
		Label:    label,
		Ordering: ordering,
	}
}

func (f *Floor) Relabel(label string) {
	f.Label = label
}

func (f *Floor) Reorder(ordering int) {
	f.Ordering = ordering
}
