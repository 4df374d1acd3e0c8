package paper

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/stemsi/qpaper-backend/internal/model"
)

var (
	// ErrCapacityExceeded is matched by the error Toggle returns when the selection is full.
	ErrCapacityExceeded = errors.New("selection capacity exceeded")
	// ErrInvalidCapacity is returned for a non-positive maximum.
	ErrInvalidCapacity = errors.New("max questions must be positive")
)

// CapacityError reports a rejected addition and the limit in force.
type CapacityError struct {
	Max int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("You can select a maximum of %d questions.", e.Max)
}

func (e *CapacityError) Is(target error) bool {
	return target == ErrCapacityExceeded
}

// Selection is an ordered set of question ids bounded by a maximum.
// It is not safe for concurrent use.
type Selection struct {
	ids []uuid.UUID
	max int
}

// NewSelection returns an empty selection holding at most max questions.
func NewSelection(max int) (*Selection, error) {
	if max <= 0 {
		return nil, ErrInvalidCapacity
	}
	return &Selection{max: max}, nil
}

// RestoreSelection rebuilds a stored selection. Duplicate ids are dropped and
// an over-full selection is kept as is.
func RestoreSelection(max int, ids []uuid.UUID) (*Selection, error) {
	s, err := NewSelection(max)
	if err != nil {
		return nil, err
	}
	s.ids = make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if !s.Contains(id) {
			s.ids = append(s.ids, id)
		}
	}
	return s, nil
}

// Toggle removes q if selected, otherwise appends it. Removal always
// succeeds. Adding to a full selection leaves it unchanged and returns a
// *CapacityError.
func (s *Selection) Toggle(q model.Question) (added bool, err error) {
	if s.Remove(q.ID) {
		return false, nil
	}
	if err := q.Validate(); err != nil {
		return false, err
	}
	if len(s.ids) >= s.max {
		return false, &CapacityError{Max: s.max}
	}
	s.ids = append(s.ids, q.ID)
	return true, nil
}

// Remove drops id and reports whether it was present.
func (s *Selection) Remove(id uuid.UUID) bool {
	i := slices.Index(s.ids, id)
	if i < 0 {
		return false
	}
	s.ids = slices.Delete(s.ids, i, i+1)
	return true
}

// SetMax changes the limit. Lowering it below Len never evicts anything;
// it only blocks further additions.
func (s *Selection) SetMax(max int) error {
	if max <= 0 {
		return ErrInvalidCapacity
	}
	s.max = max
	return nil
}

func (s *Selection) Max() int { return s.max }
func (s *Selection) Len() int { return len(s.ids) }

// Full reports whether the selection is at or over its limit.
func (s *Selection) Full() bool { return len(s.ids) >= s.max }

func (s *Selection) Contains(id uuid.UUID) bool {
	return slices.Contains(s.ids, id)
}

// IDs returns the selected ids in selection order.
func (s *Selection) IDs() []uuid.UUID {
	return append([]uuid.UUID{}, s.ids...)
}

// TotalMarks is the selection size times marksPerQuestion.
func (s *Selection) TotalMarks(marksPerQuestion int) int {
	return len(s.ids) * marksPerQuestion
}
