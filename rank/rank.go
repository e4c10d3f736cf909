package rank

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrRankNotFound is returned when the member does not exist.
	ErrRankNotFound = errors.New("rank member not found")
	// ErrPositionOutOfRange is returned for negative targets and, on bounded
	// stores, targets past the last position.
	ErrPositionOutOfRange = errors.New("rank position out of range")
	// ErrRankShiftPartial marks a move that left positions non-dense.
	ErrRankShiftPartial = errors.New("rank shift partially applied")
	// ErrMoveRolledBack is returned when a transactional move failed and
	// nothing was written.
	ErrMoveRolledBack = errors.New("rank move rolled back")
)

// Outcome reports what a successful MoveTo did.
type Outcome int

const (
	NoOp Outcome = iota
	Moved
)

func (o Outcome) String() string {
	if o == Moved {
		return "moved"
	}
	return "noop"
}

// Store is the collection contract. ShiftRange adds delta to the position of
// every member with lo <= position <= hi. Position returns [ErrRankNotFound]
// for unknown ids.
//
// Positions stay a dense permutation only for stores that also implement
// [Bounded]. Without it the Orderer cannot see the last position, and a target
// past it leaves a gap.
type Store interface {
	Position(ctx context.Context, id string) (int, error)
	ShiftRange(ctx context.Context, lo, hi, delta int) error
	SetPosition(ctx context.Context, id string, position int) error
}

// Transactor is implemented by stores that can run both move phases atomically.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}

// Bounded is implemented by stores that know the position range.
type Bounded interface {
	PositionBounds(ctx context.Context) (min, max int, err error)
}

// Phase names the step a move failed in.
type Phase string

const (
	PhaseShift Phase = "shift"
	PhaseSet   Phase = "set"
)

// PartialError describes a non-transactional move that stopped midway.
// After a failed set, the shifted range already moved and id still holds From.
type PartialError struct {
	Phase Phase
	ID    string
	From  int
	To    int
	Err   error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("rank move %s %d->%d failed in %s phase: %v", e.ID, e.From, e.To, e.Phase, e.Err)
}

func (e *PartialError) Unwrap() error { return e.Err }

func (e *PartialError) Is(target error) bool { return target == ErrRankShiftPartial }

// Orderer applies moves to one collection. Moves through the same Orderer are
// serialised; moves from other processes are not.
type Orderer struct {
	store Store
	mu    sync.Mutex
}

// NewOrderer returns an Orderer over store. Implement [Bounded] on store to
// have out-of-range targets rejected.
func NewOrderer(store Store) *Orderer {
	return &Orderer{store: store}
}

// MoveTo moves id to newPosition, shifting the members in between.
func (o *Orderer) MoveTo(ctx context.Context, id string, newPosition int) (Outcome, error) {
	if newPosition < 0 {
		return NoOp, ErrPositionOutOfRange
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	current, err := o.store.Position(ctx, id)
	if err != nil {
		return NoOp, err
	}
	if current == newPosition {
		return NoOp, nil
	}

	if b, ok := o.store.(Bounded); ok {
		lo, hi, err := b.PositionBounds(ctx)
		if err != nil {
			return NoOp, err
		}
		if newPosition < lo || newPosition > hi {
			return NoOp, ErrPositionOutOfRange
		}
	}

	if tx, ok := o.store.(Transactor); ok {
		err := tx.WithinTx(ctx, func(s Store) error {
			return apply(ctx, s, id, current, newPosition)
		})
		if err != nil {
			return NoOp, fmt.Errorf("%w: %v", ErrMoveRolledBack, err)
		}
		return Moved, nil
	}

	if err := apply(ctx, o.store, id, current, newPosition); err != nil {
		return NoOp, err
	}
	return Moved, nil
}

func apply(ctx context.Context, s Store, id string, from, to int) error {
	var err error
	if to < from {
		err = s.ShiftRange(ctx, to, from-1, +1)
	} else {
		err = s.ShiftRange(ctx, from+1, to, -1)
	}
	if err != nil {
		return &PartialError{Phase: PhaseShift, ID: id, From: from, To: to, Err: err}
	}
	if err := s.SetPosition(ctx, id, to); err != nil {
		return &PartialError{Phase: PhaseSet, ID: id, From: from, To: to, Err: err}
	}
	return nil
}
