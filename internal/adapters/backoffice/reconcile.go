package backoffice

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"hotel_backoffice/internal/domain"
)

// DefaultConcurrency bounds in-flight link calls when the caller passes 0.
const DefaultConcurrency = 4

// ReconcileReport is the outcome of a per-pair reconciliation. Failed holds the error of
// every pair whose call did not succeed.
type ReconcileReport struct {
	Planned  domain.LinkDiff
	Linked   []int64
	Unlinked []int64
	Failed   map[int64]error
}

func (r ReconcileReport) OK() bool { return len(r.Failed) == 0 }

// ReconcileHotelAmenities applies the change from original, the links seen when the edit
// started, to selected. Links changed by others since then are not re-read.
func (c *Client) ReconcileHotelAmenities(ctx context.Context, hotelID int64, original, selected []int64, concurrency int) (ReconcileReport, error) {
	sel := domain.NewSelection(original)
	sel.Set(selected)
	return c.ApplySelection(ctx, domain.HotelAmenity, hotelID, sel, concurrency)
}

func (c *Client) ReconcileRoomAmenities(ctx context.Context, roomID int64, original, selected []int64, concurrency int) (ReconcileReport, error) {
	sel := domain.NewSelection(original)
	sel.Set(selected)
	return c.ApplySelection(ctx, domain.RoomAmenity, roomID, sel, concurrency)
}

// ApplySelection dispatches one PATCH per pair that sel added or removed. Nothing is rolled
// back when a call fails; the report lists what was applied.
func (c *Client) ApplySelection(ctx context.Context, kind domain.AmenityKind, ownerID int64, sel domain.Selection, concurrency int) (ReconcileReport, error) {
	return c.apply(ctx, kind, ownerID, sel.Diff(), concurrency)
}

// Reconcile reads the owner's current links and brings them to selected with one PATCH per
// changed pair. Pairs linked by someone else in the meantime count as linked. Use
// SetAmenities when the change has to be atomic.
func (c *Client) Reconcile(ctx context.Context, kind domain.AmenityKind, ownerID int64, selected []int64, concurrency int) (ReconcileReport, error) {
	current, err := c.linkedIDs(ctx, kind, ownerID)
	if err != nil {
		return ReconcileReport{}, err
	}
	sel := domain.NewSelection(current)
	sel.Set(selected)
	return c.ApplySelection(ctx, kind, ownerID, sel, concurrency)
}

func (c *Client) linkedIDs(ctx context.Context, kind domain.AmenityKind, ownerID int64) ([]int64, error) {
	var as []domain.Amenity
	switch kind {
	case domain.HotelAmenity:
		h, err := c.GetHotel(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		as = h.Amenities
	case domain.RoomAmenity:
		r, err := c.GetRoom(ctx, ownerID)
		if err != nil {
			return nil, err
		}
		as = r.Amenities
	default:
		return nil, fmt.Errorf("%w: unknown amenity kind %q", domain.ErrValidation, kind)
	}
	ids := make([]int64, 0, len(as))
	for _, a := range as {
		ids = append(ids, a.ID)
	}
	return ids, nil
}

// apply dispatches diff with at most concurrency calls in flight. Every pair is attempted;
// the returned error joins the per-pair failures.
func (c *Client) apply(ctx context.Context, kind domain.AmenityKind, ownerID int64, diff domain.LinkDiff, concurrency int) (ReconcileReport, error) {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	rep := ReconcileReport{Planned: diff, Linked: []int64{}, Unlinked: []int64{}, Failed: map[int64]error{}}
	var mu sync.Mutex
	record := func(dst *[]int64, id int64, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			rep.Failed[id] = err
			return
		}
		*dst = append(*dst, id)
	}

	var g errgroup.Group
	g.SetLimit(concurrency)
	for _, id := range diff.Link {
		id := id
		g.Go(func() error {
			_, err := c.Link(ctx, kind, ownerID, id)
			if errors.Is(err, domain.ErrConflict) {
				err = nil
			}
			record(&rep.Linked, id, err)
			return nil
		})
	}
	for _, id := range diff.Unlink {
		id := id
		g.Go(func() error {
			record(&rep.Unlinked, id, c.Unlink(ctx, kind, ownerID, id))
			return nil
		})
	}
	_ = g.Wait()

	sortIDs(rep.Linked)
	sortIDs(rep.Unlinked)
	if rep.OK() {
		return rep, nil
	}
	failed := make([]int64, 0, len(rep.Failed))
	for id := range rep.Failed {
		failed = append(failed, id)
	}
	sortIDs(failed)
	errs := make([]error, 0, len(failed))
	for _, id := range failed {
		errs = append(errs, fmt.Errorf("amenity %d: %w", id, rep.Failed[id]))
	}
	return rep, errors.Join(errs...)
}

func sortIDs(ids []int64) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
