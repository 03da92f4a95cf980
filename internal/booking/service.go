package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/saloniq/salon-booking-backend/internal/availability"
	"github.com/saloniq/salon-booking-backend/internal/catalog"
	"github.com/saloniq/salon-booking-backend/internal/metrics"
	"github.com/saloniq/salon-booking-backend/internal/notify"
	"github.com/saloniq/salon-booking-backend/internal/pkg/clockwork"
	"github.com/saloniq/salon-booking-backend/internal/salon"
	"github.com/saloniq/salon-booking-backend/internal/schedule"
	"github.com/saloniq/salon-booking-backend/internal/staff"
)

// SalonDirectory is the slice of the salon service the allocator needs.
type SalonDirectory interface {
	GetByID(ctx context.Context, id string) (*salon.Salon, error)
}

// ServiceCatalog is the slice of the catalog service the allocator needs.
type ServiceCatalog interface {
	GetByID(ctx context.Context, id string) (*catalog.Service, error)
}

// StaffDirectory is the slice of the staff service the allocator needs.
// List must return staff in stable allocation order.
type StaffDirectory interface {
	GetByID(ctx context.Context, id string) (*staff.Staff, error)
	List(ctx context.Context, filter staff.Filter) ([]*staff.Staff, int, error)
	IsQualified(ctx context.Context, staffID, serviceID string) (bool, error)
}

// WindowResolver resolves the effective working window for a staff day.
type WindowResolver interface {
	ResolveWindow(ctx context.Context, salonID, staffID string, date time.Time) (schedule.Window, error)
}

type CreateRequest struct {
	SalonID     string
	StaffID     string // empty selects any qualified staff in allocation order
	ClientID    *string
	ServiceID   string
	Date        time.Time
	StartMinute int
	Notes       string
}

type MoveRequest struct {
	Version     int
	StaffID     *string
	Date        *time.Time
	StartMinute *int
}

type ResizeRequest struct {
	Version         int
	DurationMinutes int
}

type ExtendRequest struct {
	Version      int
	ExtraMinutes int
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	GetByID(ctx context.Context, id string) (*Booking, error)
	// List returns the matching page of bookings and the total match count.
	List(ctx context.Context, filter ListFilter) ([]*Booking, int, error)

	// Move relocates a booking to another staff member, date or start time.
	// It returns the pre-move snapshot for a later Revert.
	Move(ctx context.Context, id string, req MoveRequest) (*Booking, *Snapshot, error)
	// Resize changes the booked duration in place.
	Resize(ctx context.Context, id string, req ResizeRequest) (*Booking, *Snapshot, error)
	// Extend adds overrun minutes on top of the booked duration.
	Extend(ctx context.Context, id string, req ExtendRequest) (*Booking, *Snapshot, error)
	// Revert restores the placement captured in snap. It applies only while
	// the booking is exactly one write past the snapshot.
	Revert(ctx context.Context, id string, snap Snapshot) (*Booking, error)

	SetStatus(ctx context.Context, id string, status Status, version int) (*Booking, error)
}

type service struct {
	store    Store
	salons   SalonDirectory
	services ServiceCatalog
	staff    StaffDirectory
	schedule WindowResolver
	notifier notify.Dispatcher
}

func NewService(store Store, salons SalonDirectory, services ServiceCatalog, staffDir StaffDirectory, scheduleSvc WindowResolver, notifier notify.Dispatcher) Service {
	if notifier == nil {
		notifier = notify.NopDispatcher{}
	}
	return &service{
		store:    store,
		salons:   salons,
		services: services,
		staff:    staffDir,
		schedule: scheduleSvc,
		notifier: notifier,
	}
}

func (s *service) GetByID(ctx context.Context, id string) (*Booking, error) {
	return s.store.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]*Booking, int, error) {
	return s.store.List(ctx, filter)
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	sal, err := s.salons.GetByID(ctx, req.SalonID)
	if err != nil {
		return nil, err
	}

	svc, err := s.services.GetByID(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}
	if svc.SalonID != req.SalonID || !svc.Active {
		return nil, catalog.ErrNotFound
	}

	candidates, err := s.candidates(ctx, req.SalonID, req.StaffID, req.ServiceID)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, ErrNoEligibleStaff
	}

	status := StatusPending
	if sal.AutoConfirm {
		status = StatusConfirmed
	}
	date := clockwork.Midnight(req.Date)

	// Candidates are tried in allocation order; each attempt holds only its
	// own shard lock, so parallel requests for different staff never contend.
	lastErr := error(ErrSlotUnavailable)
	for _, st := range candidates {
		b := &Booking{
			SalonID:         req.SalonID,
			StaffID:         st.ID,
			ClientID:        req.ClientID,
			ServiceID:       &req.ServiceID,
			Date:            date,
			StartMinute:     req.StartMinute,
			DurationMinutes: svc.DurationMinutes,
			Status:          status,
			Notes:           req.Notes,
		}

		err := s.store.Atomic(ctx, []ShardKey{{StaffID: st.ID, Date: date}}, func(tx Tx) error {
			if err := s.validatePlacement(ctx, tx, sal.SlotStepMinutes, b, ""); err != nil {
				return err
			}
			return tx.Insert(ctx, b)
		})
		if err == nil {
			metrics.IncBookingOp("create", "ok")
			s.dispatch(notify.EventBookingCreated, b)
			return b, nil
		}
		if isPlacementRejection(err) {
			lastErr = err
			continue
		}
		metrics.IncBookingOp("create", "error")
		return nil, err
	}

	metrics.IncBookingOp("create", "conflict")
	return nil, lastErr
}

func (s *service) Move(ctx context.Context, id string, req MoveRequest) (*Booking, *Snapshot, error) {
	cur, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	sal, err := s.salons.GetByID(ctx, cur.SalonID)
	if err != nil {
		return nil, nil, err
	}

	targetStaff := cur.StaffID
	if req.StaffID != nil {
		targetStaff = *req.StaffID
	}
	targetDate := cur.Date
	if req.Date != nil {
		targetDate = clockwork.Midnight(*req.Date)
	}
	targetStart := cur.StartMinute
	if req.StartMinute != nil {
		targetStart = *req.StartMinute
	}

	if targetStaff != cur.StaffID {
		if err := s.checkTarget(ctx, cur, targetStaff); err != nil {
			return nil, nil, err
		}
	}

	keys := []ShardKey{
		{StaffID: cur.StaffID, Date: cur.Date},
		{StaffID: targetStaff, Date: targetDate},
	}

	var updated *Booking
	var snap *Snapshot
	err = s.store.Atomic(ctx, keys, func(tx Tx) error {
		fresh, err := freshMutable(ctx, tx, id, req.Version)
		if err != nil {
			return err
		}

		sn := fresh.Snapshot()
		next := *fresh
		next.StaffID = targetStaff
		next.Date = targetDate
		next.StartMinute = targetStart

		if err := s.validatePlacement(ctx, tx, sal.SlotStepMinutes, &next, fresh.ID); err != nil {
			return err
		}
		if err := tx.UpdatePlacement(ctx, &next, req.Version); err != nil {
			return err
		}
		updated, snap = &next, &sn
		return nil
	})
	if err != nil {
		metrics.IncBookingOp("move", opResult(err))
		return nil, nil, err
	}

	metrics.IncBookingOp("move", "ok")
	s.dispatch(notify.EventBookingMoved, updated)
	return updated, snap, nil
}

func (s *service) Resize(ctx context.Context, id string, req ResizeRequest) (*Booking, *Snapshot, error) {
	if req.DurationMinutes <= 0 {
		return nil, nil, ErrInvalidDuration
	}
	return s.reshape(ctx, id, req.Version, "resize", notify.EventBookingResized, func(next *Booking) {
		next.DurationMinutes = req.DurationMinutes
	})
}

func (s *service) Extend(ctx context.Context, id string, req ExtendRequest) (*Booking, *Snapshot, error) {
	if req.ExtraMinutes <= 0 {
		return nil, nil, ErrInvalidDuration
	}
	return s.reshape(ctx, id, req.Version, "extend", notify.EventBookingResized, func(next *Booking) {
		next.ExtraMinutes += req.ExtraMinutes
	})
}

// reshape changes the booked time in place: same staff, same date, same
// start. Used by Resize and Extend.
func (s *service) reshape(ctx context.Context, id string, version int, operation, eventType string, mutate func(next *Booking)) (*Booking, *Snapshot, error) {
	cur, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	sal, err := s.salons.GetByID(ctx, cur.SalonID)
	if err != nil {
		return nil, nil, err
	}

	var updated *Booking
	var snap *Snapshot
	err = s.store.Atomic(ctx, []ShardKey{{StaffID: cur.StaffID, Date: cur.Date}}, func(tx Tx) error {
		fresh, err := freshMutable(ctx, tx, id, version)
		if err != nil {
			return err
		}

		sn := fresh.Snapshot()
		next := *fresh
		mutate(&next)

		if err := s.validatePlacement(ctx, tx, sal.SlotStepMinutes, &next, fresh.ID); err != nil {
			return err
		}
		if err := tx.UpdatePlacement(ctx, &next, version); err != nil {
			return err
		}
		updated, snap = &next, &sn
		return nil
	})
	if err != nil {
		metrics.IncBookingOp(operation, opResult(err))
		return nil, nil, err
	}

	metrics.IncBookingOp(operation, "ok")
	s.dispatch(eventType, updated)
	return updated, snap, nil
}

func (s *service) Revert(ctx context.Context, id string, snap Snapshot) (*Booking, error) {
	if snap.BookingID != id {
		return nil, ErrSnapshotMismatch
	}

	cur, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	sal, err := s.salons.GetByID(ctx, cur.SalonID)
	if err != nil {
		return nil, err
	}

	keys := []ShardKey{
		{StaffID: cur.StaffID, Date: cur.Date},
		{StaffID: snap.StaffID, Date: snap.Date},
	}

	var updated *Booking
	err = s.store.Atomic(ctx, keys, func(tx Tx) error {
		// A revert is only valid while the booking is exactly one write past
		// the snapshot. Anything newer would be silently destroyed.
		fresh, err := freshMutable(ctx, tx, id, snap.Version+1)
		if err != nil {
			return err
		}

		next := *fresh
		next.StaffID = snap.StaffID
		next.Date = snap.Date
		next.StartMinute = snap.StartMinute
		next.DurationMinutes = snap.DurationMinutes
		next.ExtraMinutes = snap.ExtraMinutes

		if err := s.validatePlacement(ctx, tx, sal.SlotStepMinutes, &next, fresh.ID); err != nil {
			return err
		}
		if err := tx.UpdatePlacement(ctx, &next, fresh.Version); err != nil {
			return err
		}
		updated = &next
		return nil
	})
	if err != nil {
		metrics.IncBookingOp("revert", opResult(err))
		return nil, err
	}

	metrics.IncBookingOp("revert", "ok")
	s.dispatch(notify.EventBookingReverted, updated)
	return updated, nil
}

func (s *service) SetStatus(ctx context.Context, id string, status Status, version int) (*Booking, error) {
	if !validStatus(status) {
		return nil, ErrInvalidTransition
	}

	cur, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var updated *Booking
	err = s.store.Atomic(ctx, []ShardKey{{StaffID: cur.StaffID, Date: cur.Date}}, func(tx Tx) error {
		fresh, err := tx.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return ErrBookingGone
			}
			return err
		}
		if fresh.Version != version {
			return ErrConcurrentModification
		}
		if !canTransition(fresh.Status, status) {
			return ErrInvalidTransition
		}

		next := *fresh
		if err := tx.UpdateStatus(ctx, &next, status, version); err != nil {
			return err
		}
		updated = &next
		return nil
	})
	if err != nil {
		metrics.IncBookingOp("set_status", opResult(err))
		return nil, err
	}

	metrics.IncBookingOp("set_status", "ok")
	if status == StatusCancelled {
		s.dispatch(notify.EventBookingCancelled, updated)
	} else {
		s.dispatch(notify.EventBookingStatus, updated)
	}
	return updated, nil
}

// validatePlacement checks the booking's placement against the resolved
// working window and the shard's current occupancy. Callers must hold the
// shard lock for (b.StaffID, b.Date).
func (s *service) validatePlacement(ctx context.Context, tx Tx, step int, b *Booking, excludeID string) error {
	window, err := s.schedule.ResolveWindow(ctx, b.SalonID, b.StaffID, b.Date)
	if err != nil {
		return err
	}
	if !window.Open {
		metrics.IncSlotConflict("window")
		return ErrInvalidWindow
	}

	grid := availability.NewGrid(window, step)
	n := availability.RequiredSlots(b.DurationMinutes+b.ExtraMinutes, step)
	if n == 0 || grid.Index(b.StartMinute) < 0 {
		metrics.IncSlotConflict("window")
		return ErrInvalidWindow
	}

	intervals, err := tx.Intervals(ctx, b.StaffID, b.Date, excludeID)
	if err != nil {
		return err
	}

	occ := availability.BuildOccupancy(grid, intervals)
	if !availability.CanStart(grid, occ, b.StartMinute, n) {
		span := availability.Interval{Start: b.StartMinute, End: b.StartMinute + n*step}
		for _, iv := range intervals {
			if iv.Overlaps(span) {
				metrics.IncSlotConflict("occupied")
				return ErrSlotUnavailable.WithConflict(
					clockwork.FormatClock(iv.Start),
					clockwork.FormatClock(iv.End),
				)
			}
		}
		// Free of conflicts but the run does not fit the window.
		metrics.IncSlotConflict("window")
		return ErrInvalidWindow
	}
	return nil
}

// candidates resolves the staff to try, in allocation order.
func (s *service) candidates(ctx context.Context, salonID, staffID, serviceID string) ([]*staff.Staff, error) {
	if staffID == "" {
		members, _, err := s.staff.List(ctx, staff.Filter{SalonID: salonID, ActiveOnly: true, ServiceID: serviceID})
		return members, err
	}

	st, err := s.staff.GetByID(ctx, staffID)
	if err != nil {
		return nil, err
	}
	if st.SalonID != salonID || !st.Active {
		return nil, staff.ErrNotFound
	}
	qualified, err := s.staff.IsQualified(ctx, staffID, serviceID)
	if err != nil {
		return nil, err
	}
	if !qualified {
		return nil, ErrNoEligibleStaff
	}
	return []*staff.Staff{st}, nil
}

// checkTarget verifies the staff member a booking is being moved onto.
func (s *service) checkTarget(ctx context.Context, b *Booking, targetStaff string) error {
	st, err := s.staff.GetByID(ctx, targetStaff)
	if err != nil {
		return err
	}
	if st.SalonID != b.SalonID || !st.Active {
		return staff.ErrNotFound
	}
	if b.ServiceID == nil {
		return nil
	}
	qualified, err := s.staff.IsQualified(ctx, targetStaff, *b.ServiceID)
	if err != nil {
		return err
	}
	if !qualified {
		return ErrNoEligibleStaff
	}
	return nil
}

// freshMutable re-reads the booking under the shard lock and checks it is
// still there, still mutable and still at the version the caller saw.
func freshMutable(ctx context.Context, tx Tx, id string, expectedVersion int) (*Booking, error) {
	fresh, err := tx.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrBookingGone
		}
		return nil, err
	}
	if !fresh.Status.Mutable() {
		return nil, ErrBookingGone
	}
	if fresh.Version != expectedVersion {
		return nil, ErrConcurrentModification
	}
	return fresh, nil
}

func isPlacementRejection(err error) bool {
	return errors.Is(err, ErrSlotUnavailable) || errors.Is(err, ErrInvalidWindow)
}

func opResult(err error) string {
	switch {
	case errors.Is(err, ErrSlotUnavailable), errors.Is(err, ErrConcurrentModification):
		return "conflict"
	case errors.Is(err, ErrInvalidWindow), errors.Is(err, ErrBookingGone), errors.Is(err, ErrInvalidTransition):
		return "rejected"
	default:
		return "error"
	}
}

func (s *service) dispatch(eventType string, b *Booking) {
	ev := notify.Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		SalonID:    b.SalonID,
		BookingID:  b.ID,
		StaffID:    b.StaffID,
		Date:       clockwork.FormatDate(b.Date),
		OccurredAt: time.Now().UTC(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		s.notifier.Publish(ctx, ev)
	}()
}
