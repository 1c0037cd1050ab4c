package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/haxsilu/science-zone/internal/layout"
	"github.com/haxsilu/science-zone/internal/model"
	"github.com/haxsilu/science-zone/internal/repository"
)

// fakeStore is an in-memory SessionStore + BookingStore.  It mirrors the
// MySQL repository's contract, including the unique-key sentinels, so the
// engine can be exercised without a database.
type fakeStore struct {
	mu        sync.Mutex
	sessions  map[uint64]*model.ExamSession
	bookings  map[uint64]model.Booking
	nextID    uint64
	readCalls int // ListBySession + FindByCandidate invocations
}

func newFakeStore(sessions ...*model.ExamSession) *fakeStore {
	s := &fakeStore{
		sessions: make(map[uint64]*model.ExamSession),
		bookings: make(map[uint64]model.Booking),
	}
	for _, sess := range sessions {
		s.sessions[sess.ID] = sess
	}
	return s
}

func (s *fakeStore) GetByID(_ context.Context, id uint64) (*model.ExamSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		return sess, nil
	}
	return nil, repository.ErrSessionNotFound
}

func (s *fakeStore) ListBySession(_ context.Context, sessionID uint64) ([]model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readCalls++
	out := make([]model.Booking, 0)
	for _, b := range s.bookings {
		if b.SessionID == sessionID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *fakeStore) FindByCandidate(_ context.Context, candidateID uint64) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readCalls++
	for _, b := range s.bookings {
		if b.CandidateID == candidateID {
			found := b
			return &found, nil
		}
	}
	return nil, repository.ErrBookingNotFound
}

func (s *fakeStore) Insert(_ context.Context, b *model.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.bookings {
		if existing.CandidateID == b.CandidateID {
			return repository.ErrDuplicateCandidate
		}
		if existing.SessionID == b.SessionID && existing.Row == b.Row && existing.Pos == b.Pos {
			return repository.ErrDuplicateSeat
		}
	}
	s.nextID++
	b.ID = s.nextID
	b.CreatedAt = time.Now().UTC()
	s.bookings[b.ID] = *b
	return nil
}

func (s *fakeStore) Delete(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bookings[id]; !ok {
		return repository.ErrBookingNotFound
	}
	delete(s.bookings, id)
	return nil
}

func (s *fakeStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bookings)
}

func (s *fakeStore) reads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readCalls
}

// sixRowLayout matches the main exam hall block: six rows of four seats.
func sixRowLayout(t *testing.T) *layout.SeatLayout {
	t.Helper()
	rows := make([]layout.RowSpec, 0, 6)
	for i := 1; i <= 6; i++ {
		rows = append(rows, layout.RowSpec{RowIndex: i, SeatCount: 4, Section: "main"})
	}
	l, err := layout.New(rows, nil)
	if err != nil {
		t.Fatalf("layout.New: %v", err)
	}
	return l
}

func session(id uint64, label string) *model.ExamSession {
	return &model.ExamSession{ID: id, Label: label, StartTime: time.Now().UTC(), EndTime: time.Now().UTC().Add(3 * time.Hour)}
}

func claim(sessionID uint64, row, pos int, candidateID uint64, grade string) ClaimRequest {
	return ClaimRequest{
		SessionID:      sessionID,
		Row:            row,
		Pos:            pos,
		CandidateID:    candidateID,
		CandidateName:  "Student",
		CandidateGrade: grade,
	}
}

func TestClaimSeatScenario(t *testing.T) {
	store := newFakeStore(session(1, "Session 1"))
	e := NewEngine(sixRowLayout(t), store, store, 0)
	ctx := context.Background()

	// First claim in an empty session succeeds.
	b, err := e.ClaimSeat(ctx, claim(1, 1, 1, 10, "Grade 7"))
	if err != nil {
		t.Fatalf("claim (1,1): %v", err)
	}
	if b.ID == 0 || b.Row != 1 || b.Pos != 1 {
		t.Fatalf("claim (1,1) returned %+v", b)
	}

	// Same grade next to (1,1) is rejected with the conflicting seat.
	_, err = e.ClaimSeat(ctx, claim(1, 1, 2, 11, "Grade 7"))
	var adj *AdjacencyError
	if !errors.As(err, &adj) {
		t.Fatalf("claim (1,2) same grade: got %v, want AdjacencyError", err)
	}
	if adj.Row != 1 || adj.Pos != 1 || adj.Grade != "Grade 7" {
		t.Errorf("AdjacencyError = %+v, want conflict at (1,1) Grade 7", adj)
	}

	// A different grade on the same seat succeeds.
	if _, err := e.ClaimSeat(ctx, claim(1, 1, 2, 11, "Grade 8")); err != nil {
		t.Fatalf("claim (1,2) other grade: %v", err)
	}

	// (2,1) is vertically adjacent to (1,1), so the same grade is rejected
	// there too.
	if _, err := e.ClaimSeat(ctx, claim(1, 2, 1, 12, "Grade 7")); !errors.As(err, &adj) {
		t.Fatalf("claim (2,1) same grade as (1,1): got %v, want AdjacencyError", err)
	}
	if _, err := e.ClaimSeat(ctx, claim(1, 2, 1, 12, "Grade 8")); err != nil {
		t.Fatalf("claim (2,1) other grade: %v", err)
	}

	// Claiming an occupied seat fails regardless of grade.
	if _, err := e.ClaimSeat(ctx, claim(1, 2, 1, 13, "Grade 7")); !errors.Is(err, ErrSeatTaken) {
		t.Fatalf("claim occupied (2,1): got %v, want ErrSeatTaken", err)
	}
}

func TestClaimSeatSessionNotFound(t *testing.T) {
	store := newFakeStore(session(1, "Session 1"))
	e := NewEngine(sixRowLayout(t), store, store, 0)
	if _, err := e.ClaimSeat(context.Background(), claim(42, 1, 1, 10, "Grade 7")); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("got %v, want ErrSessionNotFound", err)
	}
}

func TestClaimSeatInvalidSeatSkipsStorage(t *testing.T) {
	store := newFakeStore(session(1, "Session 1"))
	e := NewEngine(sixRowLayout(t), store, store, 0)
	ctx := context.Background()

	before := store.reads()
	if _, err := e.ClaimSeat(ctx, claim(1, 99, 1, 10, "Grade 7")); !errors.Is(err, ErrInvalidSeat) {
		t.Fatalf("row 99: got %v, want ErrInvalidSeat", err)
	}
	if _, err := e.ClaimSeat(ctx, claim(1, 1, 5, 10, "Grade 7")); !errors.Is(err, ErrInvalidSeat) {
		t.Fatalf("pos 5: got %v, want ErrInvalidSeat", err)
	}
	if got := store.reads(); got != before {
		t.Errorf("booking store read %d times for invalid seats, want 0", got-before)
	}
}

func TestClaimSeatOnePerCandidateAcrossSessions(t *testing.T) {
	store := newFakeStore(session(1, "Session 1"), session(2, "Session 2"))
	e := NewEngine(sixRowLayout(t), store, store, 0)
	ctx := context.Background()

	if _, err := e.ClaimSeat(ctx, claim(1, 1, 1, 10, "Grade 7")); err != nil {
		t.Fatalf("first claim: %v", err)
	}
	_, err := e.ClaimSeat(ctx, claim(2, 3, 3, 10, "Grade 7"))
	var dup *DuplicateBookingError
	if !errors.As(err, &dup) {
		t.Fatalf("second claim: got %v, want DuplicateBookingError", err)
	}
	if dup.SessionLabel != "Session 1" {
		t.Errorf("DuplicateBookingError.SessionLabel = %q, want %q", dup.SessionLabel, "Session 1")
	}
}

func TestReleaseSeat(t *testing.T) {
	store := newFakeStore(session(1, "Session 1"))
	e := NewEngine(sixRowLayout(t), store, store, 0)
	ctx := context.Background()

	b, err := e.ClaimSeat(ctx, claim(1, 1, 1, 10, "Grade 7"))
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if err := e.ReleaseSeat(ctx, b.ID); err != nil {
		t.Fatalf("first release: %v", err)
	}
	if err := e.ReleaseSeat(ctx, b.ID); !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("second release: got %v, want ErrBookingNotFound", err)
	}
	// The freed seat is immediately claimable by someone else.
	if _, err := e.ClaimSeat(ctx, claim(1, 1, 1, 11, "Grade 7")); err != nil {
		t.Fatalf("re-claim after release: %v", err)
	}
}

func TestOccupancy(t *testing.T) {
	store := newFakeStore(session(1, "Session 1"))
	e := NewEngine(sixRowLayout(t), store, store, 0)
	ctx := context.Background()

	if _, err := e.Occupancy(ctx, 42); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("unknown session: got %v, want ErrSessionNotFound", err)
	}
	if _, err := e.ClaimSeat(ctx, claim(1, 1, 1, 10, "Grade 7")); err != nil {
		t.Fatalf("claim: %v", err)
	}
	if _, err := e.ClaimSeat(ctx, claim(1, 4, 4, 11, "Grade 8")); err != nil {
		t.Fatalf("claim: %v", err)
	}
	got, err := e.Occupancy(ctx, 1)
	if err != nil {
		t.Fatalf("Occupancy: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Occupancy returned %d bookings, want 2", len(got))
	}
}

func TestConcurrentConflictingClaims(t *testing.T) {
	// Seats (1,1) and (1,2) are adjacent, so any two of these claims
	// conflict: either on the same seat or via the adjacency rule.  Exactly
	// one must win no matter how the goroutines interleave.
	store := newFakeStore(session(1, "Session 1"))
	e := NewEngine(sixRowLayout(t), store, store, 0)
	ctx := context.Background()

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			pos := 1 + i%2
			_, errs[i] = e.ClaimSeat(ctx, claim(1, 1, pos, uint64(100+i), "Grade 7"))
		}(i)
	}
	wg.Wait()

	successes := 0
	for i, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrSeatTaken):
		default:
			var adj *AdjacencyError
			if !errors.As(err, &adj) {
				t.Errorf("claim %d: unexpected error %v", i, err)
			}
		}
	}
	if successes != 1 {
		t.Errorf("%d concurrent conflicting claims succeeded, want exactly 1", successes)
	}
	if store.count() != 1 {
		t.Errorf("store holds %d bookings, want 1", store.count())
	}
}

func TestIndependentSessionsDoNotContend(t *testing.T) {
	store := newFakeStore(session(1, "Session 1"), session(2, "Session 2"))
	e := NewEngine(sixRowLayout(t), store, store, 0)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = e.ClaimSeat(ctx, claim(uint64(i+1), 1, 1, uint64(10+i), "Grade 7"))
		}(i)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			t.Errorf("claim in session %d: %v", i+1, err)
		}
	}
}

func TestClaimSeatBusyWhenLockHeld(t *testing.T) {
	store := newFakeStore(session(1, "Session 1"))
	e := NewEngine(sixRowLayout(t), store, store, 20*time.Millisecond)
	ctx := context.Background()

	// Hold the session lock so the claim cannot acquire it in time.
	if err := e.locks.acquire(ctx, 1, time.Second); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer e.locks.release(1)

	if _, err := e.ClaimSeat(ctx, claim(1, 1, 1, 10, "Grade 7")); !errors.Is(err, ErrBusy) {
		t.Fatalf("got %v, want ErrBusy", err)
	}
	if store.count() != 0 {
		t.Errorf("store holds %d bookings after ErrBusy, want 0", store.count())
	}
}

// constraintTripStore simulates a store whose occupancy reads miss a row
// that the unique key still knows about, the situation the storage-level
// constraint exists to catch.
type constraintTripStore struct {
	*fakeStore
}

func (s *constraintTripStore) ListBySession(context.Context, uint64) ([]model.Booking, error) {
	return nil, nil
}

func (s *constraintTripStore) Insert(context.Context, *model.Booking) error {
	return repository.ErrDuplicateSeat
}

func TestStorageConstraintTripMapsToSeatTaken(t *testing.T) {
	store := newFakeStore(session(1, "Session 1"))
	e := NewEngine(sixRowLayout(t), store, &constraintTripStore{fakeStore: store}, 0)
	if _, err := e.ClaimSeat(context.Background(), claim(1, 1, 1, 10, "Grade 7")); !errors.Is(err, ErrSeatTaken) {
		t.Fatalf("got %v, want ErrSeatTaken", err)
	}
}

func TestAdjacencyInvariantHolds(t *testing.T) {
	// Fill the grid checkerboard-style and verify no two neighbouring
	// bookings ever share a grade.
	store := newFakeStore(session(1, "Session 1"))
	l := sixRowLayout(t)
	e := NewEngine(l, store, store, 0)
	ctx := context.Background()

	var id uint64 = 100
	for _, s := range l.AllSeats() {
		grade := "Grade 7"
		if (s.Row+s.Pos)%2 == 0 {
			grade = "Grade 8"
		}
		id++
		if _, err := e.ClaimSeat(ctx, claim(1, s.Row, s.Pos, id, grade)); err != nil {
			t.Fatalf("claim (%d,%d) as %s: %v", s.Row, s.Pos, grade, err)
		}
	}

	occ, err := e.Occupancy(ctx, 1)
	if err != nil {
		t.Fatalf("Occupancy: %v", err)
	}
	if len(occ) != l.TotalSeats() {
		t.Fatalf("filled %d seats, want %d", len(occ), l.TotalSeats())
	}
	byGrade := make(map[layout.Seat]string, len(occ))
	for _, b := range occ {
		byGrade[layout.Seat{Row: b.Row, Pos: b.Pos}] = b.CandidateGrade
	}
	for seat, grade := range byGrade {
		for _, n := range l.NeighborsOf(seat.Row, seat.Pos) {
			if g, ok := byGrade[n]; ok && g == grade {
				t.Errorf("seats (%d,%d) and (%d,%d) are adjacent and both %s", seat.Row, seat.Pos, n.Row, n.Pos, grade)
			}
		}
	}
}
