// Package drawingtest provides an in-memory drawing.Store for tests.
package drawingtest

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/polydraw/polydraw/backend-go/internal/db/dbgen"
)

type Store struct {
	mu        sync.Mutex
	users     []dbgen.User
	drawings  []dbgen.Drawing
	members   []dbgen.DrawingMember
	snapshots []dbgen.Snapshot
}

func NewStore() *Store {
	return &Store{}
}

func now() pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: time.Now().UTC(), Valid: true}
}

// AddUser registers a user that invitations can find by email.
func (s *Store) AddUser(id, email, displayName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append(s.users, dbgen.User{ID: id, Email: email, DisplayName: displayName, CreatedAt: now(), UpdatedAt: now()})
}

// Snapshots returns every snapshot stored for drawingID, oldest first.
func (s *Store) Snapshots(drawingID string) []dbgen.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []dbgen.Snapshot
	for _, snap := range s.snapshots {
		if snap.DrawingID == drawingID {
			out = append(out, snap)
		}
	}
	return out
}

func (s *Store) CreateDrawing(_ context.Context, arg dbgen.CreateDrawingParams) (dbgen.Drawing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := dbgen.Drawing{
		ID:        arg.ID,
		Name:      arg.Name,
		OwnerID:   arg.OwnerID,
		Width:     arg.Width,
		Height:    arg.Height,
		CreatedAt: now(),
		UpdatedAt: now(),
	}
	s.drawings = append(s.drawings, d)
	return d, nil
}

func (s *Store) GetDrawing(_ context.Context, id string) (dbgen.Drawing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.drawings, func(d dbgen.Drawing) bool { return d.ID == id })
	if i == -1 {
		return dbgen.Drawing{}, pgx.ErrNoRows
	}
	return s.drawings[i], nil
}

func (s *Store) ListDrawingsForUser(_ context.Context, userID string) ([]dbgen.Drawing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []dbgen.Drawing{}
	for _, d := range s.drawings {
		if s.memberIndex(d.ID, userID) != -1 {
			out = append(out, d)
		}
	}
	return out, nil
}

func (s *Store) DeleteDrawing(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drawings = slices.DeleteFunc(s.drawings, func(d dbgen.Drawing) bool { return d.ID == id })
	s.members = slices.DeleteFunc(s.members, func(m dbgen.DrawingMember) bool { return m.DrawingID == id })
	s.snapshots = slices.DeleteFunc(s.snapshots, func(snap dbgen.Snapshot) bool { return snap.DrawingID == id })
	return nil
}

func (s *Store) TouchDrawing(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.drawings {
		if s.drawings[i].ID == id {
			s.drawings[i].UpdatedAt = now()
		}
	}
	return nil
}

func (s *Store) AddDrawingMember(_ context.Context, arg dbgen.AddDrawingMemberParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.memberIndex(arg.DrawingID, arg.UserID); i != -1 {
		s.members[i].Role = arg.Role
		return nil
	}
	s.members = append(s.members, dbgen.DrawingMember{
		DrawingID: arg.DrawingID,
		UserID:    arg.UserID,
		Role:      arg.Role,
		CreatedAt: now(),
	})
	return nil
}

func (s *Store) GetDrawingMember(_ context.Context, arg dbgen.GetDrawingMemberParams) (dbgen.DrawingMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.memberIndex(arg.DrawingID, arg.UserID)
	if i == -1 {
		return dbgen.DrawingMember{}, pgx.ErrNoRows
	}
	return s.members[i], nil
}

func (s *Store) ListDrawingMembers(_ context.Context, drawingID string) ([]dbgen.ListDrawingMembersRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows := []dbgen.ListDrawingMembersRow{}
	for _, m := range s.members {
		if m.DrawingID != drawingID {
			continue
		}
		row := dbgen.ListDrawingMembersRow{UserID: m.UserID, Role: m.Role}
		if i := slices.IndexFunc(s.users, func(u dbgen.User) bool { return u.ID == m.UserID }); i != -1 {
			row.DisplayName = s.users[i].DisplayName
			row.Email = s.users[i].Email
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *Store) RemoveDrawingMember(_ context.Context, arg dbgen.RemoveDrawingMemberParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.memberIndex(arg.DrawingID, arg.UserID); i != -1 {
		s.members = slices.Delete(s.members, i, i+1)
	}
	return nil
}

func (s *Store) CreateSnapshot(_ context.Context, arg dbgen.CreateSnapshotParams) (dbgen.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := dbgen.Snapshot{
		ID:        arg.ID,
		DrawingID: arg.DrawingID,
		Version:   arg.Version,
		Document:  slices.Clone(arg.Document),
		CreatedAt: now(),
	}
	s.snapshots = append(s.snapshots, snap)
	return snap, nil
}

func (s *Store) GetLatestSnapshot(_ context.Context, drawingID string) (dbgen.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest *dbgen.Snapshot
	for i := range s.snapshots {
		snap := &s.snapshots[i]
		if snap.DrawingID == drawingID && (latest == nil || snap.Version > latest.Version) {
			latest = snap
		}
	}
	if latest == nil {
		return dbgen.Snapshot{}, pgx.ErrNoRows
	}
	return *latest, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (dbgen.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.users, func(u dbgen.User) bool { return u.Email == email })
	if i == -1 {
		return dbgen.User{}, pgx.ErrNoRows
	}
	return s.users[i], nil
}

func (s *Store) memberIndex(drawingID, userID string) int {
	return slices.IndexFunc(s.members, func(m dbgen.DrawingMember) bool {
		return m.DrawingID == drawingID && m.UserID == userID
	})
}
