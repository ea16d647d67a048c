package drawing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/polydraw/polydraw/backend-go/internal/db/dbgen"
	"github.com/polydraw/polydraw/backend-go/internal/document"
	"github.com/polydraw/polydraw/backend-go/internal/typeid"
)

var (
	ErrNotFound          = errors.New("drawing not found")
	ErrForbidden         = errors.New("forbidden")
	ErrNotMember         = errors.New("not a drawing member")
	ErrInviteeNotFound   = errors.New("user not found")
	ErrCannotRemoveOwner = errors.New("cannot remove drawing owner")
	ErrInvalidRole       = errors.New("invalid role")
)

const timeLayout = "2006-01-02T15:04:05Z"

// Store is the subset of dbgen.Queries the service needs.
type Store interface {
	CreateDrawing(ctx context.Context, arg dbgen.CreateDrawingParams) (dbgen.Drawing, error)
	GetDrawing(ctx context.Context, id string) (dbgen.Drawing, error)
	ListDrawingsForUser(ctx context.Context, userID string) ([]dbgen.Drawing, error)
	DeleteDrawing(ctx context.Context, id string) error
	TouchDrawing(ctx context.Context, id string) error
	AddDrawingMember(ctx context.Context, arg dbgen.AddDrawingMemberParams) error
	GetDrawingMember(ctx context.Context, arg dbgen.GetDrawingMemberParams) (dbgen.DrawingMember, error)
	ListDrawingMembers(ctx context.Context, drawingID string) ([]dbgen.ListDrawingMembersRow, error)
	RemoveDrawingMember(ctx context.Context, arg dbgen.RemoveDrawingMemberParams) error
	CreateSnapshot(ctx context.Context, arg dbgen.CreateSnapshotParams) (dbgen.Snapshot, error)
	GetLatestSnapshot(ctx context.Context, drawingID string) (dbgen.Snapshot, error)
	GetUserByEmail(ctx context.Context, email string) (dbgen.User, error)
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

type Drawing struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	OwnerID   string `json:"ownerId"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type Member struct {
	UserID      string `json:"userId"`
	Role        string `json:"role"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
}

// Create stores a new drawing owned by ownerID and seeds its first snapshot,
// either empty or with the sample shapes.
func (s *Service) Create(ctx context.Context, name, ownerID string, fromSample bool) (*Drawing, error) {
	drawingID := typeid.NewDrawingID()

	var doc *document.Document
	if fromSample {
		doc = document.NewSampleDocument(drawingID)
		doc.Name = name
	} else {
		doc = document.NewEmptyDocument(drawingID, name)
	}
	now := s.now().UTC().Format(time.RFC3339)
	doc.CreatedAt = now
	doc.UpdatedAt = now

	dbDrawing, err := s.store.CreateDrawing(ctx, dbgen.CreateDrawingParams{
		ID:      drawingID,
		Name:    name,
		OwnerID: ownerID,
		Width:   int32(doc.Width),
		Height:  int32(doc.Height),
	})
	if err != nil {
		return nil, fmt.Errorf("create drawing: %w", err)
	}

	err = s.store.AddDrawingMember(ctx, dbgen.AddDrawingMemberParams{
		DrawingID: drawingID,
		UserID:    ownerID,
		Role:      dbgen.DrawingRoleOwner,
	})
	if err != nil {
		return nil, fmt.Errorf("add owner as member: %w", err)
	}

	if err := s.createSnapshot(ctx, doc, 1); err != nil {
		return nil, fmt.Errorf("create initial snapshot: %w", err)
	}

	return dbDrawingToDrawing(dbDrawing), nil
}

func (s *Service) Get(ctx context.Context, drawingID, userID string) (*Drawing, error) {
	if _, err := s.Role(ctx, drawingID, userID); err != nil {
		return nil, err
	}

	dbDrawing, err := s.getDrawing(ctx, drawingID)
	if err != nil {
		return nil, err
	}
	return dbDrawingToDrawing(dbDrawing), nil
}

func (s *Service) List(ctx context.Context, userID string) ([]Drawing, error) {
	dbDrawings, err := s.store.ListDrawingsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list drawings: %w", err)
	}

	drawings := make([]Drawing, len(dbDrawings))
	for i, d := range dbDrawings {
		drawings[i] = *dbDrawingToDrawing(d)
	}
	return drawings, nil
}

func (s *Service) Delete(ctx context.Context, drawingID, userID string) error {
	if err := s.requireOwner(ctx, drawingID, userID); err != nil {
		return err
	}
	if err := s.store.DeleteDrawing(ctx, drawingID); err != nil {
		return fmt.Errorf("delete drawing: %w", err)
	}
	return nil
}

// InviteByEmail adds the user registered under email as a member with role,
// which must be editor or viewer. Inviting an existing member changes their
// role.
func (s *Service) InviteByEmail(ctx context.Context, drawingID, ownerID, email, role string) error {
	memberRole, err := ParseRole(role)
	if err != nil {
		return err
	}
	if memberRole == dbgen.DrawingRoleOwner {
		return fmt.Errorf("invite as owner: %w", ErrInvalidRole)
	}

	if err := s.requireOwner(ctx, drawingID, ownerID); err != nil {
		return err
	}

	invitee, err := s.store.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrInviteeNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}
	if invitee.ID == ownerID {
		return fmt.Errorf("invite owner: %w", ErrInvalidRole)
	}

	return s.store.AddDrawingMember(ctx, dbgen.AddDrawingMemberParams{
		DrawingID: drawingID,
		UserID:    invitee.ID,
		Role:      memberRole,
	})
}

func (s *Service) ListMembers(ctx context.Context, drawingID, userID string) ([]Member, error) {
	if _, err := s.Role(ctx, drawingID, userID); err != nil {
		return nil, err
	}

	rows, err := s.store.ListDrawingMembers(ctx, drawingID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	members := make([]Member, len(rows))
	for i, m := range rows {
		members[i] = Member{
			UserID:      m.UserID,
			Role:        string(m.Role),
			DisplayName: m.DisplayName,
			Email:       m.Email,
		}
	}
	return members, nil
}

func (s *Service) RemoveMember(ctx context.Context, drawingID, ownerID, targetUserID string) error {
	if err := s.requireOwner(ctx, drawingID, ownerID); err != nil {
		return err
	}
	if targetUserID == ownerID {
		return ErrCannotRemoveOwner
	}

	return s.store.RemoveDrawingMember(ctx, dbgen.RemoveDrawingMemberParams{
		DrawingID: drawingID,
		UserID:    targetUserID,
	})
}

// Role returns userID's role on the drawing, or ErrNotMember.
func (s *Service) Role(ctx context.Context, drawingID, userID string) (dbgen.DrawingRole, error) {
	m, err := s.store.GetDrawingMember(ctx, dbgen.GetDrawingMemberParams{
		DrawingID: drawingID,
		UserID:    userID,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotMember
		}
		return "", fmt.Errorf("check membership: %w", err)
	}
	return m.Role, nil
}

// CanEdit reports whether userID may change the drawing's shapes.
func (s *Service) CanEdit(ctx context.Context, drawingID, userID string) (bool, error) {
	role, err := s.Role(ctx, drawingID, userID)
	if err != nil {
		return false, err
	}
	return role == dbgen.DrawingRoleOwner || role == dbgen.DrawingRoleEditor, nil
}

// LatestDocument returns the newest snapshot of a drawing the user belongs to.
func (s *Service) LatestDocument(ctx context.Context, drawingID, userID string) (*document.Document, error) {
	if _, err := s.Role(ctx, drawingID, userID); err != nil {
		return nil, err
	}
	return s.LoadDocument(ctx, drawingID)
}

// SaveDocument stores doc as the drawing's next snapshot and returns the new
// version. Viewers are refused.
func (s *Service) SaveDocument(ctx context.Context, drawingID, userID string, doc *document.Document) (int, error) {
	ok, err := s.CanEdit(ctx, drawingID, userID)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrForbidden
	}
	return s.StoreDocument(ctx, drawingID, doc)
}

// LoadDocument returns the newest snapshot without checking membership.
func (s *Service) LoadDocument(ctx context.Context, drawingID string) (*document.Document, error) {
	snap, err := s.store.GetLatestSnapshot(ctx, drawingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}

	doc, err := document.Parse(snap.Document)
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", snap.ID, err)
	}
	return doc, nil
}

// StoreDocument validates doc and appends it as a new snapshot without
// checking membership. The document takes the drawing's ID.
func (s *Service) StoreDocument(ctx context.Context, drawingID string, doc *document.Document) (int, error) {
	if _, err := document.Decode(doc.Shapes); err != nil {
		return 0, err
	}

	version := 1
	snap, err := s.store.GetLatestSnapshot(ctx, drawingID)
	switch {
	case err == nil:
		version = int(snap.Version) + 1
	case errors.Is(err, pgx.ErrNoRows):
		if _, err := s.getDrawing(ctx, drawingID); err != nil {
			return 0, err
		}
	default:
		return 0, fmt.Errorf("get snapshot: %w", err)
	}

	doc.ID = drawingID
	doc.UpdatedAt = s.now().UTC().Format(time.RFC3339)
	if doc.Shapes == nil {
		doc.Shapes = []document.ShapeRecord{}
	}

	if err := s.createSnapshot(ctx, doc, version); err != nil {
		return 0, err
	}
	if err := s.store.TouchDrawing(ctx, drawingID); err != nil {
		return 0, fmt.Errorf("touch drawing: %w", err)
	}
	return version, nil
}

func (s *Service) createSnapshot(ctx context.Context, doc *document.Document, version int) error {
	docJSON, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	_, err = s.store.CreateSnapshot(ctx, dbgen.CreateSnapshotParams{
		ID:        typeid.NewSnapshotID(),
		DrawingID: doc.ID,
		Version:   int32(version),
		Document:  docJSON,
	})
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	return nil
}

func (s *Service) getDrawing(ctx context.Context, drawingID string) (dbgen.Drawing, error) {
	d, err := s.store.GetDrawing(ctx, drawingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dbgen.Drawing{}, ErrNotFound
		}
		return dbgen.Drawing{}, fmt.Errorf("get drawing: %w", err)
	}
	return d, nil
}

func (s *Service) requireOwner(ctx context.Context, drawingID, userID string) error {
	d, err := s.getDrawing(ctx, drawingID)
	if err != nil {
		return err
	}
	if d.OwnerID != userID {
		return ErrForbidden
	}
	return nil
}

// ParseRole maps a role name to its database value. An empty name means
// editor.
func ParseRole(name string) (dbgen.DrawingRole, error) {
	switch dbgen.DrawingRole(strings.ToLower(name)) {
	case "", dbgen.DrawingRoleEditor:
		return dbgen.DrawingRoleEditor, nil
	case dbgen.DrawingRoleViewer:
		return dbgen.DrawingRoleViewer, nil
	case dbgen.DrawingRoleOwner:
		return dbgen.DrawingRoleOwner, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRole, name)
}

func dbDrawingToDrawing(d dbgen.Drawing) *Drawing {
	return &Drawing{
		ID:        d.ID,
		Name:      d.Name,
		OwnerID:   d.OwnerID,
		Width:     int(d.Width),
		Height:    int(d.Height),
		CreatedAt: d.CreatedAt.Time.Format(timeLayout),
		UpdatedAt: d.UpdatedAt.Time.Format(timeLayout),
	}
}
