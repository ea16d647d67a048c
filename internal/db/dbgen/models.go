package dbgen

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type DrawingRole string

const (
	DrawingRoleOwner  DrawingRole = "owner"
	DrawingRoleEditor DrawingRole = "editor"
	DrawingRoleViewer DrawingRole = "viewer"
)

type User struct {
	ID          string
	Email       string
	Password    string
	DisplayName string
	CreatedAt   pgtype.Timestamptz
	UpdatedAt   pgtype.Timestamptz
}

type Drawing struct {
	ID        string
	Name      string
	OwnerID   string
	Width     int32
	Height    int32
	CreatedAt pgtype.Timestamptz
	UpdatedAt pgtype.Timestamptz
}

type DrawingMember struct {
	DrawingID string
	UserID    string
	Role      DrawingRole
	CreatedAt pgtype.Timestamptz
}

type Snapshot struct {
	ID        string
	DrawingID string
	Version   int32
	Document  []byte
	CreatedAt pgtype.Timestamptz
}
