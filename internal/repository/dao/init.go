package dao

import (
	"context"

	"github.com/campusconnect/campus-api/internal/db"
)

func InitTables(ctx context.Context, h *db.Handle) error {
	conn, err := h.Conn(ctx)
	if err != nil {
		return err
	}

	return conn.AutoMigrate(
		&User{},
		&Event{},
		&Registration{},
		&ChatMessage{},
		&Photo{},
	)
}
