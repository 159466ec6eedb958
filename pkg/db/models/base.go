package models

import "github.com/google/uuid"

func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// All lists every persisted model, in dependency order, for test schemas.
func All() []any {
	return []any{
		&Admin{},
		&Client{},
		&Dress{},
		&DressImage{},
		&Clothing{},
		&ClothingImage{},
		&Booking{},
		&Sale{},
		&NotificationLog{},
		&Settings{},
	}
}
