package entity

// All lists every persisted model in migration order.
func All() []any {
	return []any{
		&User{},
		&Category{},
		&Design{},
		&Reaction{},
		&Favorite{},
		&Review{},
		&Booking{},
		&Notification{},
	}
}
