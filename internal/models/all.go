package models

// All lists every persisted model in migration order.
func All() []any {
	return []any{
		&Role{},
		&User{},
		&AccessRequest{},
		&Message{},
		&Task{},
		&Attendance{},
		&WorkReport{},
	}
}
