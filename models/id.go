package models

import "github.com/google/uuid"

// NewID 生成记录 ID
func NewID() string {
	return uuid.NewString()
}

// ValidID ID 是否为合法 UUID
func ValidID(id string) bool {
	return uuid.Validate(id) == nil
}

func assignID(id *string) {
	if *id == "" {
		*id = NewID()
	}
}
