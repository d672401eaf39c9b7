package models

import "time"

// SubjectType determines which daily plan fields apply to a subject.
type SubjectType string

const (
	SubjectTypeStandard SubjectType = "standard"
	SubjectTypeArt      SubjectType = "art"
	SubjectTypePE       SubjectType = "pe"
)

// Valid reports whether the type is one of the known enum values.
func (t SubjectType) Valid() bool {
	switch t {
	case SubjectTypeStandard, SubjectTypeArt, SubjectTypePE:
		return true
	}
	return false
}

// Subject models a teachable subject within the school curriculum.
type Subject struct {
	ID        string      `db:"id" json:"id"`
	Name      string      `db:"name" json:"name"`
	Type      SubjectType `db:"type" json:"type"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt time.Time   `db:"updated_at" json:"updated_at"`
}
