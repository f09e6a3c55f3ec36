package domain

import "time"

// GroupType distinguishes lab, project and collaboration groups.
type GroupType string

const (
	GroupTypeLab           GroupType = "LAB_GROUP"
	GroupTypeProject       GroupType = "PROJECT_GROUP"
	GroupTypeCollaboration GroupType = "COLLABORATION_GROUP"
)

// Group is a set of users that group-bound requests are addressed to.
type Group struct {
	ID        string
	Name      string
	Type      GroupType
	CreatedAt time.Time
	UpdatedAt time.Time
}
