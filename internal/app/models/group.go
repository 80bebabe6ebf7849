package models

// Group names form a fixed catalog. Each group reserves a disjoint numeric
// range for account identifiers; superuser holds id 1 outside any group.
const (
	GroupAdmin      = "admin"
	GroupHOD        = "hod"
	GroupInstructor = "instructor"
	GroupStudent    = "student"
)

// SuperuserID is the single reserved identifier outside all group ranges.
const SuperuserID int64 = 1

// Group is a named role with a reserved account id range [RangeStart, RangeEnd].
type Group struct {
	ID         int64  `json:"id" db:"id"`
	Name       string `json:"name" db:"name" example:"student"`
	RangeStart int64  `json:"rangeStart" db:"range_start"`
	RangeEnd   int64  `json:"rangeEnd" db:"range_end"`
}

// GroupRange is the numeric identifier range reserved for a group.
type GroupRange struct {
	Start int64
	End   int64
}

// GroupCatalog is the immutable range table injected into the allocator at
// startup. Ranges are disjoint and ordered.
type GroupCatalog map[string]GroupRange

// DefaultGroupCatalog returns the fixed group/range catalog.
func DefaultGroupCatalog() GroupCatalog {
	return GroupCatalog{
		GroupAdmin:      {Start: 2, End: 99},
		GroupHOD:        {Start: 100, End: 999},
		GroupInstructor: {Start: 1000, End: 9999},
		GroupStudent:    {Start: 10000, End: 99999},
	}
}

// Valid reports whether name is one of the four catalog groups.
func (c GroupCatalog) Valid(name string) bool {
	_, ok := c[name]
	return ok
}

// Permission is a single grantable action on an entity type. Codenames carry
// an action prefix: add_, view_, change_ or delete_.
type Permission struct {
	ID         int64  `json:"id" db:"id"`
	Codename   string `json:"codename" db:"codename" example:"add_session"`
	EntityName string `json:"entityName" db:"entity_name" example:"session"`
}

// AccessControl is the derived per-(group, entity) CRUD bitmap. It is owned by
// the access control projector and never authored directly.
type AccessControl struct {
	ID         int64  `json:"id" db:"id"`
	GroupID    int64  `json:"groupId" db:"group_id"`
	EntityName string `json:"entityName" db:"entity_name"`
	CanCreate  bool   `json:"create" db:"can_create"`
	CanRead    bool   `json:"read" db:"can_read"`
	CanUpdate  bool   `json:"update" db:"can_update"`
	CanRemove  bool   `json:"remove" db:"can_remove"`
}

// Empty reports whether all four flags are false.
func (ac *AccessControl) Empty() bool {
	return !ac.CanCreate && !ac.CanRead && !ac.CanUpdate && !ac.CanRemove
}
