package model

// Camper age bounds.  The same bounds are enforced by a CHECK constraint on
// campers.age so that rows written outside the API are held to them too.
const (
    MinCamperAge = 8
    MaxCamperAge = 18
)

// Camper is a person who may sign up for activities.  This struct
// corresponds to a row in the `campers` table.
//
// Fields:
//  ID   – primary key identifier.
//  Name – camper name, never empty.
//  Age  – camper age within [MinCamperAge, MaxCamperAge].
type Camper struct {
    ID   uint64 `db:"id" json:"id"`     // campers.id
    Name string `db:"name" json:"name"` // campers.name
    Age  int    `db:"age" json:"age"`   // campers.age
}

// CamperDetail is a camper together with its signups, each carrying the
// activity it points at.
type CamperDetail struct {
    Camper
    Signups []SignupWithActivity
}
