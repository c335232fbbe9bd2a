package model

// Signup hour bounds (hour of day).
const (
    MinSignupTime = 0
    MaxSignupTime = 23
)

// Signup links one camper to one activity at a specific hour.  Both
// references must resolve when the row is created.
//
// Fields:
//  ID         – primary key identifier.
//  CamperID   – campers.id of the camper.
//  ActivityID – activities.id of the activity.
//  Time       – hour of day within [MinSignupTime, MaxSignupTime].
type Signup struct {
    ID         uint64 `db:"id"`          // signups.id
    CamperID   uint64 `db:"camper_id"`   // signups.camper_id
    ActivityID uint64 `db:"activity_id"` // signups.activity_id
    Time       int    `db:"time"`        // signups.time
}

// SignupWithActivity is a signup joined with its activity row.
type SignupWithActivity struct {
    Signup
    Activity Activity
}

// SignupDetail is a signup joined with both of its parents.
type SignupDetail struct {
    Signup
    Activity Activity
    Camper   Camper
}
