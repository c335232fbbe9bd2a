package model

// Activity is a campable pursuit with a difficulty rating.  Activities are
// seeded rather than created through the API; deleting one removes every
// signup that references it.
//
// Fields:
//  ID         – primary key identifier.
//  Name       – display name of the activity.
//  Difficulty – integer difficulty rating.
type Activity struct {
    ID         uint64 `db:"id" json:"id"`                 // activities.id
    Name       string `db:"name" json:"name"`             // activities.name
    Difficulty int    `db:"difficulty" json:"difficulty"` // activities.difficulty
}
