// Package queue defines message payloads exchanged over the message broker.
package queue

import (
    "time"

    "github.com/google/uuid"

    "github.com/iliyamo/camp-signup/internal/model"
)

// Event types published after a successful write.
const (
    TypeCamperCreated   = "camper.created"
    TypeCamperUpdated   = "camper.updated"
    TypeSignupCreated   = "signup.created"
    TypeActivityDeleted = "activity.deleted"
)

// Event is published after a write commits.  It carries enough for
// downstream consumers to log or notify without querying the primary
// database; fields that do not apply to a type are omitted.
type Event struct {
    ID             string    `json:"id"`
    Type           string    `json:"type"`
    OccurredAt     time.Time `json:"occurred_at"`
    CamperID       uint64    `json:"camper_id,omitempty"`
    CamperName     string    `json:"camper_name,omitempty"`
    CamperAge      int       `json:"camper_age,omitempty"`
    ActivityID     uint64    `json:"activity_id,omitempty"`
    ActivityName   string    `json:"activity_name,omitempty"`
    SignupID       uint64    `json:"signup_id,omitempty"`
    Time           *int      `json:"time,omitempty"`
    RemovedSignups int64     `json:"removed_signups,omitempty"`
}

func newEvent(typ string) Event {
    return Event{ID: uuid.NewString(), Type: typ, OccurredAt: time.Now().UTC()}
}

// CamperCreated describes a newly stored camper.
func CamperCreated(c model.Camper) Event {
    ev := newEvent(TypeCamperCreated)
    ev.CamperID, ev.CamperName, ev.CamperAge = c.ID, c.Name, c.Age
    return ev
}

// CamperUpdated describes a camper after a successful update.
func CamperUpdated(c model.Camper) Event {
    ev := newEvent(TypeCamperUpdated)
    ev.CamperID, ev.CamperName, ev.CamperAge = c.ID, c.Name, c.Age
    return ev
}

// SignupCreated describes a new signup and both of its parents.
func SignupCreated(s model.SignupDetail) Event {
    ev := newEvent(TypeSignupCreated)
    hour := s.Time
    ev.SignupID, ev.Time = s.ID, &hour
    ev.CamperID, ev.CamperName, ev.CamperAge = s.Camper.ID, s.Camper.Name, s.Camper.Age
    ev.ActivityID, ev.ActivityName = s.Activity.ID, s.Activity.Name
    return ev
}

// ActivityDeleted describes a removed activity and how many signups went
// with it.
func ActivityDeleted(a model.Activity, removedSignups int64) Event {
    ev := newEvent(TypeActivityDeleted)
    ev.ActivityID, ev.ActivityName, ev.RemovedSignups = a.ID, a.Name, removedSignups
    return ev
}
