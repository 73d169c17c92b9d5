// Package quiz defines the domain model for the GoQuiz server: users, rooms,
// questions, and answers, plus the shared session store that owns them.
package quiz

import (
	"encoding/json"
	"fmt"
)

// Role identifies what a registered user is allowed to do. Organizers host
// rooms and add questions; attendees join rooms and submit answers.
type Role string

// The two recognized roles. Any other value is rejected at decode time.
const (
	RoleOrganizer Role = "organizer"
	RoleAttendee  Role = "attendee"
)

// UnmarshalJSON validates the role string so that an invalid role surfaces as
// a decode failure instead of silently producing an unusable user.
func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch Role(s) {
	case RoleOrganizer, RoleAttendee:
		*r = Role(s)
		return nil
	default:
		return fmt.Errorf("unknown role %q", s)
	}
}

// User is a registered identity. Users are never deleted and have no update
// path; the name is the lookup key and is not required to be unique.
type User struct {
	Name string `json:"name"`
	Role Role   `json:"role"`
}

// Question is a single quiz question supplied wholesale by an organizer.
// Answer is the index into Options of the correct choice.
type Question struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   int      `json:"answer"`
}

// Answer is one append-only log entry recording a user's submitted answer.
// A user may answer the same question multiple times; every entry is kept.
type Answer struct {
	User       string `json:"user"`
	QuestionID int    `json:"question_id"`
	Answer     int    `json:"answer"`
}

// Room is a quiz session: its member list, question set, and answer log.
// The id is supplied by the hosting organizer and is not checked for
// uniqueness; lookups resolve to the first room with a matching id.
type Room struct {
	ID        string     `json:"id"`
	Users     []User     `json:"users"`
	Questions []Question `json:"questions"`
	Answers   []Answer   `json:"answers"`
}

// Clone returns a deep copy of the room so callers can inspect or mutate it
// without touching the shared store's copy.
func (r Room) Clone() Room {
	out := Room{ID: r.ID}
	if r.Users != nil {
		out.Users = append([]User(nil), r.Users...)
	}
	if r.Questions != nil {
		out.Questions = append([]Question(nil), r.Questions...)
	}
	if r.Answers != nil {
		out.Answers = append([]Answer(nil), r.Answers...)
	}
	return out
}
