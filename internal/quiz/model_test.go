package quiz

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleUnmarshalValid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Role
	}{
		{name: "organizer", raw: `"organizer"`, want: RoleOrganizer},
		{name: "attendee", raw: `"attendee"`, want: RoleAttendee},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Role
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &r))
			assert.Equal(t, tt.want, r)
		})
	}
}

func TestRoleUnmarshalInvalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "unknown value", raw: `"admin"`},
		{name: "wrong type", raw: `42`},
		{name: "empty string", raw: `""`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Role
			assert.Error(t, json.Unmarshal([]byte(tt.raw), &r))
		})
	}
}

func TestUserJSONRoundTrip(t *testing.T) {
	raw := `{"name":"alice","role":"organizer"}`
	var u User
	require.NoError(t, json.Unmarshal([]byte(raw), &u))
	assert.Equal(t, User{Name: "alice", Role: RoleOrganizer}, u)

	out, err := json.Marshal(u)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(out))
}

func TestRoomCloneIsDeep(t *testing.T) {
	room := Room{
		ID:        "r1",
		Users:     []User{{Name: "alice", Role: RoleOrganizer}},
		Questions: []Question{{ID: "q1", Question: "2+2?", Options: []string{"3", "4"}, Answer: 1}},
		Answers:   []Answer{{User: "bob", QuestionID: 0, Answer: 1}},
	}

	clone := room.Clone()
	clone.Users = append(clone.Users, User{Name: "bob", Role: RoleAttendee})
	clone.Questions = append(clone.Questions, Question{ID: "q2"})
	clone.Answers = append(clone.Answers, Answer{User: "carol"})

	assert.Len(t, room.Users, 1)
	assert.Len(t, room.Questions, 1)
	assert.Len(t, room.Answers, 1)
}

func TestRoomCloneEmpty(t *testing.T) {
	clone := Room{ID: "empty"}.Clone()
	assert.Equal(t, "empty", clone.ID)
	assert.Nil(t, clone.Users)
	assert.Nil(t, clone.Questions)
	assert.Nil(t, clone.Answers)
}
