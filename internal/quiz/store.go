// Package quiz implements the shared session store: the single mutable
// container of all users, rooms, and the live connection count.
package quiz

import "sync"

// Store is the process-wide session state. Construct it with NewStore and
// share it by pointer; every read and write is serialized through a single
// mutex held for one short critical section per call, so compound handler
// sequences (lookup then mutate) interleave with other connections between
// calls.
type Store struct {
	mu      sync.Mutex
	users   []User
	rooms   []Room
	traffic int
}

// NewStore creates an empty session store with no users, no rooms, and a
// zero traffic count.
func NewStore() *Store {
	return &Store{}
}

// AddUser appends the user unconditionally and returns the stored value.
// Duplicate names are permitted; FindUser resolves to the first match.
func (s *Store) AddUser(u User) User {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append(s.users, u)
	return u
}

// FindUser returns the first registered user with the given name.
func (s *Store) FindUser(name string) (User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Name == name {
			return u, true
		}
	}
	return User{}, false
}

// AddRoom creates an empty room with the given id and returns it. The id is
// not checked against existing rooms; a duplicate id creates a second room
// that lookups will never reach.
func (s *Store) AddRoom(id string) Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	room := Room{ID: id}
	s.rooms = append(s.rooms, room)
	return room
}

// RoomExists reports whether any room with the given id exists.
func (s *Store) RoomExists(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rooms {
		if r.ID == id {
			return true
		}
	}
	return false
}

// AddRoomMember appends the user to the member list of the first room with
// the given id. It reports whether such a room was found.
func (s *Store) AddRoomMember(roomID string, u User) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rooms {
		if s.rooms[i].ID == roomID {
			s.rooms[i].Users = append(s.rooms[i].Users, u)
			return true
		}
	}
	return false
}

// SnapshotRooms returns a deep copy of the room list. Mutating the snapshot
// has no effect on the store.
func (s *Store) SnapshotRooms() []Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	rooms := make([]Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		rooms = append(rooms, r.Clone())
	}
	return rooms
}

// ConnectionOpened increments the live connection count and returns the new
// total.
func (s *Store) ConnectionOpened() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.traffic++
	return s.traffic
}

// ConnectionClosed decrements the live connection count and returns the new
// total.
func (s *Store) ConnectionClosed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.traffic--
	return s.traffic
}

// Traffic returns the number of currently open connections.
func (s *Store) Traffic() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.traffic
}
