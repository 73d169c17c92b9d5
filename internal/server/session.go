// Package server runs one session per WebSocket connection, reading request
// frames, dispatching them against the shared store, and writing exactly one
// reply frame per request.
package server

import (
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Tyrowin/goquiz/internal/protocol"
	"github.com/Tyrowin/goquiz/internal/quiz"
)

// session is the per-connection dispatcher. It holds no cross-request state;
// everything durable lives in the store.
type session struct {
	conn  *websocket.Conn
	store *quiz.Store
	log   *zap.Logger
}

func newSession(conn *websocket.Conn, store *quiz.Store, log *zap.Logger, maxMessageSize int64) *session {
	if maxMessageSize > 0 {
		conn.SetReadLimit(maxMessageSize)
	}

	sessionLog := log.With(
		zap.String("session_id", uuid.NewString()),
		zap.String("remote_addr", conn.RemoteAddr().String()),
	)

	// Control frames never produce a protocol reply; pings still get the
	// mandatory transport-level pong.
	conn.SetPingHandler(func(appData string) error {
		sessionLog.Warn("ignoring ping frame")
		err := conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(10*time.Second))
		if err == websocket.ErrCloseSent {
			return nil
		}
		return err
	})
	conn.SetPongHandler(func(string) error {
		sessionLog.Warn("ignoring pong frame")
		return nil
	})

	return &session{conn: conn, store: store, log: sessionLog}
}

// run processes frames until the stream ends or errors. Decode and domain
// failures are answered and the loop continues; only transport failure is
// fatal.
func (s *session) run() {
	for {
		msgType, raw, err := s.conn.ReadMessage()
		if err != nil {
			s.logStreamEnd(err)
			return
		}

		if msgType != websocket.TextMessage {
			s.log.Warn("ignoring non-text frame", zap.Int("message_type", msgType))
			continue
		}

		reply := s.dispatch(raw)
		if err := s.conn.WriteMessage(websocket.TextMessage, reply); err != nil {
			s.logStreamEnd(err)
			return
		}
	}
}

// dispatch decodes one inbound frame, routes it to its handler, and returns
// the bytes of the single reply frame.
func (s *session) dispatch(raw []byte) []byte {
	req, err := protocol.Decode(raw)
	if err != nil {
		var mismatch *protocol.ShapeMismatchError
		if errors.As(err, &mismatch) {
			s.log.Warn("payload shape mismatch", zap.String("request_type", string(mismatch.Type)))
		} else {
			s.log.Warn("failed to decode request", zap.Error(err))
		}
		return s.errorReply(err.Error())
	}

	switch req.Type {
	case protocol.RequestRegisterUser:
		return s.registerUser(*req.RegisterUser)
	case protocol.RequestHostRoom:
		return s.hostRoom(*req.HostRoom)
	case protocol.RequestJoinRoom:
		return s.joinRoom(*req.JoinRoom)
	case protocol.RequestAddQuestions:
		return s.addQuestions(*req.AddQuestions)
	case protocol.RequestAnswerQuestion:
		return s.answerQuestion(*req.AnswerQuestion)
	default:
		// Decode rejects unknown tags, so this is unreachable.
		return s.errorReply("unknown request_type")
	}
}

// registerUser appends the user to the store unconditionally and echoes the
// stored user back. Duplicate names are permitted.
func (s *session) registerUser(user quiz.User) []byte {
	stored := s.store.AddUser(user)
	s.log.Info("user registered",
		zap.String("name", stored.Name),
		zap.String("role", string(stored.Role)),
	)
	return s.reply(stored)
}

// hostRoom creates a new empty room after verifying the requesting user is a
// registered organizer.
func (s *session) hostRoom(req protocol.RoomRequest) []byte {
	user, ok := s.store.FindUser(req.User)
	if !ok {
		return s.domainError("user not found")
	}
	if user.Role != quiz.RoleOrganizer {
		return s.domainError("user is not the organizer")
	}

	room := s.store.AddRoom(req.RoomID)
	s.log.Info("room hosted", zap.String("room_id", room.ID), zap.String("user", req.User))
	return s.reply(protocol.RoomResponse{RoomID: room.ID})
}

// joinRoom appends a registered user to an existing room's member list. The
// store lock is dropped and retaken between the room lookup, the user
// lookup, and the append.
func (s *session) joinRoom(req protocol.RoomRequest) []byte {
	if !s.store.RoomExists(req.RoomID) {
		return s.domainError("room not found")
	}
	user, ok := s.store.FindUser(req.User)
	if !ok {
		return s.domainError("user not found")
	}

	s.store.AddRoomMember(req.RoomID, user)
	s.log.Info("user joined room", zap.String("room_id", req.RoomID), zap.String("user", req.User))
	return s.reply(protocol.RoomResponse{RoomID: req.RoomID})
}

// addQuestions appends questions to a room, provided some member of the room
// holds the organizer role. The requester is not required to be that
// organizer, or a member at all.
//
// The append lands on a snapshot of the room list, so the shared store's
// copy of the room is left untouched even on success.
func (s *session) addQuestions(req protocol.AddQuestionsRequest) []byte {
	rooms := s.store.SnapshotRooms()
	room := findRoom(rooms, req.RoomID)
	if room == nil {
		return s.domainError("room not found")
	}

	hasOrganizer := false
	for _, member := range room.Users {
		if member.Role == quiz.RoleOrganizer {
			hasOrganizer = true
			break
		}
	}
	if !hasOrganizer {
		return s.domainError("user is not the organizer")
	}

	room.Questions = append(room.Questions, req.Questions...)
	s.log.Info("questions added",
		zap.String("room_id", room.ID),
		zap.Int("count", len(req.Questions)),
	)
	return s.reply(protocol.AddQuestionsResponse{RoomID: room.ID, Questions: req.Questions})
}

// answerQuestion records an answer from a room member. Like addQuestions it
// works on a snapshot, so the answer log entry never reaches the shared
// store.
func (s *session) answerQuestion(req protocol.AnswerQuestionRequest) []byte {
	rooms := s.store.SnapshotRooms()
	room := findRoom(rooms, req.RoomID)
	if room == nil {
		return s.domainError("room not found")
	}

	member := false
	for _, u := range room.Users {
		if u.Name == req.User {
			member = true
			break
		}
	}
	if !member {
		return s.domainError("user not found")
	}

	room.Answers = append(room.Answers, quiz.Answer{
		User:       req.User,
		QuestionID: req.QuestionID,
		Answer:     req.Answer,
	})
	s.log.Info("answer recorded",
		zap.String("room_id", room.ID),
		zap.String("user", req.User),
		zap.Int("question_id", req.QuestionID),
	)
	return s.reply(protocol.AnswerQuestionResponse{
		RoomID:     room.ID,
		QuestionID: req.QuestionID,
		Answer:     req.Answer,
	})
}

func findRoom(rooms []quiz.Room, id string) *quiz.Room {
	for i := range rooms {
		if rooms[i].ID == id {
			return &rooms[i]
		}
	}
	return nil
}

// reply marshals a success payload into one outbound frame.
func (s *session) reply(v any) []byte {
	b, err := protocol.Encode(v)
	if err != nil {
		s.log.Error("failed to encode reply", zap.Error(err))
		return s.errorReply("internal error encoding reply")
	}
	return b
}

// domainError logs and encodes a domain-level failure reply.
func (s *session) domainError(msg string) []byte {
	s.log.Warn("request rejected", zap.String("reason", msg))
	return s.errorReply(msg)
}

func (s *session) errorReply(msg string) []byte {
	b, err := protocol.Encode(protocol.ErrorResponse{Error: msg})
	if err != nil {
		// ErrorResponse marshalling cannot realistically fail; fall back to
		// a literal so the client still gets one reply frame.
		s.log.Error("failed to encode error reply", zap.Error(err))
		return []byte(`{"error":"internal error"}`)
	}
	return b
}

// logStreamEnd classifies why the read loop stopped so routine disconnects
// stay at info level.
func (s *session) logStreamEnd(err error) {
	switch {
	case websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseAbnormalClosure):
		s.log.Info("client disconnected", zap.Error(err))
	case errors.Is(err, io.EOF), isExpectedCloseError(err):
		s.log.Info("connection closed", zap.Error(err))
	case errors.Is(err, websocket.ErrReadLimit):
		s.log.Warn("frame exceeded read limit", zap.Error(err))
	default:
		s.log.Warn("websocket read failed", zap.Error(err))
	}
}

// isExpectedCloseError checks if an error is expected during connection
// closure.
func isExpectedCloseError(err error) bool {
	if err == nil {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "use of closed network connection") ||
		strings.Contains(errStr, "websocket: close sent") ||
		strings.Contains(errStr, "broken pipe")
}
