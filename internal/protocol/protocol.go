// Package protocol implements the wire protocol for the GoQuiz server: the
// tagged request envelope sent by clients and the typed success and error
// replies sent back.
package protocol

import (
	"github.com/Tyrowin/goquiz/internal/quiz"
)

// RequestType is the discriminator tag carried in the request envelope.
type RequestType string

// The five request kinds a client may send.
const (
	RequestRegisterUser   RequestType = "register_user"
	RequestHostRoom       RequestType = "host_room"
	RequestJoinRoom       RequestType = "join_room"
	RequestAddQuestions   RequestType = "add_questions"
	RequestAnswerQuestion RequestType = "answer_question"
)

// Request is a decoded inbound envelope. Exactly one payload field is
// non-nil, matching Type.
type Request struct {
	Type           RequestType
	RegisterUser   *quiz.User
	HostRoom       *RoomRequest
	JoinRoom       *RoomRequest
	AddQuestions   *AddQuestionsRequest
	AnswerQuestion *AnswerQuestionRequest
}

// RoomRequest is the payload shared by host_room and join_room.
type RoomRequest struct {
	User   string `json:"user"`
	RoomID string `json:"room_id"`
}

// AddQuestionsRequest is the payload of an add_questions request.
type AddQuestionsRequest struct {
	User      string          `json:"user"`
	RoomID    string          `json:"room_id"`
	Questions []quiz.Question `json:"questions"`
}

// AnswerQuestionRequest is the payload of an answer_question request.
type AnswerQuestionRequest struct {
	User       string `json:"user"`
	RoomID     string `json:"room_id"`
	QuestionID int    `json:"question_id"`
	Answer     int    `json:"answer"`
}

// RoomResponse is the success reply for host_room and join_room.
type RoomResponse struct {
	RoomID string `json:"room_id"`
}

// AddQuestionsResponse is the success reply for add_questions, echoing the
// questions that were accepted.
type AddQuestionsResponse struct {
	RoomID    string          `json:"room_id"`
	Questions []quiz.Question `json:"questions"`
}

// AnswerQuestionResponse is the success reply for answer_question.
type AnswerQuestionResponse struct {
	RoomID     string `json:"room_id"`
	QuestionID int    `json:"question_id"`
	Answer     int    `json:"answer"`
}

// ErrorResponse is the reply sent for any decode, shape, or domain failure.
type ErrorResponse struct {
	Error string `json:"error"`
}
