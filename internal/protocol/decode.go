// Package protocol implements envelope decoding, separating schema-level
// decode failures from tag/payload shape mismatches.
package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/Tyrowin/goquiz/internal/quiz"
)

// DecodeError reports that an inbound frame was not valid JSON or did not
// match the envelope schema at all. The message carries the underlying
// parser diagnostic and is sent back to the client verbatim.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return e.Err.Error() }

// Unwrap exposes the underlying parse error.
func (e *DecodeError) Unwrap() error { return e.Err }

// ShapeMismatchError reports that a well-formed envelope carried a payload
// whose shape does not match its declared request_type. This is a logic
// level failure distinct from a schema-level DecodeError.
type ShapeMismatchError struct {
	Type RequestType
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("expected %s data, received something else", e.Type)
}

// envelope mirrors the outer wire object before the payload is interpreted.
type envelope struct {
	RequestType RequestType     `json:"request_type"`
	Data        json.RawMessage `json:"data"`
}

// The integer fields of these payloads are decoded through pointers so a
// missing field is distinguishable from a legitimate zero (0 is a valid
// question id and a valid answer index).
type questionPayload struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   *int     `json:"answer"`
}

type addQuestionsPayload struct {
	User      string            `json:"user"`
	RoomID    string            `json:"room_id"`
	Questions []questionPayload `json:"questions"`
}

type answerQuestionPayload struct {
	User       string `json:"user"`
	RoomID     string `json:"room_id"`
	QuestionID *int   `json:"question_id"`
	Answer     *int   `json:"answer"`
}

// Decode parses a raw text frame into a typed Request. It returns a
// *DecodeError for malformed JSON, envelope schema violations, and unknown
// tags, and a *ShapeMismatchError when the payload's shape disagrees with
// the declared request_type.
func Decode(raw []byte) (Request, error) {
	var env envelope
	if err := strictUnmarshal(raw, &env); err != nil {
		return Request{}, &DecodeError{Err: err}
	}
	if env.RequestType == "" {
		return Request{}, &DecodeError{Err: fmt.Errorf("missing request_type")}
	}
	if len(env.Data) == 0 {
		return Request{}, &DecodeError{Err: fmt.Errorf("missing data")}
	}

	req := Request{Type: env.RequestType}
	switch env.RequestType {
	case RequestRegisterUser:
		var user quiz.User
		if err := strictUnmarshal(env.Data, &user); err != nil || user.Name == "" || user.Role == "" {
			return Request{}, &ShapeMismatchError{Type: env.RequestType}
		}
		req.RegisterUser = &user

	case RequestHostRoom, RequestJoinRoom:
		var room RoomRequest
		if err := strictUnmarshal(env.Data, &room); err != nil || room.User == "" || room.RoomID == "" {
			return Request{}, &ShapeMismatchError{Type: env.RequestType}
		}
		if env.RequestType == RequestHostRoom {
			req.HostRoom = &room
		} else {
			req.JoinRoom = &room
		}

	case RequestAddQuestions:
		var add addQuestionsPayload
		if err := strictUnmarshal(env.Data, &add); err != nil || add.User == "" || add.RoomID == "" || add.Questions == nil {
			return Request{}, &ShapeMismatchError{Type: env.RequestType}
		}
		questions := make([]quiz.Question, 0, len(add.Questions))
		for _, q := range add.Questions {
			if q.ID == "" || q.Question == "" || q.Options == nil || q.Answer == nil {
				return Request{}, &ShapeMismatchError{Type: env.RequestType}
			}
			questions = append(questions, quiz.Question{
				ID:       q.ID,
				Question: q.Question,
				Options:  q.Options,
				Answer:   *q.Answer,
			})
		}
		req.AddQuestions = &AddQuestionsRequest{User: add.User, RoomID: add.RoomID, Questions: questions}

	case RequestAnswerQuestion:
		var ans answerQuestionPayload
		if err := strictUnmarshal(env.Data, &ans); err != nil || ans.User == "" || ans.RoomID == "" || ans.QuestionID == nil || ans.Answer == nil {
			return Request{}, &ShapeMismatchError{Type: env.RequestType}
		}
		req.AnswerQuestion = &AnswerQuestionRequest{
			User:       ans.User,
			RoomID:     ans.RoomID,
			QuestionID: *ans.QuestionID,
			Answer:     *ans.Answer,
		}

	default:
		return Request{}, &DecodeError{Err: fmt.Errorf("unknown request_type %q", env.RequestType)}
	}

	return req, nil
}

// strictUnmarshal decodes JSON while rejecting fields the target type does
// not declare, so a payload of the wrong shape fails instead of silently
// dropping its fields.
func strictUnmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// Encode marshals a reply payload into the bytes of one outbound text frame.
func Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}
