package ez

import (
	"errors"
	"net/http"
	"strings"

	"bookstore-admin/internal/domain"
	resp "bookstore-admin/internal/transport/http/response"
)

// 统一错误对象
type AErr struct {
	Status int
	Msg    string
	Err    error
	Fields []resp.FieldError
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return resp.StatusMsg(e.Status)
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error   { return &AErr{Status: http.StatusBadRequest, Msg: msg} }
func Unauthorized(msg string) error { return &AErr{Status: http.StatusUnauthorized, Msg: msg} }
func Forbidden(msg string) error    { return &AErr{Status: http.StatusForbidden, Msg: msg} }
func NotFound(msg string) error     { return &AErr{Status: http.StatusNotFound, Msg: msg} }

// Internal msg 只进日志，响应里固定是 "Internal server error"
func Internal(msg string, err error) error {
	return &AErr{Status: http.StatusInternalServerError, Msg: msg, Err: err}
}

func Invalid(fields ...resp.FieldError) error {
	return &AErr{Status: http.StatusBadRequest, Msg: resp.MsgValidation, Fields: fields}
}

// Messages 领域错误 → 对外文案，按接口覆盖默认值
type Messages map[error]string

var domainErrors = []struct {
	err    error
	status int
	msg    string // 空串表示用错误本身的描述
}{
	{domain.ErrNotFound, http.StatusNotFound, "Resource not found"},
	{domain.ErrHasDependents, http.StatusBadRequest, "Resource is still referenced"},
	{domain.ErrDuplicate, http.StatusBadRequest, "Resource already exists"},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
	{domain.ErrInvalidInput, http.StatusBadRequest, ""},
}

// Render 把 error 映射为 HTTP 状态码和响应体；未知错误一律 500
func Render(err error, msgs Messages) (int, resp.Resp) {
	var ae *AErr
	if errors.As(err, &ae) {
		switch {
		case ae.Status >= http.StatusInternalServerError:
			return ae.Status, resp.Error(ae.Status, "")
		case len(ae.Fields) > 0:
			return ae.Status, resp.Invalid(ae.Fields)
		}
		return ae.Status, resp.Error(ae.Status, ae.Msg)
	}

	for _, m := range domainErrors {
		if !errors.Is(err, m.err) {
			continue
		}
		msg := msgs[m.err]
		if msg == "" {
			msg = m.msg
		}
		if msg == "" {
			msg = detail(err, m.err)
		}
		return m.status, resp.Error(m.status, msg)
	}
	return http.StatusInternalServerError, resp.Error(http.StatusInternalServerError, "")
}

// detail "invalid input: title is required" → "Title is required"
func detail(err, sentinel error) string {
	msg, _, _ := strings.Cut(err.Error(), "\n")
	msg = strings.TrimPrefix(msg, sentinel.Error()+": ")
	if msg == "" || msg == sentinel.Error() {
		return resp.StatusMsg(http.StatusBadRequest)
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
