package response

import "net/http"

// StatusMsgMap 各 HTTP 状态码的默认 message
var StatusMsgMap = map[int]string{
	http.StatusOK:                    "OK",
	http.StatusCreated:               "Created",
	http.StatusBadRequest:            "Bad request",
	http.StatusUnauthorized:          "Unauthorized",
	http.StatusForbidden:             "Forbidden",
	http.StatusNotFound:              "Not found",
	http.StatusRequestEntityTooLarge: "Request body too large",
	http.StatusTooManyRequests:       "Too many requests",
	http.StatusInternalServerError:   "Internal server error",
	http.StatusServiceUnavailable:    "Server busy",
	http.StatusGatewayTimeout:        "Request timeout",
}

// MsgValidation 参数校验失败
const MsgValidation = "Validation failed"

func StatusMsg(status int) string {
	if m, ok := StatusMsgMap[status]; ok {
		return m
	}
	return http.StatusText(status)
}
