package response

// FieldError 单个字段的校验错误
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Resp 统一响应体：{success, message, data} / {success:false, message, errors}
type Resp struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    any          `json:"data,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// OK 成功响应；message 可为空
func OK(message string, data any) Resp {
	return Resp{Success: true, Message: message, Data: data}
}

// Error 失败响应（customMsg 为空时用状态码默认文案）
func Error(status int, customMsg string) Resp {
	msg := StatusMsg(status)
	if customMsg != "" {
		msg = customMsg
	}
	return Resp{Success: false, Message: msg}
}

// Invalid 400 + 字段错误列表
func Invalid(fields []FieldError) Resp {
	return Resp{Success: false, Message: MsgValidation, Errors: fields}
}
