package ez

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"bookstore-admin/internal/core/auth"
	resp "bookstore-admin/internal/transport/http/response"
)

// EZ 路由分组 + logger 的轻封装
type EZ struct {
	g   *gin.RouterGroup
	log *zap.Logger
}

func New(g *gin.RouterGroup, l *zap.Logger) EZ {
	if l == nil {
		l = zap.NewNop()
	}
	return EZ{g: g, log: l}
}

// Group 子分组，沿用同一个 logger
func (e EZ) Group(path string, mws ...gin.HandlerFunc) EZ {
	return EZ{g: e.g.Group(path, mws...), log: e.log}
}

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param 取
)

// normalizer 入参实现后，在校验前先做 trim 等清洗
type normalizer interface{ Normalize() }

// 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method  string   // GET | POST | PUT | PATCH | DELETE
	Path    string   // 例："/books/:id/stock"
	Binder  Binder   // 绑定方式
	Status  int      // 成功状态码，默认 200
	Message string   // 成功时的 message，可为空
	Auth    bool     // 是否要求已登录（分组中间件已校验时可不填）
	Roles   []string // 限定角色（可选）
	Errs    Messages // 领域错误的对外文案
	Handler func(c *gin.Context, in *I) (O, error)
}

// RegisterAction 在当前 EZ 下注册动作接口
func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		// 1) 鉴权/角色
		if a.Auth || len(a.Roles) > 0 {
			id, ok := auth.FromContext(c)
			if !ok {
				e.fail(c, Unauthorized("Access token required"), nil)
				return
			}
			if len(a.Roles) > 0 && !slices.Contains(a.Roles, id.Role) {
				e.fail(c, Forbidden("Insufficient permissions"), nil)
				return
			}
		}

		// 2) 绑定入参
		var in I
		if err := bind(c, a.Binder, &in); err != nil {
			e.fail(c, err, nil)
			return
		}

		// 3) 执行 + 统一错误映射
		out, err := a.Handler(c, &in)
		if err != nil {
			e.fail(c, err, a.Errs)
			return
		}

		status := a.Status
		if status == 0 {
			status = http.StatusOK
		}
		var data any = out
		if _, empty := data.(struct{}); empty {
			data = nil
		}
		c.JSON(status, resp.OK(a.Message, data))
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodPatch:
		e.g.PATCH(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default: // 默认 POST
		e.g.POST(a.Path, h)
	}
}

func (e EZ) fail(c *gin.Context, err error, msgs Messages) {
	status, body := Render(err, msgs)
	if status >= http.StatusInternalServerError {
		e.log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	c.AbortWithStatusJSON(status, body)
}

func bind(c *gin.Context, b Binder, in any) error {
	switch b {
	case BindJSON:
		if c.Request.Body == nil {
			return BadRequest("Request body is required")
		}
		if err := json.NewDecoder(c.Request.Body).Decode(in); err != nil {
			return decodeError(err)
		}
	case BindQuery:
		if err := binding.Query.Bind(c.Request, in); err != nil {
			return validationError(err)
		}
		return nil
	default:
		return nil
	}

	if n, ok := in.(normalizer); ok {
		n.Normalize()
	}
	if err := binding.Validator.ValidateStruct(in); err != nil {
		return validationError(err)
	}
	return nil
}

func decodeError(err error) error {
	var mbe *http.MaxBytesError
	var ute *json.UnmarshalTypeError
	switch {
	case errors.As(err, &mbe):
		return &AErr{Status: http.StatusRequestEntityTooLarge, Err: err}
	case errors.Is(err, io.EOF):
		return BadRequest("Request body is required")
	case errors.As(err, &ute) && ute.Field != "":
		return Invalid(resp.FieldError{Field: ute.Field, Message: ute.Field + " has an invalid type"})
	default:
		return &AErr{Status: http.StatusBadRequest, Msg: "Invalid request body", Err: err}
	}
}

// ParamID 解析路径上的正整数 id
func ParamID(c *gin.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, strconv.IntSize)
	if err != nil || v == 0 {
		return 0, Invalid(resp.FieldError{Field: name, Message: name + " must be a positive integer"})
	}
	return uint(v), nil
}

// AtoiDefault 非法或非正数时返回 def
func AtoiDefault(s string, def int) int {
	if v, err := strconv.Atoi(strings.TrimSpace(s)); err == nil && v > 0 {
		return v
	}
	return def
}
