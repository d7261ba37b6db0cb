package router

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	httpez "bookstore-admin/internal/transport/http/ez"
)

type traceMod struct {
	name  string
	prio  int
	trace *[]string
}

func (m traceMod) MountAPI(_, _ httpez.EZ) { *m.trace = append(*m.trace, "api:"+m.name) }
func (m traceMod) MountAdmin(_ httpez.EZ)  { *m.trace = append(*m.trace, "admin:"+m.name) }

type prioMod struct{ traceMod }

func (m prioMod) Priority() int { return m.prio }

type apiOnly struct{ trace *[]string }

func (m apiOnly) MountAPI(_, _ httpez.EZ) { *m.trace = append(*m.trace, "api:only") }

func TestRegistry_MountOrder(t *testing.T) {
	var trace []string
	reg := NewRegistry(
		traceMod{name: "default", trace: &trace},
		prioMod{traceMod{name: "late", prio: 200, trace: &trace}},
		apiOnly{trace: &trace},
		prioMod{traceMod{name: "first", prio: 1, trace: &trace}},
		"ignored",
	)

	ez := httpez.New(gin.New().Group("/"), zap.NewNop())
	reg.MountAllAPI(ez, ez)
	reg.MountAllAdmin(ez)

	assert.Equal(t, []string{
		"api:first", "api:default", "api:only", "api:late",
		"admin:first", "admin:default", "admin:late",
	}, trace)
}
