package api

import (
	"github.com/gin-gonic/gin"

	"github.com/LENAX/task-graph/pkg/api/handler"
	"github.com/LENAX/task-graph/pkg/api/middleware"
	"github.com/LENAX/task-graph/pkg/core/engine"
	"github.com/LENAX/task-graph/pkg/core/events"
)

// SetupRouter 设置路由
// bus为nil时不注册事件流端点
func SetupRouter(eng *engine.Engine, bus *events.Bus, version string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// 全局中间件
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS())

	// 创建handlers
	taskHandler := handler.NewTaskHandler(eng)
	healthHandler := handler.NewHealthHandler(version)

	// 健康检查路由（不带前缀）
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// API v1 路由组
	v1 := router.Group("/api/v1")
	{
		tasks := v1.Group("/tasks")
		{
			tasks.GET("", taskHandler.List)
			tasks.POST("", taskHandler.Create)
			// 固定路径必须注册在:id之前
			tasks.GET("/next", taskHandler.Next)
			tasks.GET("/frontier", taskHandler.Frontier)
			tasks.GET("/:id", taskHandler.Get)
			tasks.PATCH("/:id", taskHandler.Update)
			tasks.DELETE("/:id", taskHandler.Delete)
			tasks.POST("/:id/dependencies", taskHandler.AddDependency)
			tasks.DELETE("/:id/dependencies/:depId", taskHandler.RemoveDependency)
			tasks.POST("/:id/subtasks", taskHandler.AddSubtask)
			tasks.DELETE("/:id/subtasks/:childId", taskHandler.RemoveSubtask)
		}

		graph := v1.Group("/graph")
		{
			graph.GET("/plan", taskHandler.Plan)
		}

		if bus != nil {
			eventsHandler := handler.NewEventsHandler(bus)
			v1.GET("/events/ws", eventsHandler.Stream)
		}
	}

	return router
}
