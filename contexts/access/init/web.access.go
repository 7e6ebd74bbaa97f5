package init

import (
	"github.com/labstack/echo/v4"

	"github.com/go-arrower/geogate/contexts/access"
)

func (c *AccessContext) registerWebRoutes(router *echo.Echo) {
	router.GET("/", c.controller.ClientIP()).Name = access.RouteClientIP
	router.GET("/check_country", c.controller.CheckCountry()).Name = access.RouteCheckCountry
	router.GET("/manual_validate", c.controller.ManualValidate()).Name = access.RouteManualValidate
	router.GET("/validate", c.controller.Validate()).Name = access.RouteValidate
	router.POST("/webapp_result", c.controller.WebAppResult()).Name = access.RouteWebAppResult
}
