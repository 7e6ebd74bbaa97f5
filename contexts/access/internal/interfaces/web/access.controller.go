package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/go-arrower/geogate/alog"
	"github.com/go-arrower/geogate/contexts/access/internal/application"
	"github.com/go-arrower/geogate/contexts/access/internal/domain"
)

const (
	msgInvalidIP        = "Invalid IP address format"
	msgInvalidRequest   = "Invalid request"
	msgResultReceived   = "Result received."
	msgLookupFailedTmpl = "Error getting country for IP %s"
)

// IPSource is where the controller takes the ip to check from.
type IPSource int

const (
	// IPFromQuery takes the ip from the query parameter ip.
	IPFromQuery IPSource = iota
	// IPFromConnection takes the address of the client, see echo.Context.RealIP.
	IPFromConnection
)

func NewAccessController(logger alog.Logger, exposeErrorDetails bool) *AccessController {
	return &AccessController{
		logger:             logger,
		exposeErrorDetails: exposeErrorDetails,
	} //nolint:exhaustruct // commands are set on context init
}

type AccessController struct {
	logger alog.Logger

	CmdCheckAccess        func(context.Context, application.CheckAccessRequest) (application.CheckAccessResponse, error)
	CmdRecordWebAppResult func(context.Context, application.RecordWebAppResultCommand) error

	exposeErrorDetails bool
}

func (ac *AccessController) CheckCountry() echo.HandlerFunc {
	return ac.checkAccess(IPFromQuery, false)
}

func (ac *AccessController) ManualValidate() echo.HandlerFunc {
	return ac.checkAccess(IPFromQuery, true)
}

func (ac *AccessController) Validate() echo.HandlerFunc {
	return ac.checkAccess(IPFromConnection, false)
}

// ClientIP shows the client the address the gateway sees.
func (ac *AccessController) ClientIP() echo.HandlerFunc {
	return func(c echo.Context) error {
		ip := c.RealIP()

		ac.logger.DebugContext(c.Request().Context(), "client ip requested", "ip", ip)

		return c.JSON(http.StatusOK, ip)
	}
}

func (ac *AccessController) WebAppResult() echo.HandlerFunc {
	return func(c echo.Context) error {
		result := application.RecordWebAppResultCommand{}

		if err := c.Bind(&result); err != nil {
			return c.String(http.StatusBadRequest, msgInvalidRequest)
		}

		err := ac.CmdRecordWebAppResult(c.Request().Context(), result)
		if err != nil {
			if isValidationError(err) {
				return c.String(http.StatusBadRequest, msgInvalidRequest)
			}

			return fmt.Errorf("could not record result: %w", err)
		}

		return c.JSON(http.StatusOK, map[string]string{"message": msgResultReceived})
	}
}

// checkAccess is the one pipeline behind all access routes.
func (ac *AccessController) checkAccess(source IPSource, notify bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := application.CheckAccessRequest{
			IP:     c.QueryParam("ip"),
			Notify: notify,
		}

		if source == IPFromConnection {
			req.IP = c.RealIP()
			req.Passthrough = passthrough(c)
		}

		res, err := ac.CmdCheckAccess(c.Request().Context(), req)
		if err != nil {
			return ac.handleError(c, req.IP, err)
		}

		if !res.Decision.Allowed {
			return c.JSON(http.StatusForbidden, res.Decision)
		}

		return c.JSON(http.StatusOK, res.Decision)
	}
}

func (ac *AccessController) handleError(c echo.Context, ip string, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidFormat):
		return c.String(http.StatusBadRequest, msgInvalidIP)
	case isValidationError(err):
		return c.String(http.StatusBadRequest, msgInvalidRequest)
	}

	body := map[string]string{"message": fmt.Sprintf(msgLookupFailedTmpl, ip)}
	if ac.exposeErrorDetails {
		body["error"] = err.Error()
	}

	return c.JSON(http.StatusInternalServerError, body)
}

func isValidationError(err error) bool {
	var validationErrors validator.ValidationErrors

	return errors.As(err, &validationErrors)
}

// passthrough collects the opaque query parameters a caller sends along, e.g. user_id.
func passthrough(c echo.Context) map[string]string {
	params := c.QueryParams()
	if len(params) == 0 {
		return nil
	}

	pt := make(map[string]string, len(params))
	for k := range params {
		pt[k] = params.Get(k)
	}

	return pt
}
