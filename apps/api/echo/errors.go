package echoapi

import (
	"net/http"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/talunzi/gradechain/core"
	"github.com/talunzi/gradechain/ledger"
	"github.com/talunzi/gradechain/wallet"
)

var (
	errUnauthorized   = echo.NewHTTPError(http.StatusUnauthorized, "session not authenticated")
	errSessionChanged = echo.NewHTTPError(http.StatusUnauthorized, "active account changed; reconnect")
	errHttpForbidden  = echo.NewHTTPError(http.StatusForbidden, "permission denied")
)

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// signalShutdown is called in order to gracefully shutdown the Server whenever a core.shutdown error is caught.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator, signalShutdown func()) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var code int
		var message interface{}

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			message = origErr.Message
		case validator.ValidationErrors:
			fldErrs := make(map[string]string, len(origErr))
			for _, vErr := range origErr {
				fldErrs[vErr.Field()] = vErr.Translate(translator)
			}
			code = http.StatusBadRequest
			message = fldErrs
		case *core.ValidationError:
			if origErr.Fields != nil {
				fldErrs := make(map[string]string, len(origErr.Fields))
				for _, fErr := range origErr.Fields {
					fldErrs[fErr.Field] = fErr.Error
				}
				message = fldErrs
			} else {
				message = origErr.Error()
			}
			code = http.StatusBadRequest
		case *ledger.RevertError:
			code = http.StatusConflict
			message = origErr.Reason
		default:
			switch {
			case errors.Is(err, ledger.ErrUnauthorized):
				code = http.StatusForbidden
				message = "the active account is not authorized for this action"
			case errors.Is(err, ledger.ErrNotFound):
				code = http.StatusNotFound
				message = "not found"
			case errors.Is(err, ledger.ErrReverted):
				code = http.StatusConflict
				message = "the ledger refused the state change"
			case errors.Is(err, ledger.ErrRejected), errors.Is(err, wallet.ErrRejected):
				code = http.StatusBadRequest
				message = "the wallet declined to sign"
			case errors.Is(err, wallet.ErrNotConnected):
				code = http.StatusUnauthorized
				message = "no wallet connected"
			case errors.Is(err, wallet.ErrNoProvider):
				code = http.StatusServiceUnavailable
				message = "no wallet provider available"
			default: // any other error is a server error
				code = http.StatusInternalServerError
				msg := http.StatusText(http.StatusInternalServerError)
				message = msg

				logger.Error(msg, errors.Wrap(err, msg))

				// shutting down...
				if core.IsShutdown(err) {
					signalShutdown()
				}
			}
		}

		if ctx.Echo().Debug {
			message = err.Error()
		} else if m, ok := message.(string); ok {
			message = echo.Map{"error": m}
		}

		// Send response
		if !ctx.Response().Committed {
			if ctx.Request().Method == http.MethodHead { // Issue #608
				err = ctx.NoContent(code)
			} else {
				err = ctx.JSON(code, message)
			}
			if err != nil {
				ctx.Echo().Logger.Error(err)
			}
		}
	}
}
