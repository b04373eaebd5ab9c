package handlers

import (
	"net/http"
	"runtime"

	"go.uber.org/zap"

	"rrlogistics/logger"
)

// RecoverWrapper turns a panic in next into a 500 response.
func RecoverWrapper(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				stack := make([]byte, 8*1024)
				stack = stack[:runtime.Stack(stack, false)]
				logger.Log.Error("panic recovered",
					zap.Any("panic", rec),
					zap.String("uri", r.RequestURI),
					zap.String("request_id", RequestIDFrom(r.Context())),
					zap.ByteString("stack", stack),
				)
				writeFail(w, http.StatusInternalServerError, "internal server error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}
