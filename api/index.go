package handler

import (
	"net/http"
	"pms/config"
	"pms/di"
	"pms/shared/logger"
	"sync"
)

var (
	once sync.Once
	app  http.Handler
)

// Handler serves the API from a serverless function. The dependency graph is built on the first invocation
// and reused while the instance stays warm.
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		logger.InitLogger()
		logger.SetLogLevel(config.Get())

		app = di.InitializeService()
	})

	r.RequestURI = r.URL.String()

	app.ServeHTTP(w, r)
}
