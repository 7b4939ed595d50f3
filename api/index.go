package handler

import (
	"net/http"
	"sync"

	"meetingbook/di"
	"meetingbook/shared/logger"
)

var (
	once sync.Once
	app  *di.App
)

func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	once.Do(func() {
		logger.InitLogger()

		app = di.InitializeService()

		logger.SetLogLevel(app.Config)
	})

	app.HTTP.ServeHTTP(w, r)
}
