package webserver

import (
	"runtime"
	"time"
)

func loadStandardFunctionsTime(rv FuncMap) {
	// fn time: Return the given Time formatted using *format*.
	rv[`time`] = tmFmt

	// fn now: Return the current time formatted using *format*.
	rv[`now`] = func(format ...string) (string, error) {
		return tmFmt(time.Now(), format...)
	}

	// fn goversion: Return the version of the Go runtime the server was built with.
	rv[`goversion`] = runtime.Version
}
