// Command uriquery normalizes, decodes, and encodes URI query strings.
//
// Usage:
//
//	uriquery normalize '?b=2&a=1&a=3'   # ?b=2&a[]=1&a[]=3
//	uriquery decode 'tag=x&tag=y'       # {"tag":["x","y"]}
//	echo '{"tag":["x","y"]}' | uriquery encode
//
// Queries are read from the arguments, or one per line from stdin when
// no arguments are given.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"
)

func main() {
	app := &app{}
	if err := newRootCommand(app).Execute(); err != nil {
		if app.logger != nil {
			app.logger.Error("command failed", zap.Error(err))
			_ = app.logger.Sync()
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
	if app.logger != nil {
		_ = app.logger.Sync()
	}
}
