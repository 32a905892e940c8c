// Command pylang-web serves the browser playground.
package main

import (
	"flag"
	"log"
	"time"

	pylang "github.com/generalpy101/pylang"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	timeout := flag.Duration("timeout", 10*time.Second, "per-run execution timeout")
	flag.Parse()

	app := pylang.NewShellApp(*timeout)
	if err := app.Listen(*addr); err != nil {
		log.Fatal(err)
	}
}
