// webshell.go: the browser playground backend.
//
// POST /run takes {"code": "..."} and answers with whatever the program
// wrote to stdout and stderr; GET / serves a minimal index page. Each request gets a fresh
// interpreter with captured writers, so sessions never see each other.
// Execution is bounded by a wall-clock timeout; a program that exceeds it
// gets a timeout message on stderr and its worker goroutine is abandoned
// (the interpreter has no cancellation points, so the goroutine ends only
// when the program does, which is acceptable for a teaching playground).
package pylang

import (
	"bytes"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

// DefaultRunTimeout bounds a single /run request.
const DefaultRunTimeout = 10 * time.Second

const indexPage = `<!DOCTYPE html>
<html>
<head><title>pylang playground</title></head>
<body>
<h1>pylang playground</h1>
<p>POST {"code": "print 1 + 2;"} to /run.</p>
</body>
</html>`

type runRequest struct {
	Code string `json:"code"`
}

type runResponse struct {
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
}

// NewShellApp builds the playground server. timeout <= 0 selects
// DefaultRunTimeout.
func NewShellApp(timeout time.Duration) *fiber.App {
	if timeout <= 0 {
		timeout = DefaultRunTimeout
	}

	app := fiber.New(fiber.Config{
		AppName:               "pylang-web " + Version,
		DisableStartupMessage: false,
	})
	app.Use(logger.New())

	app.Get("/", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.SendString(indexPage)
	})

	app.Post("/run", func(c *fiber.Ctx) error {
		var req runRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		if len(bytes.TrimSpace([]byte(req.Code))) == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Code cannot be empty"})
		}
		return c.JSON(runCode(req.Code, timeout))
	})

	return app
}

// runCode executes source on a throwaway interpreter and collects output.
func runCode(src string, timeout time.Duration) runResponse {
	var stdout, stderr bytes.Buffer
	ip := NewInterpreter()
	ip.Stdout = &stdout
	ip.Stderr = &stderr

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = ip.RunSource(src)
	}()

	select {
	case <-done:
		return runResponse{Stdout: stdout.String(), Stderr: stderr.String()}
	case <-time.After(timeout):
		// Do not touch the buffers: the worker may still be writing.
		return runResponse{Stderr: "Error: Execution timed out (Possible infinite loop)"}
	}
}
