package statuscolor

import (
	"fmt"
	"net/http"

	"github.com/fatih/color"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed)
	gray   = color.New(color.FgHiBlack)
)

func colorFor(status int) *color.Color {
	switch {
	case status == 0:
		return gray
	case status >= http.StatusOK && status < http.StatusMultipleChoices:
		return green
	case status < http.StatusBadRequest:
		return yellow
	default:
		return red
	}
}

// Sprint returns a colorized HTTP status code (2xx green, 3xx yellow, others red).
func Sprint(status int) string {
	if status == 0 {
		return gray.Sprint("-")
	}
	return colorFor(status).Sprint(fmt.Sprintf("%d", status))
}

// WrapByStatus wraps text in the color used for status.
func WrapByStatus(text string, status int) string {
	return colorFor(status).Sprint(text)
}

// OK colors a positive verdict.
func OK(text string) string { return green.Sprint(text) }

// Fail colors a negative verdict.
func Fail(text string) string { return red.Sprint(text) }

// Gray dims secondary text.
func Gray(text string) string { return gray.Sprint(text) }

// Outcome colors a history outcome by whether it reports success.
func Outcome(outcome string) string {
	switch outcome {
	case "Failed":
		return Fail(outcome)
	case "Success", "Resolved":
		return OK(outcome)
	}
	var code int
	if _, err := fmt.Sscanf(outcome, "%d", &code); err == nil {
		return WrapByStatus(outcome, code)
	}
	return outcome
}
