package banner

import (
	"io"

	"github.com/common-nighthawk/go-figure"
	"github.com/fatih/color"
)

func PrintBanner(w io.Writer) {
	myFigure := figure.NewFigure("CNNCT", "doom", true)
	color.New(color.FgBlue).Fprint(w, myFigure.String())

	cyan := color.New(color.FgCyan)
	green := color.New(color.FgGreen)

	_, _ = cyan.Fprintln(w, "════════════════════════════════════════════════")
	_, _ = green.Fprintln(w, "    Port, DNS, HTTP and backend status probes")
	_, _ = cyan.Fprintln(w, "════════════════════════════════════════════════")
}
