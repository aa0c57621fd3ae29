package cmd

import (
	"fmt"

	"github.com/common-nighthawk/go-figure"
)

const appVersion = "2.0.0"

// Version prints the banner and version number.
func Version() {
	banner := figure.NewColorFigure("Secret Santa", "", "red", true)
	banner.Print()
	fmt.Printf("\nsanta version %s\n", appVersion)
}
