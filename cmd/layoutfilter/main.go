// layoutfilter reduces UI layout dumps to a whitelisted set of keys.
package main

import (
	"os"

	"github.com/hupe1980/layoutfilter/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
