// facetview explores a CSV or XLSX file with cross-filtering facets.
package main

import (
	"os"

	"github.com/JonMunkholm/facetview/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
