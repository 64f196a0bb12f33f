package runner

import (
	"github.com/projectdiscovery/gologger"
	updateutils "github.com/projectdiscovery/utils/update"
)

var banner = (`
      __               __    _____ __
  ____/ /_  ___  _____/ /__ / __(_) /__
 / __  / / / / |/_/ __  / -_) /_/ / / -_)
 \__,_/\_,_/_/  \__,_/\__/_/ /_/_/\__/
`)

var version = "v0.0.1"

// showBanner is used to show the banner to the user
func showBanner() {
	gologger.Print().Msgf("%s\n", banner)
	gologger.Print().Msgf("\t\tprojectdiscovery.io\n\n")
}

// GetUpdateCallback returns a callback function that updates checkfile
func GetUpdateCallback() func() {
	return func() {
		showBanner()
		updateutils.GetUpdateToolCallback("checkfile", version)()
	}
}
