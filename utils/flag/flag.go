/*
flag package sets up cli flags shared across services

Usage:

	Flags listed in this package are shared across boundaries and
	service-agnostic. For service dependent flags please define in their
	respective package. Call ParseFlags from main after all packages had a
	chance to register theirs.
*/

package flag

import (
	"flag"
)

const (
	APIServer = "api_server"
	Fetcher   = "fetcher"
)

var (
	IsDevelopment bool
	ServiceName   string
	ByPassAuth    bool
)

func init() {
	flag.BoolVar(&IsDevelopment, "dev", true, "set to true if the current run is for development. default value is true")
	flag.StringVar(&ServiceName, "service", APIServer, "'api_server' or 'fetcher'")
	flag.BoolVar(&ByPassAuth, "bypass_auth", false, "skip token validation and trust the sub header, development only")
}

// ParseFlags is deliberately not called from init so that the testing
// package can register its own flags first.
func ParseFlags() {
	flag.Parse()
}
