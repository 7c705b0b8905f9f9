package main

import (
	"flag"
	"os"

	"github.com/keepsakehq/keepsake/server/keepsakeservice"
)

func main() {
	// Optional build-target flag override (local | cloud)
	buildTarget := flag.String("build-target", "", "Override BUILD_TARGET (local, cloud)")
	flag.Parse()

	if *buildTarget != "" {
		_ = os.Setenv("KEEPSAKE_BUILD_TARGET", *buildTarget)
	}

	if err := keepsakeservice.Run(); err != nil {
		os.Exit(1)
	}
}
