package main

import (
	"github.com/renderspud/rsd/loader"
)

func loadDocument(path string) (*loader.Document, error) {
	opts := loader.Options{FollowIncludes: !noIncludes}

	if withEnv {
		opts.Environment = loader.EnvironmentFromOS()
	}

	return loader.Load(path, opts)
}
