// Command schema regenerates the JSON schema of khabar config
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/khabarwire/khabar/pkg/config"
)

type opts struct {
	Args struct {
		Output string `positional-arg-name:"output" default:"schema.json" description:"schema file to write"`
	} `positional-args:"yes"`
}

func main() {
	var o opts
	if _, err := flags.Parse(&o); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	data, err := generate()
	if err != nil {
		lgr.Fatalf("[ERROR] %v", err)
	}
	if err := os.WriteFile(o.Args.Output, data, 0o600); err != nil {
		lgr.Fatalf("[ERROR] failed to write schema file: %v", err)
	}
	fmt.Printf("schema written to %s\n", o.Args.Output)
}

// generate reflects config.Config into an indented schema document
func generate() ([]byte, error) {
	schema, err := config.GenerateSchema()
	if err != nil {
		return nil, fmt.Errorf("reflect config: %w", err)
	}
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return append(data, '\n'), nil
}
