package main

import (
	"fmt"

	"github.com/lexandro/filesearch-mcp/register"
	"github.com/urfave/cli/v2"
)

// registerCommand adds or removes this binary in an MCP client's server list.
// Arguments after "--" are forwarded to the server when the client launches it.
func registerCommand(c *cli.Context) error {
	options := register.Options{
		Scope:      register.Scope(c.String("scope")),
		Directory:  c.String("dir"),
		ServerName: c.String("name"),
		ServerArgs: c.Args().Slice(),
	}

	if c.Bool("remove") {
		configPath, removed, err := register.Unregister(options)
		if err != nil {
			return err
		}
		if !removed {
			fmt.Printf("Nothing to remove in %s\n", configPath)
			return nil
		}
		fmt.Printf("Removed from %s\n", configPath)
		return nil
	}

	configPath, err := register.Register(options)
	if err != nil {
		return err
	}
	fmt.Printf("Registered in %s\n", configPath)
	return nil
}
