package main

import (
	"github.com/urfave/cli/v3"
)

func getCommands(version string) []*cli.Command {
	cmds := []*cli.Command{}
	cmds = append(cmds, getSystemCommands(version)...)
	cmds = append(cmds, getClientCommands()...)
	cmds = append(cmds, getAccessCommands()...)
	cmds = append(cmds, getSecretCommands()...)
	return cmds
}
