package commands

import (
	"fmt"
	"os"

	"git.home.luguber.info/inful/restdoc/internal/version"
)

// VersionCmd implements the 'version' command.
type VersionCmd struct{}

func (v *VersionCmd) Run(_ *Global, _ *CLI) error {
	fmt.Fprintf(os.Stdout, "restdoc %s (built %s, commit %s)\n",
		version.Version, version.BuildTime, version.GitCommit)
	return nil
}
