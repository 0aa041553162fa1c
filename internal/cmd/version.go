package cmd

import (
	"fmt"
	"strings"

	"github.com/jimezsa/jobsweep/internal/config"
)

type VersionCmd struct{}

type versionInfo struct {
	Version  string   `json:"version"`
	Profiles []string `json:"profiles"`
}

func (v *VersionCmd) Run(ctx *Context) error {
	info := versionInfo{Version: ctx.Version, Profiles: config.BuiltinProfiles()}
	if ctx.JSONOutput {
		return ctx.writeJSON(info)
	}
	if ctx.PlainText {
		_, err := fmt.Fprintln(ctx.Out, info.Version)
		return err
	}
	_, err := fmt.Fprintf(ctx.Out, "jobsweep %s (profiles: %s)\n", info.Version, strings.Join(info.Profiles, ", "))
	return err
}
