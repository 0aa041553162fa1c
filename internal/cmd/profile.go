package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/jimezsa/jobsweep/internal/config"
)

type ProfileCmd struct {
	Show ProfileShowCmd `cmd:"" help:"Print the resolved selector profile as YAML."`
	Path ProfilePathCmd `cmd:"" help:"Print the path of the editable profile written by config init."`
	List ProfileListCmd `cmd:"" help:"List built-in profiles."`
}

type ProfileShowCmd struct {
	Profile string `arg:"" optional:"" help:"Built-in name or YAML file (config profile when omitted)."`
}

type ProfilePathCmd struct{}

type ProfileListCmd struct{}

func (c *ProfileShowCmd) Run(ctx *Context) error {
	profile, err := config.ResolveProfile(firstNonEmpty(c.Profile, ctx.Config.Profile))
	if err != nil {
		return err
	}
	data, err := config.MarshalProfile(profile)
	if err != nil {
		return err
	}
	_, err = ctx.Out.Write(data)
	return err
}

func (c *ProfilePathCmd) Run(ctx *Context) error {
	_, err := fmt.Fprintln(ctx.Out, filepath.Join(ctx.ConfigDir, config.ProfileFileName))
	return err
}

func (c *ProfileListCmd) Run(ctx *Context) error {
	for _, name := range config.BuiltinProfiles() {
		if _, err := fmt.Fprintln(ctx.Out, name); err != nil {
			return err
		}
	}
	return nil
}
