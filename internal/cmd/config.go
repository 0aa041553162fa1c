package cmd

import (
	"fmt"

	"github.com/jimezsa/jobsweep/internal/config"
)

type ConfigCmd struct {
	Init InitConfigCmd `cmd:"" help:"Write default config, proxies and profile files."`
	Path PathConfigCmd `cmd:"" help:"Print config directory."`
	Show ShowConfigCmd `cmd:"" help:"Print the effective config as JSON and check it."`
}

type InitConfigCmd struct{}

type PathConfigCmd struct{}

type ShowConfigCmd struct{}

func (c *InitConfigCmd) Run(ctx *Context) error {
	created, err := config.InitDir(ctx.ConfigDir)
	for _, path := range created {
		ctx.UI.Successf("created %s", path)
	}
	if err != nil {
		return fmt.Errorf("init config in %s: %w", ctx.ConfigDir, err)
	}
	if len(created) == 0 {
		ctx.UI.Infof("config already initialized at %s", ctx.ConfigDir)
	}
	return nil
}

func (c *PathConfigCmd) Run(ctx *Context) error {
	_, err := fmt.Fprintln(ctx.Out, ctx.ConfigDir)
	return err
}

// Run prints the merged config even when it is invalid, then reports the
// validation error so a bad file can be inspected.
func (c *ShowConfigCmd) Run(ctx *Context) error {
	if err := ctx.writeJSON(ctx.Config); err != nil {
		return err
	}
	if err := ctx.Config.Validate(); err != nil {
		return fmt.Errorf("config is invalid: %w", err)
	}
	return nil
}
