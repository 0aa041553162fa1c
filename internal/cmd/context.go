package cmd

import (
	"encoding/json"
	"io"

	"github.com/jimezsa/jobsweep/internal/config"
	"github.com/jimezsa/jobsweep/internal/ui"
	"github.com/rs/zerolog"
)

// Context is handed to every command's Run. Config is the loaded file over
// defaults; per-command flags are applied on top inside each command.
type Context struct {
	Out        io.Writer
	Err        io.Writer
	UI         *ui.UI
	Config     config.Config
	ConfigDir  string
	Logger     zerolog.Logger
	Verbose    bool
	JSONOutput bool
	PlainText  bool
	Version    string
	ColorMode  ui.ColorMode
}

func (c *Context) writeJSON(v any) error {
	enc := json.NewEncoder(c.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
