package commands

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"tidyup/internal/exitcode"
	"tidyup/internal/guard"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string                { return "help" }
func (c *HelpCmd) Aliases() []string           { return nil }
func (c *HelpCmd) Synopsis() string            { return "Print usage" }
func (c *HelpCmd) Usage() string               { return "tidyup help" }
func (c *HelpCmd) Access() guard.Requirement   { return guard.Public }
func (c *HelpCmd) RegisterFlags(*pflag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, env *Env, args []string) int {
	fmt.Fprint(env.Out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  tidyup                                             Show the task dashboard
  tidyup tasks [common flags]
  tidyup add [common flags] [task flags] <title...>
  tidyup edit [common flags] [task flags] [--title <title>] <id>
  tidyup show [common flags] <id>
  tidyup done [common flags] <id>                    Toggle done (alias: toggle)
  tidyup rm [common flags] <id>
  tidyup profile [common flags] [--name <name>] [--email <email>]
  tidyup users [common flags]                        Admin only
  tidyup edituser [common flags] [--role <role>] [--active=<bool>] <id>
  tidyup login [common flags] [--password-file <path>] [email]
  tidyup logout [common flags]
  tidyup whoami [common flags]
  tidyup mockserve [--addr <host:port>] [--state <file>]
  tidyup help
  tidyup version

Task flags:
  -d, --desc <text>        Description
      --due <YYYY-MM-DD>   Due date (empty to clear)
  -p, --priority <p>       LOW, MEDIUM, HIGH or none
  -l, --location <place>   Room or place

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr

Environment:
  TIDYUP_API_URL        API base URL (default http://localhost:8080)
  TIDYUP_MOCK_API       Use the built-in mock backend when true
  TIDYUP_MOCK_LATENCY   Mock call delay (default 300ms)
  TIDYUP_HTTP_TIMEOUT   Request timeout (default 10s)
`
