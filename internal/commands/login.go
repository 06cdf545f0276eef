package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"tidyup/internal/exitcode"
	"tidyup/internal/guard"
	"tidyup/internal/output"
	"tidyup/internal/service"
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command.
type LoginCmd struct {
	passwordFile string
}

func (c *LoginCmd) Name() string              { return "login" }
func (c *LoginCmd) Aliases() []string         { return nil }
func (c *LoginCmd) Synopsis() string          { return "Sign in to TidyUp" }
func (c *LoginCmd) Usage() string             { return "tidyup login [--password-file <path>] [email]" }
func (c *LoginCmd) Access() guard.Requirement { return guard.Public }

func (c *LoginCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.passwordFile, "password-file", "", "read the password from a file")
}

func (c *LoginCmd) Run(ctx context.Context, env *Env, args []string) int {
	if len(args) > 1 {
		return usage(env, "too many arguments")
	}
	var email string
	if len(args) == 1 {
		email = strings.TrimSpace(args[0])
	}

	// An existing session for the same account needs no new login.
	env.Session.Start(ctx)
	if _, err := env.Session.Wait(ctx); err != nil {
		fmt.Fprintln(env.ErrOut, "error: cancelled")
		return exitcode.AuthError
	}
	if u, ok := env.Session.Identity(); ok && (email == "" || strings.EqualFold(email, u.Email)) {
		info(env, "already logged in as %s", u.Email)
		return exitcode.Success
	}

	p := newPrompter(env)
	if email == "" {
		var err error
		if email, err = p.line("Email: "); err != nil {
			return usage(env, "email required")
		}
		email = strings.TrimSpace(email)
	}

	password, err := c.password(p)
	if err != nil {
		return usage(env, "%v", err)
	}
	if strings.TrimSpace(email) == "" || password == "" {
		return usage(env, "email and password are required")
	}

	u, err := env.Session.Login(ctx, service.Credentials{Email: email, Password: password})
	if err != nil {
		env.Logger.Debug("login failed", "email", email, "error", err)
		fmt.Fprintf(env.ErrOut, "error: %s\n", msgLoginFailed)
		return ExitCode(err)
	}

	info(env, "logged in as %s (%s)", u.DisplayName(), output.RoleLabel(u.Role))
	return exitcode.Success
}

func (c *LoginCmd) password(p *prompter) (string, error) {
	if c.passwordFile != "" {
		data, err := os.ReadFile(c.passwordFile)
		if err != nil {
			return "", fmt.Errorf("read password file: %w", err)
		}
		return strings.TrimRight(string(data), "\r\n"), nil
	}
	pw, err := p.secret("Password: ")
	if err != nil {
		return "", errors.New("password required")
	}
	return pw, nil
}

// prompter reads answers from the input. Secrets are read without echo
// when the input is a terminal.
type prompter struct {
	in     io.Reader
	r      *bufio.Reader
	errOut io.Writer
}

func newPrompter(env *Env) *prompter {
	in := env.In
	if in == nil {
		in = os.Stdin
	}
	return &prompter{in: in, r: bufio.NewReader(in), errOut: env.ErrOut}
}

func (p *prompter) line(label string) (string, error) {
	fmt.Fprint(p.errOut, label)
	s, err := p.r.ReadString('\n')
	if err != nil && (err != io.EOF || s == "") {
		return "", err
	}
	return strings.TrimRight(s, "\r\n"), nil
}

func (p *prompter) secret(label string) (string, error) {
	if f, ok := p.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(p.errOut, label)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(p.errOut)
		return string(b), err
	}
	return p.line(label)
}
