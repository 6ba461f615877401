// Package console implements the line based operator console served over the
// telnet and ssh listeners.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/pixil98/go-nopower/internal/display"
	"github.com/pixil98/go-nopower/internal/game"
	"github.com/pixil98/go-nopower/internal/permission"
)

const prompt = "> "

// Saver queues a server save.
type Saver interface {
	RequestSave()
}

type command struct {
	usage   string
	help    string
	minArgs int
	run     func(ctx context.Context, args []string) (string, error)
}

type Console struct {
	perms    *permission.Registry
	world    *game.WorldState
	saver    Saver
	commands map[string]command
}

func NewConsole(perms *permission.Registry, world *game.WorldState, saver Saver) *Console {
	c := &Console{
		perms: perms,
		world: world,
		saver: saver,
	}

	c.commands = map[string]command{
		"grant": {
			usage:   "grant <user> <permission>",
			help:    "Grant a permission to a player.",
			minArgs: 2,
			run:     c.grant,
		},
		"revoke": {
			usage:   "revoke <user> <permission>",
			help:    "Revoke a permission from a player.",
			minArgs: 2,
			run:     c.revoke,
		},
		"perms": {
			usage:   "perms [user]",
			help:    "List registered permissions, or the grants of a player.",
			run:     c.listPerms,
		},
		"status": {
			usage: "status",
			help:  "Show every turret and sam site and whether it is powered.",
			run:   c.status,
		},
		"save": {
			usage: "save",
			help:  "Save plugin data on the next tick.",
			run:   c.save,
		},
	}

	return c
}

var errQuit = errors.New("quit")

// RunSession reads commands from rw until the operator quits, the connection
// closes or ctx is canceled.
func (c *Console) RunSession(ctx context.Context, rw io.ReadWriter) error {
	br := bufio.NewReader(rw)

	for {
		if ctx.Err() != nil {
			return nil
		}

		_, err := io.WriteString(rw, prompt)
		if err != nil {
			return err
		}

		line, err := br.ReadString('\n')
		if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		out, cmdErr := c.Execute(ctx, line)
		if errors.Is(cmdErr, errQuit) {
			_, err = io.WriteString(rw, "Goodbye.\n")
			return err
		}

		var userErr *UserError
		switch {
		case errors.As(cmdErr, &userErr):
			out = userErr.Message
		case cmdErr != nil:
			slog.ErrorContext(ctx, "console command failed", "line", strings.TrimSpace(line), "error", cmdErr)
			out = "Command failed, see the server log."
		}

		if out != "" {
			_, err = io.WriteString(rw, display.Wrap(out)+"\n")
			if err != nil {
				return err
			}
		}
	}
}

// Execute runs a single console line and returns its output.
func (c *Console) Execute(ctx context.Context, line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}

	name := strings.ToLower(fields[0])
	args := fields[1:]

	switch name {
	case "quit", "exit":
		return "", errQuit
	case "help", "?":
		return c.help(), nil
	}

	cmd, ok := c.commands[name]
	if !ok {
		return "", NewUserError(fmt.Sprintf("Unknown command %q. Type 'help' for a list of commands.", name))
	}
	if len(args) < cmd.minArgs {
		return "", NewUserError(fmt.Sprintf("Usage: %s", cmd.usage))
	}

	return cmd.run(ctx, args)
}

func (c *Console) help() string {
	names := make([]string, 0, len(c.commands))
	for name := range c.commands {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([][]string, 0, len(names)+1)
	for _, name := range names {
		rows = append(rows, []string{c.commands[name].usage, c.commands[name].help})
	}
	rows = append(rows, []string{"quit", "Close the console."})

	return strings.TrimRight(display.Columns(rows), "\n")
}

func parseUser(raw string) (game.UserId, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, NewUserError(fmt.Sprintf("%q is not a valid user id.", raw))
	}
	return game.UserId(id), nil
}

func (c *Console) grant(ctx context.Context, args []string) (string, error) {
	u, err := parseUser(args[0])
	if err != nil {
		return "", err
	}

	err = c.perms.GrantUserPermission(u, args[1])
	if errors.Is(err, permission.ErrUnknownPermission) {
		return "", NewUserError(fmt.Sprintf("Permission %q is not registered.", args[1]))
	}
	if err != nil {
		return "", err
	}

	slog.InfoContext(ctx, "granted permission", "user", u, "permission", args[1])
	return fmt.Sprintf("Granted %s to %d.", strings.ToLower(args[1]), u), nil
}

func (c *Console) revoke(ctx context.Context, args []string) (string, error) {
	u, err := parseUser(args[0])
	if err != nil {
		return "", err
	}

	if !c.perms.PermissionExists(args[1]) {
		return "", NewUserError(fmt.Sprintf("Permission %q is not registered.", args[1]))
	}

	err = c.perms.RevokeUserPermission(u, args[1])
	if err != nil {
		return "", err
	}

	slog.InfoContext(ctx, "revoked permission", "user", u, "permission", args[1])
	return fmt.Sprintf("Revoked %s from %d.", strings.ToLower(args[1]), u), nil
}

func (c *Console) listPerms(_ context.Context, args []string) (string, error) {
	if len(args) == 0 {
		perms := c.perms.Permissions()
		if len(perms) == 0 {
			return "No permissions registered.", nil
		}
		return "Registered permissions: " + strings.Join(perms, ", "), nil
	}

	u, err := parseUser(args[0])
	if err != nil {
		return "", err
	}

	perms := c.perms.UserPermissions(u)
	if len(perms) == 0 {
		return fmt.Sprintf("%d has no permissions.", u), nil
	}
	return fmt.Sprintf("%d: %s", u, strings.Join(perms, ", ")), nil
}

func (c *Console) status(_ context.Context, _ []string) (string, error) {
	rows := [][]string{{"ID", "KIND", "STATE", "POWER"}}
	for _, kind := range []game.StructureKind{game.KindTurret, game.KindSamSite} {
		for _, s := range c.world.Structures(kind) {
			state := "off"
			if s.IsOnline() {
				state = "on"
			}
			rows = append(rows, []string{
				strconv.FormatUint(uint64(s.Id), 10),
				s.Kind.String(),
				state,
				strconv.Itoa(s.Power()),
			})
		}
	}

	if len(rows) == 1 {
		return "No turrets or sam sites.", nil
	}
	return strings.TrimRight(display.Columns(rows), "\n"), nil
}

func (c *Console) save(ctx context.Context, _ []string) (string, error) {
	c.saver.RequestSave()
	slog.InfoContext(ctx, "save requested from console")
	return "Save requested.", nil
}
