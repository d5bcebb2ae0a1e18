// SPDX-License-Identifier: MPL-2.0

package sshd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"golang.org/x/term"

	"quarterdeck/pkg/command"
)

const unknownCommandText = "Unknown command. Enter 'help' for a list of supported commands"

var (
	helpHeaderStyle = lipgloss.NewStyle().Bold(true)
	groupNameStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3B82F6"))
)

// shellSession dispatches lines typed in one interactive session against
// the shared registry. It holds no per-command mutable state; distinct
// sessions run concurrently against the same registry and invoker.
type shellSession struct {
	registry *command.Registry
	invoker  *command.Invoker
	logger   *log.Logger
}

// shellMiddleware hands each SSH session to the interactive shell loop.
func (s *Server) shellMiddleware() wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			s.runShell(sess)
		}
	}
}

// runShell drives the line-oriented shell for one session.
func (s *Server) runShell(sess ssh.Session) {
	t := term.NewTerminal(sess, s.cfg.Prompt)

	ptyReq, winCh, isPty := sess.Pty()
	if isPty {
		_ = t.SetSize(ptyReq.Window.Width, ptyReq.Window.Height)
		go func() {
			for win := range winCh {
				_ = t.SetSize(win.Width, win.Height)
			}
		}()
	}

	sh := &shellSession{registry: s.registry, invoker: s.invoker, logger: s.logger}
	t.AutoCompleteCallback = sh.complete

	if s.banner != "" {
		fmt.Fprintln(t, s.banner)
	}
	s.logger.Info("session opened", "user", sess.User(), "remote", sess.RemoteAddr())

	for {
		line, err := t.ReadLine()
		if err != nil {
			// io.EOF on Ctrl-D, otherwise the connection is gone.
			break
		}

		out, done := sh.handleLine(line)
		if out != "" {
			fmt.Fprintln(t, out)
		}
		if done {
			break
		}
	}

	s.logger.Info("session closed", "user", sess.User())
	_ = sess.Exit(0)
}

// handleLine resolves and executes one input line. It returns the text to
// display (empty for none) and whether the session must end.
//
// Resolution: the first token names the group. When a second token names a
// command registered in that group, that command runs with the remainder
// of the line as its argument; otherwise the group's default action runs
// with everything after the group token. The argument is handed to the
// handler as a single opaque string.
func (sh *shellSession) handleLine(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return "", false
	}

	fields := strings.Fields(trimmed)
	switch fields[0] {
	case "help":
		return sh.helpText(), false
	case "exit", "quit":
		return "", true
	}

	group := fields[0]
	desc, ok := sh.registry.Lookup(group, command.DefaultKey)
	if !ok {
		return unknownCommandText, false
	}

	arg := strings.TrimLeft(strings.TrimPrefix(trimmed, group), " \t")
	// DefaultKey is an internal name, never dispatched from user input.
	if len(fields) > 1 && fields[1] != command.DefaultKey {
		if sub, ok := sh.registry.Lookup(group, fields[1]); ok {
			desc = sub
			arg = strings.TrimLeft(strings.TrimPrefix(arg, fields[1]), " \t")
		}
	}

	if !desc.Runnable() {
		// The group exists but has no default action; a bare group name
		// is an unknown command, not an invoker call.
		return unknownCommandText, false
	}

	out, err := sh.invoker.Invoke(desc, arg)
	if err != nil {
		// Only the termination signal crosses the invoker boundary.
		sh.logger.Debug("session termination requested", "group", desc.Group, "command", desc.Name)
		return "", true
	}
	return out, false
}

// helpText lists all groups with their commands in sorted order.
func (sh *shellSession) helpText() string {
	var b strings.Builder
	b.WriteString(helpHeaderStyle.Render("Supported commands:"))
	b.WriteString("\n")

	for _, group := range sh.registry.Groups() {
		fmt.Fprintf(&b, "  %s  %s\n", groupNameStyle.Render(group), sh.registry.GroupDescription(group))
		for _, name := range sh.registry.CommandNames(group) {
			if name == command.DefaultKey {
				continue
			}
			d, _ := sh.registry.Lookup(group, name)
			fmt.Fprintf(&b, "      %s %s  %s\n", group, name, d.Description)
		}
	}

	b.WriteString("  " + groupNameStyle.Render("help") + "  show this listing\n")
	b.WriteString("  " + groupNameStyle.Render("exit") + "  end the session")
	return b.String()
}

// complete implements tab completion over group names and, once a group is
// typed, its command names.
func (sh *shellSession) complete(line string, pos int, key rune) (string, int, bool) {
	if key != '\t' || pos != len(line) {
		return line, pos, false
	}

	fields := strings.Fields(line)
	endsWithSpace := strings.HasSuffix(line, " ")

	var candidates []string
	var partial, prefix string

	switch {
	case len(fields) == 0:
		return line, pos, false
	case len(fields) == 1 && !endsWithSpace:
		partial = fields[0]
		candidates = append(sh.registry.Groups(), "help", "exit")
	case len(fields) == 1 && endsWithSpace:
		prefix = line
		candidates = sh.commandCandidates(fields[0])
	case len(fields) == 2 && !endsWithSpace:
		partial = fields[1]
		prefix = line[:len(line)-len(partial)]
		candidates = sh.commandCandidates(fields[0])
	default:
		return line, pos, false
	}

	if prefix == "" && partial != "" {
		prefix = line[:len(line)-len(partial)]
	}

	var matches []string
	for _, c := range candidates {
		if strings.HasPrefix(c, partial) {
			matches = append(matches, c)
		}
	}
	if len(matches) != 1 {
		return line, pos, false
	}

	completed := prefix + matches[0] + " "
	return completed, len(completed), true
}

// commandCandidates returns the user-typable command names of a group.
func (sh *shellSession) commandCandidates(group string) []string {
	var names []string
	for _, name := range sh.registry.CommandNames(group) {
		if name != command.DefaultKey {
			names = append(names, name)
		}
	}
	return names
}
