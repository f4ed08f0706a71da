package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/pkg/errors"
	"golang.org/x/term"

	"github.com/trezcool/revisioncam/core"
	"github.com/trezcool/revisioncam/core/auth"
	"github.com/trezcool/revisioncam/core/qcm"
	"github.com/trezcool/revisioncam/core/study"
	"github.com/trezcool/revisioncam/storage/inmem"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp        = errors.New("help provided")
	errLoginFailed = errors.New("login failed")
)

type commandLine struct {
	conf  *core.Config
	in    io.Reader
	out   io.Writer
	clock auth.Clock
	src   qcm.Source

	sessions *auth.Manager
	svc      *study.Service
	session  auth.Session
	input    *bufio.Scanner
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  cards FILE - review the flashcards of a CSV file")
	fmt.Fprintln(cli.out, "  qcm FILE - take the multiple-choice quiz of a CSV file")
	fmt.Fprintln(cli.out, "  inspect FILE - show how a CSV file is read")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 3 {
		cli.printUsage()
		return errHelp
	}
	file := args[2]

	switch args[1] {
	case "inspect":
		return cli.inspect(file)
	case "cards":
		if err := cli.start(); err != nil {
			return err
		}
		return cli.cards(file)
	case "qcm":
		if err := cli.start(); err != nil {
			return err
		}
		return cli.quiz(file)
	default:
		cli.printUsage()
		return errHelp
	}
}

// start logs the user in and opens their workspace.
// The password is only asked when a password hash is configured.
func (cli *commandLine) start() error {
	creds := auth.NewCredentialPolicy(cli.conf.Auth.Username, cli.conf.Auth.PasswordHash)
	var policy auth.Policy = creds
	var pwd string
	if creds.Enabled() {
		fmt.Fprintf(cli.out, "Password for %s:", cli.conf.Auth.Username)
		b, err := readPasswordFunc(int(syscall.Stdin))
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		pwd = string(b)
	} else {
		username := cli.conf.Auth.Username
		policy = auth.PolicyFunc(func(string, string) (auth.Principal, error) {
			return auth.Principal{Username: username}, nil
		})
	}

	cli.sessions = auth.NewManager(policy, cli.clock, cli.conf.Auth.SessionDuration)
	sess, err := cli.sessions.Login(cli.conf.Auth.Username, pwd)
	if err != nil {
		if err == auth.ErrInvalidCredentials {
			return errLoginFailed
		}
		return err
	}
	cli.session = sess

	cli.svc = study.NewService(
		inmem.NewWorkspaceRepository(inmem.Open()),
		study.Options{LivePreview: cli.conf.Import.LivePreview, MaxFileSize: cli.conf.Import.MaxFileSize, Source: cli.src},
		cli.clock,
	)
	cli.input = bufio.NewScanner(cli.in)
	return cli.svc.Open(sess)
}

// do runs fn on the workspace while the session is alive, extending it.
func (cli *commandLine) do(fn func(ws *study.Workspace) error) error {
	sess, err := cli.sessions.Extend(cli.session)
	if err != nil {
		fmt.Fprintln(cli.out, "Session expired. Start again to log in.")
		return err
	}
	cli.session = sess
	return cli.svc.Do(sess, fn)
}

// next reads the next command; ok is false at the end of the input or on "q".
func (cli *commandLine) next() (fields []string, ok bool) {
	fmt.Fprint(cli.out, "> ")
	if !cli.input.Scan() {
		fmt.Fprintln(cli.out)
		return nil, false
	}
	fields = strings.Fields(strings.ToLower(cli.input.Text()))
	if len(fields) > 0 && (fields[0] == "q" || fields[0] == "quit") {
		return nil, false
	}
	return fields, true
}

func (cli *commandLine) importFile(path string, imp func(name string, r io.Reader) (study.Status, error)) error {
	f, err := os.Open(path)
	if err != nil {
		// reported like any unreadable upload
		st, _ := imp(path, failingReader{err})
		printStatus(cli.out, st)
		return errors.Wrapf(err, "opening %q", path)
	}
	defer f.Close()

	st, err := imp(path, f)
	printStatus(cli.out, st)
	return err
}

type failingReader struct{ err error }

func (r failingReader) Read([]byte) (int, error) { return 0, r.err }

func (cli *commandLine) cards(path string) error {
	err := cli.do(func(ws *study.Workspace) error {
		err := cli.importFile(path, func(name string, r io.Reader) (study.Status, error) {
			return ws.Cards.Import(context.Background(), name, r)
		})
		if err == nil && !ws.Cards.LivePreview() {
			printStatus(cli.out, ws.Cards.Render())
		}
		if err == nil {
			printCards(cli.out, ws.Cards.View())
		}
		return err
	})
	if err != nil {
		return err
	}

	for {
		fields, ok := cli.next()
		if !ok {
			return nil
		}
		if len(fields) == 0 {
			continue
		}

		err = cli.do(func(ws *study.Workspace) error {
			switch fields[0] {
			case "n", "next":
				ws.Cards.Next()
			case "p", "previous":
				ws.Cards.Previous()
			case "f", "flip":
				ws.Cards.Flip()
			case "g", "goto":
				n, err := argIndex(fields)
				if err != nil {
					fmt.Fprintln(cli.out, err)
					return nil
				}
				ws.Cards.GoTo(n)
			default:
				printCardsHelp(cli.out)
				return nil
			}
			printCards(cli.out, ws.Cards.View())
			return nil
		})
		if err != nil {
			return err
		}
	}
}

func (cli *commandLine) quiz(path string) error {
	err := cli.do(func(ws *study.Workspace) error {
		err := cli.importFile(path, func(name string, r io.Reader) (study.Status, error) {
			return ws.Quiz.Import(context.Background(), name, r)
		})
		if err == nil && !ws.Quiz.LivePreview() {
			printStatus(cli.out, ws.Quiz.Render())
		}
		if err == nil {
			printQuiz(cli.out, ws.Quiz.View())
		}
		return err
	})
	if err != nil {
		return err
	}

	for {
		fields, ok := cli.next()
		if !ok {
			return nil
		}
		if len(fields) == 0 {
			continue
		}

		err = cli.do(func(ws *study.Workspace) error {
			switch fields[0] {
			case "r", "reveal":
				printStatus(cli.out, ws.Quiz.Reveal())
			case "s", "shuffle":
				printStatus(cli.out, ws.Quiz.Render())
			default:
				qi, ci, err := parseAnswer(fields)
				if err != nil {
					printQuizHelp(cli.out)
					return nil
				}
				st, err := ws.Quiz.Select(qi, ci)
				switch err {
				case nil:
					printStatus(cli.out, st)
				case qcm.ErrOutOfRange:
					fmt.Fprintln(cli.out, "No such question or answer.")
					return nil
				case qcm.ErrNoChoices:
					fmt.Fprintln(cli.out, qcm.NoChoicesText)
					return nil
				default:
					return err
				}
			}
			printQuiz(cli.out, ws.Quiz.View())
			return nil
		})
		if err != nil {
			return err
		}
	}
}

// argIndex reads the 1-based card number of "g N".
func argIndex(fields []string) (int, error) {
	if len(fields) < 2 {
		return 0, errors.New("usage: g NUMBER")
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil || n < 1 {
		return 0, errors.New("usage: g NUMBER")
	}
	return n - 1, nil
}

// parseAnswer reads "QUESTION MARKER", e.g. "2 b", into 0-based indexes.
func parseAnswer(fields []string) (int, int, error) {
	if len(fields) != 2 || len(fields[1]) != 1 {
		return 0, 0, errHelp
	}
	q, err := strconv.Atoi(fields[0])
	if err != nil || q < 1 {
		return 0, 0, errHelp
	}
	c := int(fields[1][0]) - 'a'
	if c < 0 || c >= 26 {
		return 0, 0, errHelp
	}
	return q - 1, c, nil
}
