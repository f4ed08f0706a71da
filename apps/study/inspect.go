package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/revisioncam/core"
	"github.com/trezcool/revisioncam/core/roles"
	"github.com/trezcool/revisioncam/core/table"
)

// inspect prints how a file would be read by both study modes.
func (cli *commandLine) inspect(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "opening %q", path)
	}
	defer f.Close()

	name := core.CleanFileName(path)
	tbl, err := table.Import(context.Background(), name, f, cli.conf.Import.MaxFileSize)
	if err != nil {
		return err
	}

	fmt.Fprintf(cli.out, "file: %s\n", name)
	if len(tbl.Headers) == 0 {
		fmt.Fprintln(cli.out, "the file is empty")
		return nil
	}
	fmt.Fprintf(cli.out, "delimiter: %s\n", table.DelimiterName(tbl.Delimiter))
	fmt.Fprintf(cli.out, "headers: %s\n", strings.Join(tbl.Headers, ", "))
	fmt.Fprintf(cli.out, "rows: %d\n", len(tbl.Records))

	cr := roles.ResolveCardRoles(tbl.Headers)
	fmt.Fprintf(cli.out, "cards: reference=%s title=%s description=%s\n", cr.Reference, cr.Title, cr.Description)
	for _, h := range roles.CardHints(tbl.Headers) {
		fmt.Fprintf(cli.out, "  hint: %s\n", h)
	}

	qr := roles.ResolveQuizRoles(tbl.Headers)
	fmt.Fprintf(cli.out, "qcm: reference=%s question=%s correct=%s why=%s choices=%s\n",
		qr.Reference, qr.Question, orNone(qr.Correct), orNone(qr.Why), orNone(strings.Join(qr.Choices, ", ")))
	for _, h := range roles.QuizHints(tbl.Headers) {
		fmt.Fprintf(cli.out, "  hint: %s\n", h)
	}
	return nil
}

func orNone(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
