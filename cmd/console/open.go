package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/raunak-choudhary/portfolio-admin/internal/console"
	"github.com/raunak-choudhary/portfolio-admin/internal/schema"
	"github.com/raunak-choudhary/portfolio-admin/internal/store"
	"github.com/raunak-choudhary/portfolio-admin/pkg/query"
)

func runOpen(cmd *cobra.Command, args []string) error {
	collection, ok := schema.Lookup(args[0])
	if !ok {
		return fmt.Errorf("unknown collection %q (see 'console collections')", args[0])
	}

	in := bufio.NewReader(os.Stdin)

	session := console.NewSession(
		collection,
		app.records,
		app.objects,
		app.signals,
		terminalConfirmer{in: in},
		app.logger,
		console.Timings{
			SuccessTTL:        app.config.Console.SuccessTTLDuration(),
			ErrorTTL:          app.config.Console.ErrorTTLDuration(),
			ReturnToListDelay: app.config.Console.ReturnToListDelayDuration(),
		},
	)
	defer session.Close()

	ctx := cmd.Context()
	if err := session.Refresh(ctx); err != nil {
		color.Yellow("initial load failed: %v", err)
	}

	color.Cyan("%s session. Type 'help' for commands, 'quit' to leave.", collection.Title)
	printRecords(session)

	for {
		fmt.Printf("%s%s> ", collection.Name, modeSuffix(session))

		line, err := in.ReadString('\n')
		if err != nil {
			return nil
		}
		name, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
		rest = strings.TrimSpace(rest)
		if name == "" {
			continue
		}
		if name == "quit" || name == "exit" {
			if session.Dirty() && !(terminalConfirmer{in: in}).Confirm("Discard unsaved changes?") {
				continue
			}
			return nil
		}

		if err := dispatch(cmd, session, in, name, rest); err != nil {
			color.Red("%v", err)
		}
		printStatus(session)
	}
}

func dispatch(cmd *cobra.Command, session *console.Session, in *bufio.Reader, name, rest string) error {
	ctx := cmd.Context()

	switch name {
	case "help":
		printHelp(session.Collection())

	case "ls", "list":
		if err := session.Refresh(ctx); err != nil {
			return err
		}
		printRecords(session)

	case "search":
		q := session.Query()
		q.Search = rest
		if err := session.SetQuery(ctx, q); err != nil {
			return err
		}
		printRecords(session)

	case "status":
		q := session.Query()
		if rest == "all" || rest == "" {
			q.Status = nil
		} else {
			s := store.Status(rest)
			if !s.Validate() {
				return fmt.Errorf("status must be active, draft, archived, or all")
			}
			q.Status = &s
		}
		if err := session.SetQuery(ctx, q); err != nil {
			return err
		}
		printRecords(session)

	case "sort":
		q := session.Query()
		q.Sort = query.ParseSortFields(rest)
		if err := session.SetQuery(ctx, q); err != nil {
			return err
		}
		printRecords(session)

	case "add":
		if !session.EnterAdd() {
			color.Yellow("kept current draft")
		}

	case "edit":
		rec, err := recordAt(session, rest)
		if err != nil {
			return err
		}
		if !session.EnterEdit(*rec) {
			color.Yellow("kept current draft")
		}

	case "cancel":
		if !session.Cancel() {
			color.Yellow("kept current draft")
		}

	case "show":
		printDraft(session)

	case "set":
		field, value, _ := strings.Cut(rest, " ")
		if field == "" {
			return fmt.Errorf("usage: set <field> <value>")
		}
		return session.SetField(field, strings.TrimSpace(value))

	case "additem":
		field, value, _ := strings.Cut(rest, " ")
		if field == "" {
			return fmt.Errorf("usage: additem <field> <value>")
		}
		added, err := session.AddItem(field, strings.TrimSpace(value))
		if err != nil {
			return err
		}
		if !added {
			if msg := session.FieldErrors()[field]; msg != "" {
				color.Yellow("%s: %s", field, msg)
			}
		}

	case "rmitem":
		field, idx, _ := strings.Cut(rest, " ")
		n, err := strconv.Atoi(strings.TrimSpace(idx))
		if field == "" || err != nil {
			return fmt.Errorf("usage: rmitem <field> <index>")
		}
		return session.RemoveItem(field, n)

	case "upload":
		field, path, _ := strings.Cut(rest, " ")
		path = strings.TrimSpace(path)
		if field == "" || path == "" {
			return fmt.Errorf("usage: upload <field> <path>")
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		err = session.UploadAttachment(ctx, field, filepath.Base(path), data, func(pct int) {
			fmt.Printf("\rupload %d%%", pct)
		})
		fmt.Println()
		if errors.Is(err, console.ErrAttachmentRejected) {
			return fmt.Errorf("%s: %s", field, session.FieldErrors()[field])
		}
		return err

	case "rmfile":
		field, url, _ := strings.Cut(rest, " ")
		url = strings.TrimSpace(url)
		if field == "" || url == "" {
			return fmt.Errorf("usage: rmfile <field> <url>")
		}
		return session.RemoveAttachment(ctx, field, url)

	case "save":
		err := session.Save(ctx)
		if errors.Is(err, console.ErrValidation) {
			printFieldErrors(session)
			return nil
		}
		return err

	case "rm":
		rec, err := recordAt(session, rest)
		if err != nil {
			return err
		}
		return session.DeleteRecord(ctx, rec.ID)

	case "sel":
		rec, err := recordAt(session, rest)
		if err != nil {
			return err
		}
		session.ToggleSelect(rec.ID)
		color.Cyan("%d selected", len(session.Selection()))

	case "selall":
		session.SelectAllVisible()
		color.Cyan("%d selected", len(session.Selection()))

	case "clearsel":
		session.ClearSelection()

	case "bulk":
		op, ok := console.ParseBulkOp(rest)
		if !ok {
			return fmt.Errorf("unknown bulk operation %q", rest)
		}
		return session.ApplyBulk(ctx, op)

	default:
		return fmt.Errorf("unknown command %q (try 'help')", name)
	}
	return nil
}

// recordAt resolves a 1-based listing index argument.
func recordAt(session *console.Session, arg string) (*store.Record, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return nil, fmt.Errorf("expected a listing number, got %q", arg)
	}
	records := session.Records()
	if n < 1 || n > len(records) {
		return nil, fmt.Errorf("no record %d in the current listing", n)
	}
	return &records[n-1], nil
}

func modeSuffix(session *console.Session) string {
	switch session.Mode() {
	case console.ModeAdd:
		return ":add"
	case console.ModeEdit:
		return ":edit"
	}
	return ""
}
