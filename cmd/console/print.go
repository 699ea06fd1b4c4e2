package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/raunak-choudhary/portfolio-admin/internal/console"
	"github.com/raunak-choudhary/portfolio-admin/internal/schema"
)

func printRecords(session *console.Session) {
	records := session.Records()
	if len(records) == 0 {
		fmt.Println("no records")
		return
	}

	collection := session.Collection()
	selected := map[string]bool{}
	for _, id := range session.Selection() {
		selected[id.String()] = true
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\t\tSTATUS\t"+strings.ToUpper(collection.SlugField)+"\tUPDATED")
	for i, rec := range records {
		mark := " "
		if selected[rec.ID.String()] {
			mark = "*"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			i+1,
			mark,
			rec.Status,
			rec.Fields.Scalar(collection.SlugField),
			rec.UpdatedAt.Format("2006-01-02 15:04"),
		)
	}
	w.Flush()
}

func printDraft(session *console.Session) {
	fields := session.DraftFields()
	if session.Mode() == console.ModeList {
		fmt.Println("no draft open")
		return
	}

	names := make([]string, 0, len(fields.Scalars))
	for name := range fields.Scalars {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range names {
		fmt.Fprintf(w, "%s\t%s\n", name, fields.Scalar(name))
	}
	for name, items := range fields.Lists {
		fmt.Fprintf(w, "%s\t%s\n", name, strings.Join(items, ", "))
	}
	w.Flush()

	if session.Dirty() {
		color.Yellow("unsaved changes")
	}
	printFieldErrors(session)
}

func printFieldErrors(session *console.Session) {
	errs := session.FieldErrors()
	if len(errs) == 0 {
		return
	}

	names := make([]string, 0, len(errs))
	for name := range errs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		color.Red("  %s: %s", name, errs[name])
	}
}

func printStatus(session *console.Session) {
	status := session.UIStatus()
	switch status.State {
	case console.StateSaving:
		color.Yellow("saving...")
	case console.StateSuccess:
		color.Green("%s", status.Message)
	case console.StateError:
		color.Red("%s", status.Message)
	}
}

func printHelp(collection *schema.Collection) {
	fmt.Print(`listing
  ls                      refresh and print the listing
  search <term>           filter the listing by free text
  status <value|all>      filter by publication status
  sort <expr>             order, e.g. 'sort -created_at,title'

editing
  add                     open a blank draft
  edit <n>                open record n for editing
  show                    print the draft, errors, and dirty state
  set <field> <value>     set a scalar field
  additem <field> <v>     append a list item
  rmitem <field> <i>      remove list item i (0-based)
  upload <field> <path>   upload an attachment
  rmfile <field> <url>    remove an attachment reference
  save                    validate and persist the draft
  cancel                  return to the listing
  rm <n>                  delete record n

`)
	if collection.Name == "messages" {
		fmt.Print(`selection
  sel <n>                 toggle record n in the selection
  selall                  select every listed record
  clearsel                clear the selection
  bulk <op>               apply markRead, markUnread, star, unstar,
                          archive, unarchive, markSpam, unmarkSpam,
                          or delete to the selection

`)
	}
	fmt.Println("quit")
}
