package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/themizzi/saucecheck/internal/locator"
)

// PrintLocators writes the registry as a table. An empty page prints every page.
func PrintLocators(w io.Writer, page string) error {
	names := locator.Pages()
	if page != "" {
		if _, err := locator.PageByName(page); err != nil {
			return err
		}
		names = []string{page}
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PAGE\tELEMENT\tSTRATEGY\tSELECTOR")
	for _, name := range names {
		p, err := locator.PageByName(name)
		if err != nil {
			return err
		}
		if err := writePage(tw, name, p); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func writePage(w io.Writer, label string, p locator.Page) error {
	for _, element := range p.Elements() {
		entry, err := p.Entry(element)
		if err != nil {
			return err
		}
		for _, by := range entry.Strategies() {
			loc, err := entry.Locator(by)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", label, element, by, loc.Selector)
		}
	}
	for _, group := range p.Groups() {
		sub, err := p.Group(group)
		if err != nil {
			return err
		}
		if err := writePage(w, label+"."+group, sub); err != nil {
			return err
		}
	}
	return nil
}
