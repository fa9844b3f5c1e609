package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/campweek/apps"
	"github.com/trezcool/campweek/core"
	"github.com/trezcool/campweek/core/camp"
)

// titles at least this similar to an existing one trigger a warning
const similarTitleRatio = 0.75

func parseWeeks(s string) ([]camp.WeekID, error) {
	weeks := make([]camp.WeekID, 0, 2)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, apps.NewArgumentError(fmt.Sprintf("week must be a number (got '%s')", part))
		}
		weeks = append(weeks, camp.WeekID(n))
	}
	return weeks, nil
}

// similarTitles returns the existing titles close to title, most similar first.
func similarTitles(title string, camps []camp.Camp) []string {
	type match struct {
		title string
		ratio float64
	}
	var matches []match
	a := strings.Split(strings.ToLower(title), "")
	for _, c := range camps {
		sm := difflib.NewMatcher(a, strings.Split(strings.ToLower(c.Title), ""))
		if r := sm.Ratio(); r >= similarTitleRatio {
			matches = append(matches, match{title: c.Title, ratio: r})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].ratio > matches[j].ratio })

	titles := make([]string, 0, len(matches))
	for _, m := range matches {
		titles = append(titles, m.title)
	}
	return titles
}

func (cli *commandLine) addCamp(nc camp.NewCamp) error {
	ctx := context.Background()
	if err := nc.Validate(cli.validate); err != nil {
		if vErrs, ok := errors.Cause(err).(validator.ValidationErrors); ok {
			for fld, msg := range core.TranslateValidationErrors(vErrs, cli.translator) {
				fmt.Fprintf(cli.out, "  %s: %s\n", fld, msg)
			}
		}
		return err
	}

	existing, err := cli.campSvc.QueryAll(ctx)
	if err != nil {
		return errors.Wrap(err, "querying camps")
	}
	for _, title := range similarTitles(nc.Title, existing) {
		fmt.Fprintf(cli.out, "warning: %q looks like existing camp %q\n", nc.Title, title)
	}

	c, err := cli.campSvc.Create(ctx, nc)
	if err != nil {
		return errors.Wrap(err, "creating camp")
	}
	fmt.Fprintf(cli.out, "camp %s created\n", c.ID)
	return nil
}

func (cli *commandLine) deleteCamp(id string) error {
	if err := cli.campSvc.Delete(context.Background(), id); err != nil {
		return errors.Wrap(err, "deleting camp")
	}
	fmt.Fprintf(cli.out, "camp %s deleted\n", id)
	return nil
}

// listCamps prints a table on a terminal and one JSON object per line otherwise.
func (cli *commandLine) listCamps(category camp.Category, tty bool) error {
	camps, err := cli.campSvc.Filter(context.Background(), category)
	if err != nil {
		return errors.Wrap(err, "querying camps")
	}

	if !tty {
		enc := json.NewEncoder(cli.out)
		for _, c := range camps {
			if err = enc.Encode(c); err != nil {
				return errors.Wrap(err, "encoding camp")
			}
		}
		return nil
	}

	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tCATEGORY\tPRICE\tWEEKS\tDURATION")
	for _, c := range camps {
		weeks := make([]string, 0, len(c.AvailableWeeks))
		for _, wk := range c.AvailableWeeks {
			weeks = append(weeks, strconv.Itoa(int(wk)))
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			c.ID, c.Title, c.Category, camp.FormatPrice(c.Price), strings.Join(weeks, ","), camp.DurationTag(c).Label())
	}
	return w.Flush()
}
