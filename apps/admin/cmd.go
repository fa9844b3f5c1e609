package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"golang.org/x/term"

	"github.com/trezcool/campweek/core/camp"
)

var (
	isTerminalFunc = term.IsTerminal // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	migrator   *migrator
	campSvc    *camp.Service
	validate   *validator.Validate
	translator ut.Translator
	out        io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate up|up-by-one|up-to VERSION|down|down-to VERSION|redo - run database migrations")
	fmt.Fprintln(cli.out, "  addcamp -title TITLE -org ORG -location LOCATION -price PRICE [-category CATEGORY] [-weeks 2,3] [-label LABEL] [-days TEXT] [-url URL] - add a custom camp")
	fmt.Fprintln(cli.out, "  deletecamp -id ID - delete a camp")
	fmt.Fprintln(cli.out, "  listcamps [-category CATEGORY] - list the catalog")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addCampCmd := flag.NewFlagSet("addcamp", flag.ContinueOnError)
	addCampCmd.SetOutput(cli.out)
	addCampTitle := addCampCmd.String("title", "", "The camp title.")
	addCampOrg := addCampCmd.String("org", "", "The organizer.")
	addCampLocation := addCampCmd.String("location", "", "The location.")
	addCampPrice := addCampCmd.Int("price", -1, "The price, in dollars.")
	addCampCategory := addCampCmd.String("category", string(camp.CategoryGeneral), "Sport|Horse|Dance|Music|General")
	addCampWeeks := addCampCmd.String("weeks", "2", "Comma separated weeks the camp is available in (2, 3).")
	addCampLabel := addCampCmd.String("label", "", "The price label. Defaults to $PRICE.")
	addCampDays := addCampCmd.String("days", "", "The days text.")
	addCampURL := addCampCmd.String("url", "", "The camp's web page.")

	deleteCampCmd := flag.NewFlagSet("deletecamp", flag.ContinueOnError)
	deleteCampCmd.SetOutput(cli.out)
	deleteCampID := deleteCampCmd.String("id", "", "The camp ID.")

	listCampsCmd := flag.NewFlagSet("listcamps", flag.ContinueOnError)
	listCampsCmd.SetOutput(cli.out)
	listCampsCategory := listCampsCmd.String("category", string(camp.CategoryAll), "All|Sport|Horse|Dance|Music|General")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrator.run(args[2], args[3:]...)

	case "addcamp":
		if err := addCampCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *addCampTitle == "" {
			addCampCmd.Usage()
			return errHelp
		}
		weeks, err := parseWeeks(*addCampWeeks)
		if err != nil {
			return err
		}
		nc := camp.NewCamp{
			Title:      *addCampTitle,
			Org:        *addCampOrg,
			Location:   *addCampLocation,
			PriceLabel: *addCampLabel,
			Category:   camp.Category(*addCampCategory),
			DaysText:   *addCampDays,
			Weeks:      weeks,
			URL:        *addCampURL,
		}
		if *addCampPrice >= 0 {
			nc.Price = addCampPrice
		}
		return cli.addCamp(nc)

	case "deletecamp":
		if err := deleteCampCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *deleteCampID == "" {
			deleteCampCmd.Usage()
			return errHelp
		}
		return cli.deleteCamp(*deleteCampID)

	case "listcamps":
		if err := listCampsCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		return cli.listCamps(camp.Category(*listCampsCategory), isTerminalFunc(int(os.Stdout.Fd())))

	default:
		cli.printUsage()
		return errHelp
	}
}
