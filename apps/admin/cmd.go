package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/term"

	"github.com/madrasahbd/natija/core"
	"github.com/madrasahbd/natija/core/result"
)

var (
	isTerminalFunc = term.IsTerminal // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf      *core.Config
	db        *sql.DB
	resultSvc result.Service
	validate  *validator.Validate
	out       io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS...] - run a goose migration command, eg. up, down, status")
	fmt.Fprintln(cli.out, "  token -username USERNAME -role ROLE[,ROLE...] [-subject ID] - issue an API token")
	fmt.Fprintln(cli.out, "  meritlist -class ID -exam ID [-tiebreak none|roll|name] [-lang bn|en] [-json] - print an exam's merit list")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	tokenCmd := flag.NewFlagSet("token", flag.ContinueOnError)
	tokenCmd.SetOutput(cli.out)
	tokenUname := tokenCmd.String("username", "", "The token holder's username.")
	tokenRoles := tokenCmd.String("role", "", "Comma separated roles, eg. teacher:")
	tokenSubject := tokenCmd.String("subject", "", "The token subject. Defaults to the username.")

	meritCmd := flag.NewFlagSet("meritlist", flag.ContinueOnError)
	meritCmd.SetOutput(cli.out)
	meritClass := meritCmd.Int("class", 0, "The class ID.")
	meritExam := meritCmd.Int("exam", 0, "The exam ID.")
	meritTieBreak := meritCmd.String("tiebreak", "", "How students with equal totals are ordered: none, roll or name.")
	meritLang := meritCmd.String("lang", "", "Display language: bn or en.")
	meritJSON := meritCmd.Bool("json", false, "Print JSON even on a terminal.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "token":
		if err := tokenCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *tokenUname == "" || *tokenRoles == "" {
			tokenCmd.Usage()
			return errHelp
		}
		return cli.token(*tokenSubject, *tokenUname, strings.Split(*tokenRoles, ","))
	case "meritlist":
		if err := meritCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *meritClass < 1 || *meritExam < 1 {
			meritCmd.Usage()
			return errHelp
		}
		asJSON := *meritJSON || !isTerminalFunc(int(os.Stdout.Fd()))
		return cli.meritList(*meritClass, *meritExam, *meritTieBreak, *meritLang, asJSON)
	default:
		cli.printUsage()
		return errHelp
	}
}
