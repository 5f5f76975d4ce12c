package main

import (
	"errors"
	"flag"
	"fmt"

	"github.com/talunzi/gradechain/core/user"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	usrSvc  *user.Service
	account string // signing account
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  assignrole -account ACCOUNT -role ROLE - assign a ledger role (admin|teacher|student|grade_manager)")
	fmt.Println("  removeuser -account ACCOUNT            - remove a user's role and profile from the ledger")
	fmt.Println("  listusers                              - list every account the ledger knows")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	assignRoleCmd := flag.NewFlagSet("assignrole", flag.ExitOnError)
	assignRoleAccount := assignRoleCmd.String("account", "", "The target account's 0x address.")
	assignRoleRole := assignRoleCmd.String("role", "", "The role to assign.")

	removeUserCmd := flag.NewFlagSet("removeuser", flag.ExitOnError)
	removeUserAccount := removeUserCmd.String("account", "", "The target account's 0x address.")

	switch args[1] {
	case "assignrole":
		if err := assignRoleCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *assignRoleAccount == "" || *assignRoleRole == "" {
			assignRoleCmd.Usage()
			return errHelp
		}
		return cli.assignRole(*assignRoleAccount, *assignRoleRole)
	case "removeuser":
		if err := removeUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *removeUserAccount == "" {
			removeUserCmd.Usage()
			return errHelp
		}
		return cli.removeUser(*removeUserAccount)
	case "listusers":
		return cli.listUsers()
	default:
		cli.printUsage()
		return errHelp
	}
}
