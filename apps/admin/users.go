package main

import (
	"context"
	"fmt"

	"github.com/talunzi/gradechain/core/session"
	"github.com/talunzi/gradechain/ledger"
)

func (cli *commandLine) ctx() context.Context {
	return ledger.WithCaller(context.Background(), cli.account)
}

func (cli *commandLine) assignRole(account, roleName string) error {
	role := session.ParseRoleName(roleName)
	if !role.Known() {
		return fmt.Errorf("unknown role %q", roleName)
	}
	if err := cli.usrSvc.AssignRole(cli.ctx(), account, role); err != nil {
		return err
	}
	fmt.Printf("assigned %s to %s\n", role, account)
	return nil
}

func (cli *commandLine) removeUser(account string) error {
	if err := cli.usrSvc.RemoveUser(cli.ctx(), account); err != nil {
		return err
	}
	fmt.Printf("removed %s\n", account)
	return nil
}

func (cli *commandLine) listUsers() error {
	users, err := cli.usrSvc.QueryAll(cli.ctx())
	if err != nil {
		return err
	}
	fmt.Printf("%-44s %-14s %-12s %s\n", "ACCOUNT", "ROLE", "STUDENT ID", "NAME")
	for _, usr := range users {
		fmt.Printf("%-44s %-14s %-12s %s\n", usr.Account, usr.Role, usr.Profile.StudentID, usr.Profile.Name)
	}
	return nil
}
