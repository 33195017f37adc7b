package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"skillswap/internal/models"
	"skillswap/internal/service"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// readPassword is swapped out in tests so no terminal is needed.
var readPassword = term.ReadPassword

type userActionFunc func(ctx context.Context, s *service.AdminService, id uint) error

func newUserActionCmd(app *cliApp, use, short, verb string, action userActionFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <user_id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseUserID(args[0])
			if err != nil {
				return err
			}
			if err := action(cmd.Context(), app.adminService(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "User %d %s\n", id, verb)
			return nil
		},
	}
}

func newListAdminsCmd(app *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:   "list-admins",
		Short: "List all admin accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			admins, err := app.adminService().ListAdmins(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(admins) == 0 {
				fmt.Fprintln(out, "No admins found")
				return nil
			}
			for _, admin := range admins {
				fmt.Fprintf(out, "ID: %d | Username: %s | Email: %s\n", admin.ID, admin.Username, admin.Email)
			}
			return nil
		},
	}
}

func newCreateAdminCmd(app *cliApp) *cobra.Command {
	var email, username, name, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Register a new account and grant it the admin role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				var err error
				password, err = promptPassword(cmd.InOrStdin(), cmd.ErrOrStderr())
				if err != nil {
					return err
				}
			}
			if name == "" {
				name = username
			}

			user, err := app.authService().Register(cmd.Context(), service.RegisterInput{
				Email:      email,
				Username:   username,
				Password:   password,
				Name:       name,
				Visibility: models.VisibilityPrivate,
			})
			if err != nil {
				return err
			}
			if _, err := app.adminService().Promote(cmd.Context(), user.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created admin %s (ID: %d)\n", user.Username, user.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin email address")
	cmd.Flags().StringVar(&username, "username", "", "admin username")
	cmd.Flags().StringVar(&name, "name", "", "display name (defaults to the username)")
	cmd.Flags().StringVar(&password, "password", "", "password; prompted for when omitted")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

// promptPassword reads a password without echo when stdin is a terminal and
// falls back to a plain line read otherwise.
func promptPassword(in io.Reader, prompt io.Writer) (string, error) {
	fmt.Fprint(prompt, "Password: ")
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		raw, err := readPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(raw), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("password is required")
	}
	return password, nil
}
