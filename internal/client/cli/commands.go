package cli

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/groupfinal/accounts/internal/api"
)

func newPingCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the server is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := app.withTimeout(cmd.Context())
			defer cancel()

			if err := app.client.Ping(ctx); err != nil {
				return err
			}
			fmt.Fprintln(app.out, "OK")
			return nil
		},
	}
}

func newLoginCmd(app *App) *cobra.Command {
	var password string

	c := &cobra.Command{
		Use:   "login [username]",
		Short: "Log in and remember the session",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				username string
				err      error
			)
			if len(args) == 1 {
				username = args[0]
			} else if username, err = GetSimpleText(app.in, "Username", app.out); err != nil {
				return err
			}
			if password == "" {
				if password, err = GetPassword(app.out, "Password"); err != nil {
					return err
				}
			}

			ctx, cancel := app.withTimeout(cmd.Context())
			defer cancel()

			resp, err := app.client.Login(ctx, username, password)
			if err != nil {
				return err
			}
			if err := app.session.SaveLogin(cmd.Context(), username, resp.AccessToken, resp.RefreshToken); err != nil {
				return err
			}

			fmt.Fprintf(app.out, "Logged in as %s (id %d, %s)\n", resp.Account.Username, resp.Account.ID, resp.Account.Status)
			return nil
		},
	}
	c.Flags().StringVarP(&password, "password", "p", "", "password (prompted when empty)")
	return c
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.session.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(app.out, "Logged out")
			return nil
		},
	}
}

func newListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every account, active or not",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := app.withTimeout(cmd.Context())
			defer cancel()

			accounts, err := app.client.ListAccounts(ctx)
			if err != nil {
				return err
			}
			renderAccounts(app, accounts)
			return nil
		},
	}
}

func renderAccounts(app *App, accounts []*api.AccountSummary) {
	table := tablewriter.NewWriter(app.out)
	table.SetHeader([]string{"ID", "First name", "Last name", "Email", "Phone", "Active", "Status"})
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)

	for _, a := range accounts {
		table.Append([]string{
			strconv.FormatInt(a.ID, 10),
			a.Profile.FirstName,
			a.Profile.LastName,
			a.Profile.Email,
			a.Profile.Phone,
			strconv.FormatBool(a.Active),
			a.Status,
		})
	}
	table.Render()
}

func newCreateCmd(app *App) *cobra.Command {
	var req api.CreateAccountRequest

	c := &cobra.Command{
		Use:   "create",
		Short: "Create an account (admins only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if req.Credentials.Password == "" {
				pw, err := GetPassword(app.out, "Password for "+req.Credentials.Username)
				if err != nil {
					return err
				}
				req.Credentials.Password = pw
			}

			ctx, cancel := app.withTimeout(cmd.Context())
			defer cancel()

			account, err := app.client.CreateAccount(ctx, &req)
			if err != nil {
				return err
			}

			fmt.Fprintf(app.out, "Created account %s (id %d, admin=%t, %s)\n", account.Username, account.ID, account.IsAdmin, account.Status)
			return nil
		},
	}

	f := c.Flags()
	f.StringVarP(&req.Credentials.Username, "username", "u", "", "username of the new account")
	f.StringVarP(&req.Credentials.Password, "password", "p", "", "password (prompted when empty)")
	f.StringVar(&req.Profile.FirstName, "first-name", "", "first name")
	f.StringVar(&req.Profile.LastName, "last-name", "", "last name")
	f.StringVar(&req.Profile.Email, "email", "", "email")
	f.StringVar(&req.Profile.Phone, "phone", "", "phone")
	f.BoolVar(&req.IsAdmin, "admin", false, "grant admin rights")
	_ = c.MarkFlagRequired("username")
	return c
}
