package main

import (
	"fmt"
	"net/http"

	"github.com/urfave/cli/v2"

	"github.com/georgemunganga/storefront-backend/internal/apiclient"
	"github.com/georgemunganga/storefront-backend/internal/modules/auth"
	"github.com/georgemunganga/storefront-backend/internal/modules/user"
)

func registerCommand() *cli.Command {
	return &cli.Command{
		Name:  "register",
		Usage: "create an account and log in",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "company", Required: true},
			&cli.StringFlag{Name: "contact", Required: true},
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"STOREFRONT_PASSWORD"}},
			&cli.StringFlag{Name: "tax-id", Required: true},
			&cli.StringFlag{Name: "phone", Required: true},
			&cli.StringFlag{Name: "type", Usage: "wholesaler or retailer", Value: "retailer"},
		},
		Action: action(func(c *cli.Context, e *env) error {
			sess, err := e.client.Register(c.Context, user.RegisterRequest{
				CompanyName: c.String("company"),
				ContactName: c.String("contact"),
				Email:       c.String("email"),
				Password:    c.String("password"),
				TaxID:       c.String("tax-id"),
				Phone:       c.String("phone"),
				UserType:    c.String("type"),
			})
			if err != nil {
				return err
			}
			return startSession(c, e, sess)
		}),
	}
}

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "log in and remember the session",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"STOREFRONT_PASSWORD"}},
		},
		Action: action(func(c *cli.Context, e *env) error {
			sess, err := e.client.Login(c.Context, c.String("email"), c.String("password"))
			if err != nil {
				return err
			}
			return startSession(c, e, sess)
		}),
	}
}

func startSession(c *cli.Context, e *env, sess *auth.Session) error {
	if err := e.store.SetSession(sess.Token, sess.User); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "logged in as %s (%s)\n", sess.User.Email, sess.User.Role)
	return nil
}

func logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "forget the session; the cart is kept",
		Action: action(func(c *cli.Context, e *env) error {
			if err := e.store.ClearSession(); err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, "logged out")
			return nil
		}),
	}
}

func whoamiCommand() *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "show the logged in account",
		Action: action(func(c *cli.Context, e *env) error {
			if _, err := e.requireSession(); err != nil {
				return err
			}
			u, err := e.client.Me(c.Context)
			if apiclient.StatusOf(err) == http.StatusUnauthorized {
				_ = e.store.ClearSession()
				return fmt.Errorf("session expired; log in again")
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "%s <%s>\n%s, %s\n", u.ContactName, u.Email, u.CompanyName, u.Role)
			return nil
		}),
	}
}
