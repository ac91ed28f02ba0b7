package main

import (
	"fmt"

	"github.com/go-logr/logr/funcr"
	"github.com/urfave/cli/v2"

	"github.com/georgemunganga/storefront-backend/internal/access"
	"github.com/georgemunganga/storefront-backend/internal/apiclient"
	"github.com/georgemunganga/storefront-backend/internal/clientstate"
)

// env is what every command works with: the persisted local state and an
// API client carrying the session token.
type env struct {
	store  *clientstate.Store
	client *apiclient.Client
}

func loadEnv(c *cli.Context) (*env, error) {
	persister, err := clientstate.NewFilePersister(c.String("state-dir"))
	if err != nil {
		return nil, err
	}
	log := funcr.New(func(_, args string) {
		fmt.Fprintln(c.App.ErrWriter, "warning:", args)
	}, funcr.Options{})
	store, err := clientstate.Load(persister, log)
	if err != nil {
		return nil, fmt.Errorf("load local state: %w", err)
	}
	client, err := apiclient.New(c.String("api"))
	if err != nil {
		return nil, err
	}
	if sess, ok := store.Session(); ok {
		client.SetToken(sess.Token)
	}
	return &env{store: store, client: client}, nil
}

// action wraps a command body that needs the environment.
func action(fn func(c *cli.Context, e *env) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		e, err := loadEnv(c)
		if err != nil {
			return err
		}
		return fn(c, e)
	}
}

func (e *env) requireSession() (clientstate.Session, error) {
	sess, ok := e.store.Session()
	if !ok {
		return clientstate.Session{}, fmt.Errorf("not logged in; run `storefront login` first")
	}
	return sess, nil
}

// require checks the capability locally before calling a gated endpoint.
// The API enforces the same table.
func (e *env) require(capability access.Capability) error {
	sess, err := e.requireSession()
	if err != nil {
		return err
	}
	if !access.Allowed(sess.User.Role, capability) {
		return fmt.Errorf("%s accounts cannot do that", sess.User.Role)
	}
	return nil
}

func (e *env) role() access.Role {
	if sess, ok := e.store.Session(); ok {
		return sess.User.Role
	}
	return access.RoleRetailer
}
