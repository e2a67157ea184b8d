// Command convohub is the terminal client for the ConvoHub campus chat
// platform.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/abdullahilyas48/ConvoHub/internal/api"
	"github.com/abdullahilyas48/ConvoHub/internal/config"
	"github.com/abdullahilyas48/ConvoHub/internal/store"
	"github.com/abdullahilyas48/ConvoHub/internal/utils"
)

// app bundles what every command needs: config, logger and the local
// state store. Built once in the root PersistentPreRunE.
type app struct {
	cfg *config.Config
	log *logrus.Logger
	st  *store.Store
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log := logrus.New()
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	st, err := store.Open(cfg.StatePath)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, log: log, st: st}, nil
}

// anonClient is for the auth endpoints that need no token.
func (a *app) anonClient() *api.Client {
	return api.New(a.cfg.APIURL, "", a.log)
}

// authedClient requires a live saved token.
func (a *app) authedClient() (*api.Client, error) {
	token, ok, err := a.st.Token()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("not logged in, run `convohub login` first")
	}
	if utils.TokenExpired(token, time.Now()) {
		return nil, fmt.Errorf("session expired, run `convohub login` again")
	}
	return api.New(a.cfg.APIURL, token, a.log), nil
}

func main() {
	var a *app

	root := &cobra.Command{
		Use:           "convohub",
		Short:         "campus chat and professor reviews from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			a, err = newApp()
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a != nil && a.st != nil {
				_ = a.st.Close()
			}
		},
	}

	root.AddCommand(
		loginCmd(&a),
		signupCmd(&a),
		logoutCmd(&a),
		profileCmd(&a),
		roomsCmd(&a),
		recentCmd(&a),
		joinCmd(&a),
		chatCmd(&a),
		reviewCmd(&a),
		stubCmd(&a),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
