package main

import (
	"net/http"

	"github.com/spf13/cobra"

	"github.com/abdullahilyas48/ConvoHub/internal/stub"
)

func stubCmd(a **app) *cobra.Command {
	var addr string
	var rooms int
	cmd := &cobra.Command{
		Use:   "stub",
		Short: "run an in-memory ConvoHub server for offline use",
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := stub.New((*a).log)
			srv.Seed(rooms)
			srv.Register("demo", "demo@example.com", "demo-pass-123")
			(*a).log.WithField("addr", addr).Info("stub server listening (account demo / demo-pass-123)")
			return http.ListenAndServe(addr, srv.Router())
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8000", "listen address")
	cmd.Flags().IntVar(&rooms, "rooms", 5, "number of seeded rooms")
	return cmd
}
