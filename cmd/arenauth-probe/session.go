package main

import (
	"github.com/spf13/cobra"
)

// newSessionCmd asks the backend who the current cookie belongs to. With a
// fresh cookie jar this normally reports anonymous; it mainly verifies the
// endpoint is reachable.
func newSessionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "session",
		Short: "Fetch the current backend session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := buildEngine()
			if err != nil {
				return err
			}
			defer engine.Close()

			engine.FetchSession(cmd.Context())
			printSnapshot(cmd, engine)
			return nil
		},
	}
}
