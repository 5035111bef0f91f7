package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"verdandi/internal/demo"
)

var (
	demoAddr string
	demoZone string
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the bundled demo backend",
	Long: `Run an in-memory booking backend with seeded sample data, for trying
the calendar without a real account. Point the UI at it with
--api-url or the config file.`,
	RunE: runDemo,
}

func init() {
	demoCmd.Flags().StringVar(&demoAddr, "addr", "127.0.0.1:8590", "Listen address")
	demoCmd.Flags().StringVar(&demoZone, "tz", "America/New_York", "Timezone of the demo professional")
	rootCmd.AddCommand(demoCmd)
}

func runDemo(cmd *cobra.Command, args []string) error {
	store := demo.NewStore(demoZone)
	fmt.Printf("Demo backend listening on http://%s\n", demoAddr)
	return http.ListenAndServe(demoAddr, demo.Handler(store))
}
