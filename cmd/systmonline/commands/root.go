package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"systmonline-cli/cmd/systmonline/utils"
	"systmonline-cli/lib/configutil"
	"systmonline-cli/lib/restyutil"
	"systmonline-cli/lib/scrapers/systmonline"
	"systmonline-cli/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

const baseUrl = "https://systmonline.tpp-uk.com"

type Config struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

var username *string
var password *string
var debugHttp *bool

var rootCmd = &cobra.Command{
	Use:           "systmonline",
	Short:         "systmonline is a CLI for listing and re-ordering repeat medications on SystmOnline.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.Help()
		return fmt.Errorf("specify either the medications or the order command")
	},
}

func init() {
	username = rootCmd.PersistentFlags().String("username", "", "Username for login, falls back to config.json5.")
	password = rootCmd.PersistentFlags().String("password", "", "Password for login, falls back to config.json5.")
	debugHttp = rootCmd.PersistentFlags().Bool("debug-http", false, "Write every HTTP exchange to .dev/resty/systmonline.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func credentials() (string, string) {
	user, pass := *username, *password
	if user != "" && pass != "" {
		return user, pass
	}

	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if err != nil && !os.IsNotExist(err) {
		serviceutil.Fatal("failed to read config", err)
	}
	if user == "" {
		user = cfg.Username
	}
	if pass == "" {
		pass = cfg.Password
	}
	if user == "" || pass == "" {
		serviceutil.Fatal(
			"missing credentials",
			fmt.Errorf("provide --username and --password or a config.json5"),
		)
	}
	return user, pass
}

func createClient(ctx context.Context) *systmonline.Client {
	user, pass := credentials()

	var output restyutil.InstrumentOutput
	if *debugHttp {
		output = restyutil.NewFilesystemOutput(".dev/resty/systmonline")
	}

	client, err := systmonline.NewClient(ctx, systmonline.ClientOptions{
		BaseUrl: baseUrl,
		Output:  output,
	})
	if err != nil {
		serviceutil.Fatal("failed to initialize client", err)
	}

	slog.Info("logging in", "username", user)
	err = client.Login(ctx, user, pass)
	if err != nil {
		serviceutil.Fatal("failed to login", err)
	}

	return client
}

func renderMedications(meds []systmonline.Medication) {
	t := utils.NewTable()
	t.AppendHeader(table.Row{"#", "Drug Name", "Last Issued", "Last Requested", "Can Be Ordered"})
	for i, med := range meds {
		canOrder := "No"
		if med.Orderable {
			canOrder = "Yes"
		}
		t.AppendRow(table.Row{i + 1, med.Name, med.LastIssued, med.LastRequested, canOrder})
	}
	t.Render()
}
