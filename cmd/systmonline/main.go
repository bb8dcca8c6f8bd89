package main

import (
	"log/slog"

	"systmonline-cli/cmd/systmonline/commands"
	"systmonline-cli/lib/serviceutil"
	"systmonline-cli/lib/telemetry"
)

func main() {
	ctx := serviceutil.SignalContext()

	telemetry.InitSlog(false)
	tel, err := telemetry.SetupFromEnv(ctx, "systmonline-cli")
	if err != nil {
		slog.Debug("telemetry disabled", "err", err)
	} else {
		defer tel.Shutdown(ctx)
	}

	commands.ExecuteContext(ctx)
}
