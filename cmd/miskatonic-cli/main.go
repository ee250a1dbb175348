package main

import (
	"context"

	"miskatonic-backend/cmd/miskatonic-cli/commands"
	"miskatonic-backend/lib/telemetry"
)

func main() {
	ctx := context.Background()
	telemetry.SetupFromEnv(ctx, "miskatonic-cli")
	telemetry.InitSlog(true)
	commands.ExecuteContext(ctx)
}
