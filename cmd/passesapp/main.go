package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/GoArmGo/PassesApp/internal/di"
)

func main() {

	mode := flag.String("mode", "server", "Режим запуска приложения: server или worker")
	flag.Parse()

	// bootstrap-логгер используется только на этапе инициализации,
	// пока основной логгер ещё не создан
	bootstrapLogger := slog.New(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
	)
	bootstrapLogger.Info("starting application", "mode", *mode)

	ctx := context.Background()

	app, err := di.BuildApp(*mode)
	if err != nil {
		bootstrapLogger.Error("failed to build app", "error", err)
		os.Exit(1)
	}

	log := app.LoggerIns()
	log.Info("application initialized successfully")

	if err := app.Run(ctx, *mode); err != nil {
		log.Error("application run failed", "error", err)
		os.Exit(1)
	}

	log.Info("application stopped gracefully")
}
