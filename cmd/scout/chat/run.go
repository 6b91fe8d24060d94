package chat

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"shopscout/internal/api"
	"shopscout/internal/assistant"
	"shopscout/internal/config"
)

// Run wires the service client, detail poller and controller together and
// runs the chat program until the user quits.
func Run(cfgPath string, cfg *config.Config, logger *zap.Logger) error {
	client := api.NewClient(cfg.Service.BaseURL, cfg.HTTPTimeout(), logger)
	poller := api.NewPoller(client, cfg.PollInterval(), cfg.Details.MaxAttempts, logger)
	ctrl := assistant.New(client, poller, client, assistant.Options{
		ModelChoice: cfg.Service.ModelChoice,
		Logger:      logger,
	})

	p := tea.NewProgram(NewModel(ctrl, cfg, logger), tea.WithAltScreen())

	watcher, err := config.NewWatcher(cfgPath, func(c *config.Config) {
		p.Send(configReloadedMsg{cfg: c})
	}, logger)
	if err != nil {
		logger.Warn("config watcher unavailable", zap.Error(err))
	} else {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		if err := watcher.Start(ctx); err != nil {
			logger.Warn("config watcher failed to start", zap.Error(err))
		} else {
			defer watcher.Stop()
		}
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat program failed: %w", err)
	}
	return nil
}
