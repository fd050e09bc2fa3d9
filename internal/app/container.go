package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/vocquiz/internal/adapter/bulkfile"
	"github.com/eslsoft/vocquiz/internal/adapter/chat"
	"github.com/eslsoft/vocquiz/internal/infrastructure/config"
	"github.com/eslsoft/vocquiz/internal/infrastructure/database"
	"github.com/eslsoft/vocquiz/internal/infrastructure/metrics"
	"github.com/eslsoft/vocquiz/internal/infrastructure/server"
	"github.com/eslsoft/vocquiz/internal/usecase"
)

// Container aggregates the application dependencies produced by Wire.
type Container struct {
	Config     *config.Config
	Logger     *logrus.Logger
	Conn       *database.Connection
	Bulk       *bulkfile.CSVSource
	Metrics    *metrics.Recorder
	Selector   usecase.RoundSelector
	Mastery    usecase.MasteryTracker
	ScoreBoard usecase.ScoreBoard
	Vocabulary usecase.VocabularyUsecase
	Server     *server.Server
}

// NewGame builds the conversation handler that answers through channel.
func (c *Container) NewGame(channel chat.Channel) *chat.Game {
	rules := chat.Rules{Reward: c.Config.Game.Reward, Penalty: c.Config.Game.Penalty}
	return chat.NewGame(channel, c.Selector, c.Mastery, c.ScoreBoard, c.Vocabulary, rules, c.Metrics, c.Logger)
}

func provideRoundSize(cfg *config.Config) usecase.RoundSize {
	return usecase.RoundSize(cfg.Game.Quantity)
}

func provideRegistry(rec *metrics.Recorder) *prometheus.Registry {
	return rec.Registry()
}
