//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/vocquiz/internal/adapter/bulkfile"
	"github.com/eslsoft/vocquiz/internal/adapter/repository"
	"github.com/eslsoft/vocquiz/internal/infrastructure/config"
	"github.com/eslsoft/vocquiz/internal/infrastructure/database"
	"github.com/eslsoft/vocquiz/internal/infrastructure/metrics"
	"github.com/eslsoft/vocquiz/internal/infrastructure/server"
	repo "github.com/eslsoft/vocquiz/internal/repository"
	"github.com/eslsoft/vocquiz/internal/usecase"
)

var configSet = wire.NewSet(
	config.Load,
	provideRoundSize,
)

var databaseSet = wire.NewSet(
	database.Open,
)

var repositorySet = wire.NewSet(
	repository.NewStore,
	wire.FieldsOf(new(*repository.Store), "Users", "Words", "Exposures"),
	bulkfile.NewCSVSource,
	wire.Bind(new(repo.BulkWordSource), new(*bulkfile.CSVSource)),
)

var usecaseSet = wire.NewSet(
	usecase.NewRoundSelector,
	usecase.NewMasteryTracker,
	usecase.NewScoreBoard,
	usecase.NewVocabularyUsecase,
)

var metricsSet = wire.NewSet(
	metrics.NewRecorder,
	provideRegistry,
	wire.Bind(new(usecase.RoundObserver), new(*metrics.Recorder)),
)

var serverSet = wire.NewSet(
	server.NewLogger,
	wire.Bind(new(logrus.FieldLogger), new(*logrus.Logger)),
	server.NewServer,
)

// Initialize builds the application container using Wire.
func Initialize() (*Container, func(), error) {
	wire.Build(
		configSet,
		databaseSet,
		repositorySet,
		usecaseSet,
		metricsSet,
		serverSet,
		wire.Struct(new(Container), "*"),
	)
	return nil, nil, nil
}
