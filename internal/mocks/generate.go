package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name RecommendationRepository --dir ../domain/tipster --output domain/tipster --outpkg tipstermock --filename recommendation_repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name RangeRepository --dir ../domain/tipster --output domain/tipster --outpkg tipstermock --filename range_repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name StatsRepository --dir ../domain/tipster --output domain/tipster --outpkg tipstermock --filename stats_repository_mock.go
