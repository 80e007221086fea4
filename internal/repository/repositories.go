package repository

import (
	"Kyusei-App/internal/domain/repository"
	"Kyusei-App/internal/infrastructure/database"
)

// Repositories ユースケースに渡すリポジトリ一式
type Repositories struct {
	Locations        repository.LocationsRepository
	Markers          repository.MarkersRepository
	FengShuiAnalysis repository.FengShuiAnalysisRepository
	KyuseiAnalysis   repository.KyuseiAnalysisRepository
	UserProfiles     repository.UserProfilesRepository
}

// NewMemoryRepositories 1つのメモリストアを共有するリポジトリ一式
func NewMemoryRepositories() *Repositories {
	store := NewMemoryStore()
	return &Repositories{
		Locations:        NewMemoryLocationsRepository(store),
		Markers:          NewMemoryMarkersRepository(store),
		FengShuiAnalysis: NewMemoryFengShuiAnalysisRepository(store),
		KyuseiAnalysis:   NewMemoryKyuseiAnalysisRepository(store),
		UserProfiles:     NewMemoryUserProfilesRepository(store),
	}
}

// NewSQLRepositories PostgreSQL / SQLite 共通のリポジトリ一式
func NewSQLRepositories(client *database.SQLClient) *Repositories {
	return &Repositories{
		Locations:        NewSQLLocationsRepository(client),
		Markers:          NewSQLMarkersRepository(client),
		FengShuiAnalysis: NewSQLFengShuiAnalysisRepository(client),
		KyuseiAnalysis:   NewSQLKyuseiAnalysisRepository(client),
		UserProfiles:     NewSQLUserProfilesRepository(client),
	}
}
