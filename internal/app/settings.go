package app

import "time"

// Settings are the tunables the services read. wire builds them from config.
type Settings struct {
	Currency             string
	DailyStipend         int
	DefaultSeedling      string
	SeedlingCost         int
	DiscoveryBonusRatio  float64
	DavePlantPrice       int
	DaveRandomPlants     int
	TradeTimeout         time.Duration
	FusionConfirmTimeout time.Duration
	Location             *time.Location
	PageSize             int
}

// DefaultSettings returns the stock game tuning.
func DefaultSettings() Settings {
	return Settings{
		Currency:             "sun",
		DailyStipend:         1000,
		DefaultSeedling:      "Seedling",
		SeedlingCost:         100,
		DiscoveryBonusRatio:  0.5,
		DavePlantPrice:       5000,
		DaveRandomPlants:     4,
		TradeTimeout:         60 * time.Second,
		FusionConfirmTimeout: 60 * time.Second,
		Location:             time.UTC,
		PageSize:             5,
	}
}

func (s Settings) location() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}

func (s Settings) pageSize() int {
	if s.PageSize <= 0 {
		return 5
	}
	return s.PageSize
}
