package config

import "time"

type Config struct {
	BaseURL        string
	PlacesIndexURL string
	OutputDir      string
	Headless       bool

	// Hard ceilings for browser waits. Exceeding one is a fatal error for
	// the operation that hit it.
	NavTimeout      time.Duration
	SelectorTimeout time.Duration

	// Fixed settle delays between browser steps.
	ListingSettle time.Duration
	RevealSettle  time.Duration
	ScrollSettle  time.Duration
	RenderSettle  time.Duration
	LazyScrollGap time.Duration

	MaxRevealAttempts int
	MaxRetries        int
	MinDelay          time.Duration
	MaxDelay          time.Duration

	DBEnabled  bool
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
}

func DefaultConfig() *Config {
	return &Config{
		BaseURL:        "https://www.united.com/en/us/hemispheres/",
		PlacesIndexURL: "https://www.united.com/en/us/hemispheres/places-to-go/index.html",
		OutputDir:      "output",
		Headless:       false,

		NavTimeout:      60 * time.Second,
		SelectorTimeout: 20 * time.Second,

		ListingSettle: 3 * time.Second,
		RevealSettle:  2 * time.Second,
		ScrollSettle:  500 * time.Millisecond,
		RenderSettle:  8 * time.Second,
		LazyScrollGap: 1 * time.Second,

		MaxRevealAttempts: 50,
		MaxRetries:        3,
		MinDelay:          2 * time.Second,
		MaxDelay:          5 * time.Second,

		DBEnabled:  false,
		DBHost:     "localhost",
		DBPort:     5432,
		DBUser:     "postgres",
		DBPassword: "postgres",
		DBName:     "hemispheres",
		DBSSLMode:  "disable",
	}
}
