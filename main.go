package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"yatube/cache"
	"yatube/database"
	"yatube/http"
	"yatube/storage"
)

// main is the app's entry point.
func main() {
	// The "-prod" flag means we're running in production: a .config.json
	// file must be provided before the application starts.
	prodBool := flag.Bool("prod", false, "Provide this flag in production to ensure that a .config.json file is provided before the application starts.")
	flag.Parse()

	config := LoadConfig(*prodBool)

	logLevel := slog.LevelDebug
	if config.IsProd() {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))

	// Open a database connection and execute migrations.
	db := NewDB(config.Database.ConnectionInfo())
	err := Open(db, config.IsProd())
	must(err)
	defer Close(db)
	err = AutoMigrate(db)
	must(err)

	// Start the database services.
	services, err := database.NewServices(
		db.Gorm,
		database.WithUser(config.HMACKey, config.Pepper),
		database.WithGroup(),
		database.WithPost(),
		database.WithComment(),
		database.WithFollow(),
	)
	must(err)

	// Image storage and the index page cache.
	images := storage.NewImageService(config.MediaRoot)
	pages := cache.NewPageCache(time.Duration(config.IndexCacheTTLSeconds) * time.Second)

	// Set up a webserver and serve the app.
	server := http.NewServer(
		http.Config{
			PageSize:    config.PageSize,
			MediaRoot:   config.MediaRoot,
			CSRFAuthKey: config.CSRFAuthKey,
			IsProd:      config.IsProd(),
		},
		logger,
		pages,
		services.User,
		services.Group,
		services.Post,
		services.Comment,
		services.Follow,
		images,
	)
	must(server.Run(config.Port))
}

// must is a little helper for shortening the panic instruction.
func must(err error) {
	if err != nil {
		panic(err)
	}
}
