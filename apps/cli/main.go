package main

import (
	"fmt"
	"log"
	"os"

	"github.com/darasahq/darasa/core"
	"github.com/darasahq/darasa/core/cache"
	"github.com/darasahq/darasa/core/course"
	"github.com/darasahq/darasa/core/enrollment"
	"github.com/darasahq/darasa/core/guard"
	"github.com/darasahq/darasa/core/session"
	"github.com/darasahq/darasa/core/user"
	"github.com/darasahq/darasa/gateway"
	logsvc "github.com/darasahq/darasa/services/logger"
	sessionstore "github.com/darasahq/darasa/storage/session"
)

func main() {
	conf := core.NewConfig()

	std := log.New(os.Stderr, fmt.Sprintf("%s : ", conf.AppName), log.LstdFlags)
	var logger core.Logger
	if conf.RollbarToken != "" {
		logger = logsvc.NewRollbarLogger(std, conf)
	} else {
		logger = logsvc.NewConsoleLogger(std, conf)
	}

	repo := sessionstore.NewFileRepository(conf.SessionFile)
	store := session.NewStore(repo)
	if err := store.Rehydrate(); err != nil {
		logger.Warn("could not restore session; continuing logged out", err)
	}

	// the raw file read only matters before the store has rehydrated;
	// it is kept as a fallback source regardless.
	api := gateway.NewClient(conf, logger, store,
		gateway.TokenSourceFunc(func() string { return sessionstore.RawToken(conf.SessionFile) }),
	)
	queries := cache.New()

	cli := &commandLine{
		conf:    conf,
		logger:  logger,
		store:   store,
		guard:   guard.New(),
		authSvc: session.NewService(api, store),
		courses: course.NewService(api, queries),
		enrolls: enrollment.NewService(api, queries),
		users:   user.NewService(api, queries),
		in:      os.Stdin,
		out:     os.Stdout,
	}

	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}
