package main

import (
	"log"
	"os"

	"github.com/easymind/easymind/core"
	"github.com/easymind/easymind/storage/document"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()
	cli := commandLine{conf: conf}

	// only `migrate` needs the DB
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		errAndDie(document.CreateIfNotExist(conf))
		db, err := document.Open(conf)
		errAndDie(err)
		defer func() { _ = db.Close() }()
		errAndDie(db.Ping())
		cli.db = db.DB
	}

	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
