package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/hexsocial/internal/client/client"
	"github.com/dmitrijs2005/hexsocial/internal/client/config"
)

func main() {

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := client.New(ctx, cfg, client.Options{In: os.Stdin, Out: os.Stdout})
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer c.Close()

	c.Run(ctx)

}
