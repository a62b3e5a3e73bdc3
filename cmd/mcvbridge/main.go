package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/mcv4b/pkg/framework"
	"github.com/robotalks/mcv4b/pkg/l0/comm"
	"github.com/robotalks/mcv4b/pkg/l1"
	"github.com/robotalks/mcv4b/pkg/l1/bridge"
	env "github.com/robotalks/mcv4b/pkg/l1/env/controller"
)

const eventRetryInterval = time.Second

func init() {
	env.SetControllerType(bridge.ControllerType, l1.ControllerMeta{Description: "MCV4B motor controller"})
	env.SetupFlags()
}

func main() {
	flag.Parse()

	conf := env.NewConfig()
	runner := fx.NewRunner().HandleSignals()
	session, err := comm.Dial(runner.Context, conf.LinkURL)
	if err != nil {
		log.Fatalln(err)
	}
	e := conf.MustNewEnv(bridge.NewHandler(session))
	runner.Go(fx.NamedRun("link", session))
	runner.Go(e.Runnables...)
	runner.Go(fx.NamedRun("link-check", fx.RunFunc(func(ctx context.Context) error {
		status := bridge.CheckLink(ctx, session, conf.LinkURL)
		glog.Infof("link status: %v", status)
		// the registrar may still be connecting.
		ticker := time.NewTicker(eventRetryInterval)
		defer ticker.Stop()
		for {
			err := e.SendEvent(ctx, status)
			if err == nil {
				break
			}
			glog.V(1).Infof("send link status: %v", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		}
		<-ctx.Done()
		return ctx.Err()
	})))
	if err := runner.Wait(); err != nil {
		log.Fatalln(err)
	}
}
