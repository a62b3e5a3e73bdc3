package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/robotalks/mcv4b/pkg/cli/sh"
	fx "github.com/robotalks/mcv4b/pkg/framework"
	"github.com/robotalks/mcv4b/pkg/l0/comm"
	"github.com/robotalks/mcv4b/pkg/l1"
	"github.com/robotalks/mcv4b/pkg/l1/bridge"
	env "github.com/robotalks/mcv4b/pkg/l1/env/connector"
)

var (
	linkURL    = os.Getenv("MCV_LINK")
	remote     bool
	outputJSON bool
	timeout    = sh.DefaultTimeout
)

var rootCmd = &cobra.Command{
	Use:   "mcvctl",
	Short: "Control a MCV4B motor controller",
	Long: `Control a MCV4B motor controller over a serial link (--link) or
through mcvbridge on MQTT (--remote).

Link URLs: /dev/ttyUSB0, serial:///dev/ttyUSB0?baud=115200, tcp://host:port, ws://host:port/path`,
	SilenceUsage: true,
}

func init() {
	if linkURL == "" {
		linkURL = "serial:///dev/ttyUSB0"
	}
	env.SetupFlags(flag.CommandLine)
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&linkURL, "link", "l", linkURL, "Board link URL")
	flags.BoolVarP(&remote, "remote", "r", remote, "Use the bridge selected by --robot-id on MQTT")
	flags.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON")
	flags.DurationVar(&timeout, "timeout", timeout, "Command timeout")
	// glog and connector flags.
	flags.AddGoFlagSet(flag.CommandLine)
}

// connect opens the board, directly or through the bridge.
func connect(ctx context.Context) (l1.ControllerConn, error) {
	if remote {
		return env.Default().Connect(ctx)
	}
	dev, err := comm.Dial(ctx, linkURL)
	if err != nil {
		return nil, err
	}
	return bridge.NewLocalConn(ctx, dev), nil
}

// run executes a single command and prints the reply.
func run(msg fx.Message) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	conn, err := connect(ctx)
	if err != nil {
		return err
	}
	res := l1.Wait(ctx, conn.DoCommand(msg))
	if res.Err != nil {
		return res.Err
	}
	if outputJSON {
		out, err := json.Marshal(res.Msg)
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}
	fmt.Println(sh.FormatMsg(res.Msg))
	return nil
}

func main() {
	// glog reads flags from flag.CommandLine, cobra has parsed them.
	flag.CommandLine.Parse(nil)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
