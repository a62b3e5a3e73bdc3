package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/robotalks/mcv4b/pkg/cli/cmds/motor"
	"github.com/robotalks/mcv4b/pkg/cli/sh"
	"github.com/robotalks/mcv4b/pkg/l0/comm"
	env "github.com/robotalks/mcv4b/pkg/l1/env/connector"
	"github.com/robotalks/mcv4b/pkg/l1/msgs"

	_ "github.com/robotalks/mcv4b/pkg/cli/cmds/all"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Query the firmware version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(&msgs.VersionQuery{})
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Resynchronize the command parser of the board",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(&msgs.LinkSync{})
	},
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Reboot the board into the system bootloader",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(&msgs.EnterUpdateMode{})
	},
}

var driveCmd = &cobra.Command{
	Use:   "drive CHANNEL VELOCITY",
	Short: "Drive a motor with signed velocity (-126..127)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ch, err := motor.ParseChannel(args[0])
		if err != nil {
			return err
		}
		val, err := strconv.ParseInt(args[1], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid VELOCITY: %v", err)
		}
		return run(&msgs.MotorDrive{Channel: ch, Velocity: int32(val)})
	},
}

var speedCmd = &cobra.Command{
	Use:   "speed CHANNEL SPEED-BYTE",
	Short: "Send a raw speed byte (1 coasts, 128 stops)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ch, err := motor.ParseChannel(args[0])
		if err != nil {
			return err
		}
		val, err := strconv.ParseUint(args[1], 0, 8)
		if err != nil {
			return fmt.Errorf("invalid SPEED-BYTE: %v", err)
		}
		return run(&msgs.MotorSpeed{Channel: ch, Speed: uint32(val)})
	},
}

var disableCmd = &cobra.Command{
	Use:   "disable CHANNEL...",
	Short: "Let motors coast",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, arg := range args {
			ch, err := motor.ParseChannel(arg)
			if err != nil {
				return err
			}
			if err := run(&msgs.MotorDisable{Channel: ch}); err != nil {
				return err
			}
		}
		return nil
	},
}

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List serial ports",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ports, err := comm.Ports()
		if err != nil {
			return err
		}
		if outputJSON {
			out, err := json.Marshal(ports)
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		}
		for _, p := range ports {
			if p.IsUSB {
				fmt.Printf("%s\t%s:%s\t%s\n", p.Name, p.VID, p.PID, p.SerialNumber)
			} else {
				fmt.Println(p.Name)
			}
		}
		return nil
	},
}

var shellCmd = &cobra.Command{
	Use:   "shell [COMMAND ARGS...]",
	Short: "Run shell commands, interactively without arguments",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := sh.New(env.Default())
		s.OutputJSON, s.Timeout = outputJSON, timeout
		if remote {
			ref := env.Default().Ref
			if !ref.IsValid() {
				info, err := s.SelectController(nil)
				if err != nil {
					return err
				}
				ref = info.Ref
			}
			if err := s.Connect(ref); err != nil {
				return err
			}
		} else if err := s.Open(linkURL); err != nil {
			return err
		}
		return s.Run(args...)
	},
}

func init() {
	rootCmd.AddCommand(
		versionCmd,
		syncCmd,
		updateCmd,
		driveCmd,
		speedCmd,
		disableCmd,
		portsCmd,
		shellCmd,
	)
}
