package controller

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	fx "github.com/robotalks/mcv4b/pkg/framework"
	"github.com/robotalks/mcv4b/pkg/l1"
	"github.com/robotalks/mcv4b/pkg/l1/comm"
	"github.com/robotalks/mcv4b/pkg/l1/comm/mqtt"
	"github.com/robotalks/mcv4b/pkg/l1/env"
)

// Config provides common options to setup an env for L1 controllers.
type Config struct {
	Info l1.ControllerInfo

	// MQTTBrokerURL specifies the MQTT broker to use.
	// e.g. mqtt://host:port/topic-prefix
	MQTTBrokerURL string
	// LinkURL specifies the serial link of the board.
	LinkURL string
}

var defaultConfig = Config{
	MQTTBrokerURL: mqtt.DefaultBrokerURL,
	LinkURL:       "serial:///dev/ttyUSB0",
}

func init() {
	if val := os.Getenv("MCV_MQTT_URL"); val != "" {
		defaultConfig.MQTTBrokerURL = val
	}
	if val := os.Getenv("MCV_LINK"); val != "" {
		defaultConfig.LinkURL = val
	}
	if val := os.Getenv("MCV_ID"); val != "" {
		defaultConfig.Info.Ref.ID = val
	} else {
		defaultConfig.Info.Ref.ID = env.MachineID()
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.Info.Ref.Type, "type", defaultConfig.Info.Ref.Type, "Controller type")
	flag.StringVar(&defaultConfig.Info.Ref.ID, "id", defaultConfig.Info.Ref.ID, "Controller ID")
	flag.StringVar(&defaultConfig.MQTTBrokerURL, "mqtt", defaultConfig.MQTTBrokerURL, "MQTT broker URL")
	flag.StringVar(&defaultConfig.LinkURL, "link", defaultConfig.LinkURL, "Board link URL")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// SetControllerType should be called in init with basic info about the controller.
func SetControllerType(typ string, meta l1.ControllerMeta) {
	defaultConfig.Info.Ref.Type = typ
	defaultConfig.Info.Meta = meta
}

// Env is the env for L1 controllers.
type Env struct {
	Config       *Config
	RegistryURLs []string
	Registrar    *comm.RegistrarMux
	Runnables    []fx.Runnable
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// NewEnv creates Env from config, with commands executed by handler.
func (c *Config) NewEnv(handler l1.CommandHandler) (*Env, error) {
	if !c.Info.Ref.IsValid() {
		return nil, fmt.Errorf("controller type and id must be specified")
	}
	env := &Env{
		Config:    c,
		Registrar: &comm.RegistrarMux{},
	}
	if c.MQTTBrokerURL != "" {
		reg, err := mqtt.NewRegistrar(c.MQTTBrokerURL, c.Info, handler)
		if err != nil {
			return nil, fmt.Errorf("create MQTT registrar error: %v", err)
		}
		env.Registrar.Add(reg)
		env.Runnables = append(env.Runnables, fx.NamedRun("mqtt", reg))
		env.RegistryURLs = append(env.RegistryURLs, c.MQTTBrokerURL)
	}
	if len(env.Registrar.Registrars) == 0 {
		return nil, fmt.Errorf("at least one registrar is required")
	}
	return env, nil
}

// MustNewEnv creates Env and fails on error.
func (c *Config) MustNewEnv(handler l1.CommandHandler) *Env {
	env, err := c.NewEnv(handler)
	if err != nil {
		log.Fatalln(err)
	}
	return env
}

// SendEvent implements Registrar.
func (e *Env) SendEvent(ctx context.Context, msg fx.Message) error {
	return e.Registrar.SendEvent(ctx, msg)
}
