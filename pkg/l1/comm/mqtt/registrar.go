package mqtt

import (
	"context"
	"encoding/json"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/mcv4b/pkg/framework"
	"github.com/robotalks/mcv4b/pkg/l1"
	"github.com/robotalks/mcv4b/pkg/l1/comm"
)

const unregisterTimeout = time.Second

// Registrar exposes an L1 controller on MQTT: the retained meta topic
// announces it (cleared by will on disconnect), commands arrive on cmd
// and replies/events go to msg.
type Registrar struct {
	Queue *Queue
	Info  l1.ControllerInfo

	metaJSON   []byte
	rw         *ReadWriter
	controller comm.Controller
}

// NewRegistrar creates a Registrar with commands executed by handler.
func NewRegistrar(brokerURL string, info l1.ControllerInfo, handler l1.CommandHandler) (*Registrar, error) {
	meta, err := json.Marshal(&info.Meta)
	if err != nil {
		return nil, err
	}
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	metaTopic := info.Ref.Name() + "/" + TopicMeta
	opts.SetBinaryWill(topicPrefix+metaTopic, nil, 1, true)
	if opts.ClientID == "" {
		opts.SetClientID("mcv:" + info.Ref.Name())
	}
	r := &Registrar{
		Queue:    NewQueue(opts, topicPrefix),
		Info:     info,
		metaJSON: meta,
	}
	r.Queue.OnConnect = func(*Queue) { r.onConnected() }
	r.rw = NewPacketReadWriter(r.Queue).ForController(info.Ref)
	r.controller.Init(r.rw, handler)
	return r, nil
}

// SendEvent implements Registrar.
func (r *Registrar) SendEvent(ctx context.Context, msg fx.Message) error {
	return r.controller.SendEvent(ctx, msg)
}

// Run implements Runnable.
func (r *Registrar) Run(ctx context.Context) error {
	if err := WaitToken(ctx, r.Queue.Connect()); err != nil {
		return err
	}
	runner := fx.NewRunnerWith(ctx)
	runner.Go(fx.NamedRun("mqtt.sub", r.rw), fx.NamedRun("mqtt.controller", &r.controller))
	err := runner.Wait()
	r.Queue.PubWith(r.metaTopic(), nil, 1, true).WaitTimeout(unregisterTimeout)
	r.Queue.Close()
	return err
}

func (r *Registrar) metaTopic() string {
	return r.Info.Ref.Name() + "/" + TopicMeta
}

func (r *Registrar) onConnected() {
	glog.Infof("registered %s", r.Info.Ref.Name())
	r.Queue.PubWith(r.metaTopic(), r.metaJSON, 1, true)
}
