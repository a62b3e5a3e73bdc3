package main

import (
	"context"
	"flag"
	"log"
	"os"
	"reflect"
	"strings"

	fx "github.com/robotalks/mcv4b/pkg/framework"
	"github.com/robotalks/mcv4b/pkg/l1/comm/mqtt"
	"github.com/robotalks/mcv4b/pkg/l1/msgs"
)

var (
	mqttURL = mqtt.DefaultBrokerURL
)

func init() {
	if val := os.Getenv("MCV_MQTT_URL"); val != "" {
		mqttURL = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
}

func printMsg(topic string, payload []byte) {
	if strings.HasSuffix(topic, "/"+mqtt.TopicMeta) {
		log.Printf("%s: %s", topic, string(payload))
		return
	}
	typed, err := msgs.DecodeTyped(payload)
	if err != nil {
		log.Printf("%s: bad message: %v", topic, err)
		return
	}
	msg, err := typed.Decode()
	if err != nil {
		log.Printf("%s: decode error: (type_id=%x) %v", topic, typed.TypeID, err)
		return
	}
	log.Printf("%s: #%d [%s] %s", topic, typed.Sequence,
		reflect.Indirect(reflect.ValueOf(msg)).Type().Name(),
		msg.(msgs.SerializableMessage).Serializable().String())
}

func main() {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds)

	q, err := mqtt.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	q.Sub("#", printMsg)

	err = fx.NewRunner().HandleSignals().Go(fx.RunFunc(func(ctx context.Context) error {
		if err := mqtt.WaitToken(ctx, q.Connect()); err != nil {
			return err
		}
		defer q.Close()
		<-ctx.Done()
		return ctx.Err()
	})).Wait()
	if err != nil {
		log.Fatalln(err)
	}
}
