/* Copyright 2021 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package shell

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQTTCoupling serves the eval protocol over an MQTT broker:
// EvalRequests arrive on EvalTopic and EvalResponses go out on
// ResultTopic.
type MQTTCoupling struct {
	// Broker is the broker address (e.g. "tcp://localhost:1883").
	Broker string

	// ClientId defaults to a generated one.
	ClientId string

	// EvalTopic and ResultTopic default to "tether/eval" and
	// "tether/result".
	EvalTopic   string
	ResultTopic string

	// KeepAlive defaults to 600 seconds.
	KeepAlive time.Duration

	// QoS for the subscription and the published results.
	QoS byte

	// Quiesce is the disconnection quiescence in milliseconds.
	Quiesce uint

	client mqtt.Client
}

// MQTTService connects to the broker and serves eval requests until
// the context is canceled.
func (s *Session) MQTTService(ctx context.Context, coupling *MQTTCoupling) error {

	if coupling.ClientId == "" {
		coupling.ClientId = "tether-" + Gensym(8)
	}
	if coupling.EvalTopic == "" {
		coupling.EvalTopic = "tether/eval"
	}
	if coupling.ResultTopic == "" {
		coupling.ResultTopic = "tether/result"
	}
	if coupling.KeepAlive == 0 {
		coupling.KeepAlive = 600 * time.Second
	}
	if coupling.Quiesce == 0 {
		coupling.Quiesce = 100
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(coupling.Broker)
	opts.SetClientID(coupling.ClientId)
	opts.SetKeepAlive(coupling.KeepAlive)
	opts.SetPingTimeout(10 * time.Second)
	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		s.logf("Session.MQTTService connection lost: %v", err)
	}

	coupling.client = mqtt.NewClient(opts)

	if t := coupling.client.Connect(); t.Wait() && t.Error() != nil {
		return fmt.Errorf("MQTT connect: %w", t.Error())
	}
	defer coupling.client.Disconnect(coupling.Quiesce)

	handler := func(client mqtt.Client, msg mqtt.Message) {
		var req EvalRequest
		if err := json.Unmarshal(msg.Payload(), &req); err != nil {
			s.logf("Session.MQTTService can't parse %s: %v", msg.Payload(), err)
			return
		}
		resp := s.serve(ctx, &req)
		js, err := json.Marshal(resp)
		if err != nil {
			s.logf("Session.MQTTService Marshal error %v on %#v", err, resp)
			return
		}
		client.Publish(coupling.ResultTopic, coupling.QoS, false, js)
	}

	if t := coupling.client.Subscribe(coupling.EvalTopic, coupling.QoS, handler); t.Wait() && t.Error() != nil {
		return fmt.Errorf("MQTT subscribe %s: %w", coupling.EvalTopic, t.Error())
	}
	s.logf("Session.MQTTService subscribed to %s", coupling.EvalTopic)

	<-ctx.Done()
	return nil
}
