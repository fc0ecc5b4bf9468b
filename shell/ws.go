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
	"net/http"

	. "github.com/Comcast/tether/util/testutil"

	"github.com/gorilla/websocket"
)

// WebSocketService serves the eval protocol over websockets at
// addr/ws/eval.  Each text message is an EvalRequest; each reply is
// the corresponding EvalResponse.
func (s *Session) WebSocketService(ctx context.Context, addr string) error {

	var upgrader = websocket.Upgrader{} // use default options

	api := func(w http.ResponseWriter, r *http.Request) {
		s.logf("Session.WebSocketService connection from %s", r.RemoteAddr)

		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			s.logf("Session.WebSocketService upgrade error %v", err)
			return
		}
		defer c.Close()

		for {
			mt, message, err := c.ReadMessage()
			if err != nil {
				s.logf("Session.WebSocketService read error %v", err)
				break
			}

			var req EvalRequest
			if err := json.Unmarshal(message, &req); err != nil {
				msg := fmt.Sprintf("can't parse: %v", err)
				if err = c.WriteMessage(mt, []byte(msg)); err != nil {
					s.logf("Session.WebSocketService write (err) %v", err)
				}
				continue
			}

			resp := s.serve(ctx, &req)
			s.logf("Session.WebSocketService responding %s", JS(resp))
			js, err := json.Marshal(resp)
			if err != nil {
				s.logf("Session.WebSocketService Marshal error %v on %#v", err, resp)
				continue
			}
			if err = c.WriteMessage(mt, js); err != nil {
				s.logf("Session.WebSocketService write error %v", err)
				break
			}
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/eval", api)

	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		srv.Close()
	}()

	err := srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
