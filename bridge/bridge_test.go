package bridge

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lockstep-cli/lockstep/constant"
	"github.com/lockstep-cli/lockstep/gateway"
	. "github.com/smartystreets/goconvey/convey"
)

const pageOrigin = "https://player.example"

func dial(url, origin string) *websocket.Conn {
	header := http.Header{}
	header.Set("Origin", origin)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(url, "http")+"/bridge", header)
	So(err, ShouldBeNil)
	return conn
}

func next(b *Bridge) gateway.Envelope {
	select {
	case env := <-b.Messages():
		return env
	case <-time.After(2 * time.Second):
		panic("no envelope")
	}
}

func TestBridge(t *testing.T) {
	Convey("Given a running bridge", t, func() {
		b := New()
		srv := httptest.NewServer(b)
		Reset(func() {
			srv.Close()
			b.Close()
		})

		Convey("The health endpoint should answer", func() {
			resp, err := http.Get(srv.URL + "/healthz")
			So(err, ShouldBeNil)
			defer resp.Body.Close()
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
		})

		Convey("When a page connects and sends a progress event", func() {
			conn := dial(srv.URL, pageOrigin)
			defer conn.Close()

			So(conn.WriteMessage(websocket.TextMessage, []byte(`{"event":"progress","data":{"progress":5}}`)), ShouldBeNil)
			env := next(b)

			Convey("It should carry the page origin and the raw text", func() {
				So(env.Origin, ShouldEqual, pageOrigin)
				So(env.Source, ShouldNotBeEmpty)
				So(env.Payload, ShouldEqual, `{"event":"progress","data":{"progress":5}}`)
			})

			Convey("The gateway should authenticate it and reply over the same socket", func() {
				gw := gateway.New(b, pageOrigin)
				event, ok := gw.Receive(env)
				So(ok, ShouldBeTrue)
				So(event.Progress, ShouldEqual, 5)

				So(gw.RequestProgress(context.Background()), ShouldBeNil)

				_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
				_, data, err := conn.ReadMessage()
				So(err, ShouldBeNil)
				So(string(data), ShouldEqual, `{"method":"`+constant.MethodRequestProgress+`"}`)
			})
		})

		Convey("Each connection should get its own source", func() {
			first := dial(srv.URL, pageOrigin)
			defer first.Close()
			second := dial(srv.URL, pageOrigin)
			defer second.Close()

			So(first.WriteMessage(websocket.TextMessage, []byte(`{}`)), ShouldBeNil)
			a := next(b)
			So(second.WriteMessage(websocket.TextMessage, []byte(`{}`)), ShouldBeNil)
			c := next(b)

			So(a.Source, ShouldNotEqual, c.Source)
		})

		Convey("Posting to an unknown source should fail", func() {
			So(b.Post(context.Background(), "nobody", []byte(`{}`)), ShouldNotBeNil)
		})
	})

	Convey("Closing the bridge should close the inbox", t, func() {
		b := New()
		b.Close()
		_, open := <-b.Messages()
		So(open, ShouldBeFalse)
	})
}

func TestServe(t *testing.T) {
	Convey("Serving should stop and close the inbox when the context ends", t, func() {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		So(err, ShouldBeNil)

		b := New()
		ctx, cancel := context.WithCancel(context.Background())
		errc := make(chan error, 1)
		go func() { errc <- b.Serve(ctx, ln) }()

		resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
		So(err, ShouldBeNil)
		resp.Body.Close()

		cancel()
		So(<-errc, ShouldBeNil)

		_, open := <-b.Messages()
		So(open, ShouldBeFalse)
	})
}
