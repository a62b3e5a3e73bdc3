//go:build !tinygo

package comm

import (
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
	"golang.org/x/net/websocket"
)

// DefaultBaudRate is the baud rate of the firmware UART.
const DefaultBaudRate = 115200

// Open opens a link by URL:
//
//	serial:///dev/ttyUSB0?baud=115200
//	tcp://host:port
//	ws://host:port/path
//
// A URL without scheme is taken as a serial device path.
func Open(linkURL string) (io.ReadWriteCloser, error) {
	u, err := url.Parse(linkURL)
	if err != nil {
		return nil, errors.Wrap(err, "invalid link URL")
	}
	switch u.Scheme {
	case "", "serial":
		name := u.Path
		if name == "" {
			name = u.Opaque
		}
		baud := DefaultBaudRate
		if val := u.Query().Get("baud"); val != "" {
			if baud, err = strconv.Atoi(val); err != nil {
				return nil, errors.Wrapf(err, "invalid baud rate %q", val)
			}
		}
		port, err := serial.Open(name, &serial.Mode{BaudRate: baud})
		if err != nil {
			return nil, errors.Wrapf(err, "open serial port %s", name)
		}
		return port, nil
	case "tcp":
		conn, err := net.Dial("tcp", u.Host)
		if err != nil {
			return nil, errors.Wrap(err, "dial")
		}
		return conn, nil
	case "ws", "wss":
		origin := "http://" + u.Host + "/"
		conn, err := websocket.Dial(linkURL, "", origin)
		if err != nil {
			return nil, errors.Wrap(err, "dial websocket")
		}
		conn.PayloadType = websocket.BinaryFrame
		return conn, nil
	}
	return nil, &SchemeError{Scheme: u.Scheme}
}

// Listener accepts links one at a time.
type Listener interface {
	io.Closer
	Accept() (io.ReadWriteCloser, error)
	Addr() string
}

// Listen listens for links on tcp:// or ws:// URLs.
func Listen(linkURL string) (Listener, error) {
	u, err := url.Parse(linkURL)
	if err != nil {
		return nil, errors.Wrap(err, "invalid link URL")
	}
	switch u.Scheme {
	case "tcp":
		ln, err := net.Listen("tcp", u.Host)
		if err != nil {
			return nil, errors.Wrap(err, "listen")
		}
		return &tcpListener{ln}, nil
	case "ws":
		return listenWebsocket(u)
	}
	return nil, &SchemeError{Scheme: u.Scheme}
}

type tcpListener struct {
	net.Listener
}

func (l *tcpListener) Accept() (io.ReadWriteCloser, error) {
	return l.Listener.Accept()
}

func (l *tcpListener) Addr() string {
	return "tcp://" + l.Listener.Addr().String()
}

type wsListener struct {
	ln      net.Listener
	path    string
	connCh  chan *wsConn
	closeCh chan struct{}
	once    sync.Once
}

type wsConn struct {
	*websocket.Conn
	done chan struct{}
	once sync.Once
}

func (c *wsConn) Close() error {
	c.once.Do(func() { close(c.done) })
	return c.Conn.Close()
}

func listenWebsocket(u *url.URL) (*wsListener, error) {
	ln, err := net.Listen("tcp", u.Host)
	if err != nil {
		return nil, errors.Wrap(err, "listen")
	}
	l := &wsListener{
		ln:      ln,
		path:    u.Path,
		connCh:  make(chan *wsConn),
		closeCh: make(chan struct{}),
	}
	if l.path == "" {
		l.path = "/"
	}
	mux := http.NewServeMux()
	mux.Handle(l.path, websocket.Server{Handler: l.serve})
	go func() {
		if err := http.Serve(ln, mux); err != nil {
			glog.V(1).Infof("websocket server stopped: %v", err)
		}
	}()
	return l, nil
}

// serve holds the connection until the accepting side closes it.
func (l *wsListener) serve(ws *websocket.Conn) {
	ws.PayloadType = websocket.BinaryFrame
	conn := &wsConn{Conn: ws, done: make(chan struct{})}
	select {
	case l.connCh <- conn:
	case <-l.closeCh:
		return
	}
	select {
	case <-conn.done:
	case <-l.closeCh:
	}
}

func (l *wsListener) Accept() (io.ReadWriteCloser, error) {
	select {
	case conn := <-l.connCh:
		return conn, nil
	case <-l.closeCh:
		return nil, io.EOF
	}
}

func (l *wsListener) Addr() string {
	return "ws://" + l.ln.Addr().String() + l.path
}

func (l *wsListener) Close() error {
	l.once.Do(func() { close(l.closeCh) })
	return l.ln.Close()
}

// PortInfo describes a serial port.
type PortInfo struct {
	Name         string
	IsUSB        bool
	VID          string
	PID          string
	SerialNumber string
}

// Ports lists serial ports present on the system.
func Ports() ([]PortInfo, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, errors.Wrap(err, "list serial ports")
	}
	ports := make([]PortInfo, 0, len(details))
	for _, d := range details {
		ports = append(ports, PortInfo{
			Name:         d.Name,
			IsUSB:        d.IsUSB,
			VID:          d.VID,
			PID:          d.PID,
			SerialNumber: d.SerialNumber,
		})
	}
	return ports, nil
}
