package hw

import (
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"go.bug.st/serial"
)

const DefaultConsoleBaud = 115200

type stdio struct {
	io.Reader
	io.Writer
}

func (stdio) Close() error { return nil }

// OpenConsole opens the configuration console. "-" means stdin/stdout.
func OpenConsole(device string, baud int) (io.ReadWriteCloser, error) {
	if device == "-" {
		return stdio{os.Stdin, os.Stdout}, nil
	}
	if baud == 0 {
		baud = DefaultConsoleBaud
	}
	p, err := serial.Open(device, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("open console %s: %w", device, err)
	}
	log.WithFields(log.Fields{
		"Device": device,
		"Baud":   baud,
	}).Infoln("console opened")
	return p, nil
}

// Pump reads r on its own goroutine and hands every chunk to the returned
// channel. The channel is closed when r fails or reaches EOF.
func Pump(r io.Reader) <-chan []byte {
	c := make(chan []byte, 32)
	go func() {
		defer close(c)
		buf := make([]byte, 256)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				c <- append([]byte(nil), buf[:n]...)
			}
			if err != nil {
				if err != io.EOF {
					log.Warnln("console read:", err)
				}
				return
			}
		}
	}()
	return c
}
