package main

import (
	"io"
	"os"
	"path/filepath"
	"text/template"

	"github.com/kardianos/osext"
	log "github.com/sirupsen/logrus"
)

const serviceFile = `
[Unit]
Description=MIDI Foot Controller
After=sound.target

[Service]
ExecStart={{.BinPath}} run -c {{ .ConfigFile }}
Restart=on-failure

[Install]
WantedBy=multi-user.target
`

var serviceTmpl = template.Must(template.New("service").Parse(serviceFile))

// installTree copies the running binary, the systemd unit and (unless one
// exists and reset is false) the default config below prefix.
func installTree(prefix, confPath string, reset bool) error {
	if prefix == "" {
		prefix = "/"
	}
	bPath, err := osext.Executable()
	if err != nil {
		return err
	}

	binPath := filepath.Join(prefix, "usr/bin/stompctl")
	err = copyFile(bPath, binPath, 0755)
	if err != nil {
		return err
	}
	log.WithField("Path", binPath).Infoln("installed binary")

	unitPath := filepath.Join(prefix, "usr/lib/systemd/system/stompctl.service")
	err = writeWith(unitPath, 0644, func(w io.Writer) error {
		return serviceTmpl.Execute(w, struct{ BinPath, ConfigFile string }{"/usr/bin/stompctl", confPath})
	})
	if err != nil {
		return err
	}
	log.WithField("Path", unitPath).Infoln("installed service")

	err = os.MkdirAll(filepath.Join(prefix, filepath.Dir(DefaultEEPROMPath)), 0755)
	if err != nil {
		return err
	}

	dstPath := filepath.Join(prefix, confPath)
	_, err = os.Stat(dstPath)
	if err == nil && !reset {
		log.WithField("Path", dstPath).Infoln("keeping existing config")
		return nil
	}
	err = writeWith(dstPath, 0644, func(w io.Writer) error {
		_, err := io.WriteString(w, configFile)
		return err
	})
	if err != nil {
		return err
	}
	log.WithField("Path", dstPath).Infoln("installed default config")
	return nil
}

func copyFile(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	return writeWith(dst, mode, func(w io.Writer) error {
		_, err := io.Copy(w, in)
		return err
	})
}

func writeWith(path string, mode os.FileMode, fn func(io.Writer) error) error {
	os.MkdirAll(filepath.Dir(path), 0755)
	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer dst.Close()

	err = fn(dst)
	if err != nil {
		return err
	}
	return dst.Close()
}
